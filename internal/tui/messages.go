package tui

import (
	"time"

	"github.com/Veraticus/trackboard/internal/engine"
)

// datasetMsg carries a freshly built dataset.
type datasetMsg struct {
	dataset *engine.Dataset
}

// refreshFailedMsg reports a failed refresh; the previous dataset stays on screen.
type refreshFailedMsg struct {
	err error
}

// refreshDroppedMsg reports a trigger that arrived while a refresh was running.
type refreshDroppedMsg struct{}

// tickMsg fires the periodic refresh.
type tickMsg time.Time
