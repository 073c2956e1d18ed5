package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/trackboard/internal/model"
)

// Params is the textual form of filter criteria, as given by flags or query strings.
type Params struct {
	From      string
	To        string
	Status    string
	Preset    string
	Search    string
	Locations []string
	Persons   []string
}

// Criteria converts p into filter criteria relative to now. A preset replaces
// every other field. Invalid fields are left unconstrained and reported
// together in the returned error.
func (p Params) Criteria(now time.Time) (model.FilterCriteria, error) {
	if strings.TrimSpace(p.Preset) != "" {
		return Preset(p.Preset, now)
	}

	var c model.FilterCriteria
	var errs []error

	if from, err := parseDay(p.From); err != nil {
		errs = append(errs, fmt.Errorf("from: %w", err))
	} else {
		c.DateFrom = from
	}
	if to, err := parseDay(p.To); err != nil {
		errs = append(errs, fmt.Errorf("to: %w", err))
	} else {
		c.DateTo = to
	}

	if s := strings.TrimSpace(p.Status); s != "" {
		status, err := model.ParseStatusCategory(s)
		if err != nil {
			errs = append(errs, err)
		} else {
			c.Status = &status
		}
	}

	c.Search = strings.TrimSpace(p.Search)
	c.Locations = nonBlank(p.Locations)
	c.Persons = nonBlank(p.Persons)

	return c, errors.Join(errs...)
}

func parseDay(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return &t, nil
}

func nonBlank(values []string) []string {
	var out []string
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
