package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/trackboard/internal/model"
	"github.com/Veraticus/trackboard/internal/service"
)

// MockWriter is a mock implementation of ReportWriter for testing.
type MockWriter struct {
	WriteFunc      func(ctx context.Context, report *service.Report) error
	LastReport     *service.Report
	WriteCalls     []WriteCall
	WriteCallCount int
	mu             sync.Mutex
}

// WriteCall represents a single call to Write.
type WriteCall struct {
	Error  error
	Report *service.Report
}

// NewMockWriter creates a new mock writer.
func NewMockWriter() *MockWriter {
	return &MockWriter{
		WriteCalls: make([]WriteCall, 0),
	}
}

// Write implements the ReportWriter interface.
func (m *MockWriter) Write(ctx context.Context, report *service.Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteCallCount++
	m.LastReport = report

	var err error
	if m.WriteFunc != nil {
		err = m.WriteFunc(ctx, report)
	}

	m.WriteCalls = append(m.WriteCalls, WriteCall{
		Report: report,
		Error:  err,
	})

	return err
}

// GetWriteCalls returns a copy of all write calls.
func (m *MockWriter) GetWriteCalls() []WriteCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]WriteCall, len(m.WriteCalls))
	copy(calls, m.WriteCalls)
	return calls
}

// SetWriteError configures the mock to return err from every Write call.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.WriteFunc = func(context.Context, *service.Report) error {
		return err
	}
}

// MockReader is a MatrixSource returning a fixed matrix or error.
type MockReader struct {
	Err        error
	Matrix     model.Matrix
	Name       string
	FetchCalls int
	mu         sync.Mutex
}

// Fetch implements service.MatrixSource.
func (m *MockReader) Fetch(context.Context) (model.Matrix, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.FetchCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Matrix, nil
}

// Describe implements service.MatrixSource.
func (m *MockReader) Describe() string {
	if m.Name == "" {
		return "mock"
	}
	return m.Name
}
