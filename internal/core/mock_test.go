package core

import (
	"context"
	"errors"
	"sync"

	"github.com/wsb360/aiclassify/internal/core/model"
)

// MockLLM scripts oracle responses in call order and records every prompt.
// ClassifyBatch drives it from several goroutines, so access is locked.
type MockLLM struct {
	Responses []string
	Errs      []error

	mu      sync.Mutex
	Prompts []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.Prompts = append(m.Prompts, prompt)
	call := len(m.Prompts) - 1
	m.mu.Unlock()

	if call < len(m.Errs) && m.Errs[call] != nil {
		return "", m.Errs[call]
	}
	if call < len(m.Responses) {
		return m.Responses[call], nil
	}
	return "", errors.New("no scripted response")
}

type MockSource struct {
	Records []model.CategoryRecord
	Err     error
	Calls   int
}

func (m *MockSource) Categories(ctx context.Context) ([]model.CategoryRecord, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Records, nil
}

type MockIndex struct {
	Entries []model.ReferenceEntry
	Err     error

	mu      sync.Mutex
	Queries []string
}

func (m *MockIndex) Query(ctx context.Context, text string, k int) ([]model.ReferenceEntry, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, text)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.Entries, nil
}
