package mock

import (
	"context"
	"slices"
	"sync"

	"github.com/poiesic/jobmatch/core"
)

// MockChatModel is a test double for ai.ChatModel.
// It allows custom behavior injection via function fields and records
// every message list it receives.
type MockChatModel struct {
	// CompleteFunc is called by Complete if set.
	// If nil, Complete returns an empty answer.
	CompleteFunc func(ctx context.Context, messages []core.Message) (string, error)

	// CompleteJSONFunc is called by CompleteJSON if set.
	// If nil, CompleteJSON returns an empty object.
	CompleteJSONFunc func(ctx context.Context, messages []core.Message) (string, error)

	mu        sync.Mutex
	callCount int
	calls     [][]core.Message
}

// NewMockChatModel creates a mock chat model with default behavior.
// Note: Returns concrete type to allow test assertions via GetMockChatModel().
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{}
}

// Complete returns the result of CompleteFunc, or "" by default.
func (m *MockChatModel) Complete(ctx context.Context, messages []core.Message) (string, error) {
	fn := m.record(messages, false)
	if fn != nil {
		return fn(ctx, messages)
	}
	return "", nil
}

// CompleteJSON returns the result of CompleteJSONFunc, or "{}" by default.
func (m *MockChatModel) CompleteJSON(ctx context.Context, messages []core.Message) (string, error) {
	fn := m.record(messages, true)
	if fn != nil {
		return fn(ctx, messages)
	}
	return "{}", nil
}

func (m *MockChatModel) record(messages []core.Message, json bool) func(context.Context, []core.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount++
	m.calls = append(m.calls, slices.Clone(messages))
	if json {
		return m.CompleteJSONFunc
	}
	return m.CompleteFunc
}

// CallCount returns the number of times any method was called.
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Calls returns a copy of the message lists received so far.
func (m *MockChatModel) Calls() [][]core.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

// Reset clears the call history and custom functions.
func (m *MockChatModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.callCount = 0
	m.calls = nil
	m.CompleteFunc = nil
	m.CompleteJSONFunc = nil
}
