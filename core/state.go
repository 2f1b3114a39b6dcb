package core

import "slices"

// Role identifies the author of a trace message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of a conversation trace.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// RequestState is the working state of one route-and-search invocation.
// It is owned by a single pipeline run and must not be shared.
type RequestState struct {
	Instruction string
	Summary     string
	Jobs        []Job
	Messages    []Message
}

// NewRequestState creates the state for a request. The job list is copied so
// the caller's slice is never modified.
func NewRequestState(instruction, summary string, jobs []Job) *RequestState {
	return &RequestState{
		Instruction: instruction,
		Summary:     summary,
		Jobs:        slices.Clone(jobs),
	}
}

// Append adds a message to the trace.
func (s *RequestState) Append(role Role, content string) {
	s.Messages = append(s.Messages, Message{Role: role, Content: content})
}

// LastMessage returns the most recent trace entry.
func (s *RequestState) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}
