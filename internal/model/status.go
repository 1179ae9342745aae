package model

import (
	"fmt"
	"strings"
)

// Status is the lifecycle state of a task.
type Status int

const (
	StatusTodo Status = iota + 1
	StatusInProgress
	StatusDone
	StatusCancelled
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone, StatusCancelled}

type statusInfo struct {
	name        string
	display     string
	description string
	next        []Status
}

var statusTable = map[Status]statusInfo{
	StatusTodo: {
		name: "TODO", display: "To Do", description: "Task is pending",
		next: []Status{StatusInProgress, StatusCancelled},
	},
	StatusInProgress: {
		name: "IN_PROGRESS", display: "In Progress", description: "Task is being worked on",
		next: []Status{StatusDone, StatusTodo, StatusCancelled},
	},
	StatusDone: {
		name: "DONE", display: "Done", description: "Task is completed",
		next: []Status{StatusTodo},
	},
	StatusCancelled: {
		name: "CANCELLED", display: "Cancelled", description: "Task was cancelled",
		next: []Status{StatusTodo},
	},
}

var statusTokens = map[string]Status{
	"TODO": StatusTodo, "TO_DO": StatusTodo, "PENDING": StatusTodo, "1": StatusTodo,
	"IN_PROGRESS": StatusInProgress, "INPROGRESS": StatusInProgress, "PROGRESS": StatusInProgress, "2": StatusInProgress,
	"DONE": StatusDone, "COMPLETED": StatusDone, "COMPLETE": StatusDone, "3": StatusDone,
	"CANCELLED": StatusCancelled, "CANCELED": StatusCancelled, "4": StatusCancelled,
}

// ParseStatus accepts names and synonyms case-insensitively; spaces and underscores are interchangeable.
func ParseStatus(raw string) (Status, error) {
	token := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(raw)), " ", "_")
	if s, ok := statusTokens[token]; ok {
		return s, nil
	}
	return 0, fmt.Errorf("%w: invalid status %q", ErrValidation, raw)
}

// CanTransitionTo reports whether the transition graph has an edge from s to next.
// Self-transitions are never legal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, candidate := range statusTable[s].next {
		if candidate == next {
			return true
		}
	}
	return false
}

// Next returns the statuses reachable from s in one step.
func (s Status) Next() []Status {
	next := statusTable[s].next
	out := make([]Status, len(next))
	copy(out, next)
	return out
}

func (s Status) Valid() bool {
	_, ok := statusTable[s]
	return ok
}

func (s Status) String() string {
	if info, ok := statusTable[s]; ok {
		return info.name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

func (s Status) DisplayName() string { return statusTable[s].display }

func (s Status) Description() string { return statusTable[s].description }

func (s Status) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("%w: invalid status %d", ErrValidation, int(s))
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
