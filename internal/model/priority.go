package model

import (
	"fmt"
	"strings"
)

// Priority is the urgency of a task. The numeric value is the ordering level.
type Priority int

const (
	PriorityLow      Priority = 1
	PriorityMedium   Priority = 2
	PriorityHigh     Priority = 3
	PriorityCritical Priority = 4
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical}

var priorityNames = map[Priority]string{
	PriorityLow:      "LOW",
	PriorityMedium:   "MEDIUM",
	PriorityHigh:     "HIGH",
	PriorityCritical: "CRITICAL",
}

var priorityDisplay = map[Priority]string{
	PriorityLow:      "Low",
	PriorityMedium:   "Medium",
	PriorityHigh:     "High",
	PriorityCritical: "Critical",
}

var priorityTokens = map[string]Priority{
	"LOW": PriorityLow, "L": PriorityLow, "1": PriorityLow,
	"MEDIUM": PriorityMedium, "M": PriorityMedium, "2": PriorityMedium,
	"HIGH": PriorityHigh, "H": PriorityHigh, "3": PriorityHigh,
	"CRITICAL": PriorityCritical, "C": PriorityCritical, "4": PriorityCritical,
}

// ParsePriority accepts full names, single letters and levels, case-insensitively.
func ParsePriority(raw string) (Priority, error) {
	if p, ok := priorityTokens[strings.ToUpper(strings.TrimSpace(raw))]; ok {
		return p, nil
	}
	return 0, fmt.Errorf("%w: invalid priority %q", ErrValidation, raw)
}

// Level returns the ordinal used for sorting.
func (p Priority) Level() int { return int(p) }

// Valid reports whether p is one of the four known priorities.
func (p Priority) Valid() bool {
	_, ok := priorityNames[p]
	return ok
}

func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Priority(%d)", int(p))
}

// DisplayName is the human label shown by the shell.
func (p Priority) DisplayName() string {
	return priorityDisplay[p]
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("%w: invalid priority %d", ErrValidation, int(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	parsed, err := ParsePriority(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
