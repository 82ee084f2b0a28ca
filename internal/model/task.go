package model

import "TopSpectra/internal/config"

// Task defines a single, self-contained ranking task (e.g. windowed top-K
// per source address). This is the interface for the execution layer.
type Task interface {
	ProcessEvent(event *Event)
	Snapshot() interface{}
	Reset()
	Name() string

	// AlerterMsg evaluates the given rules against the task's current state
	// and returns an HTML fragment describing the triggered ones, or "".
	AlerterMsg(rules []config.AlerterRule) string
}
