package entities

import (
	"time"
)

// Turn is a single conversation exchange: the label the caller committed for
// the request and the assistant text produced for it. Turns are immutable;
// amending one produces a replacement.
type Turn struct {
	input     string
	output    string
	createdAt time.Time
}

// NewTurn creates a turn stamped with the current time
func NewTurn(input, output string) Turn {
	return Turn{
		input:     input,
		output:    output,
		createdAt: time.Now(),
	}
}

// ReconstructTurn recreates a turn from stored values
func ReconstructTurn(input, output string, createdAt time.Time) Turn {
	return Turn{
		input:     input,
		output:    output,
		createdAt: createdAt,
	}
}

// Input returns the committed request label
func (t Turn) Input() string {
	return t.input
}

// Output returns the assistant text
func (t Turn) Output() string {
	return t.output
}

// CreatedAt returns when the turn was recorded
func (t Turn) CreatedAt() time.Time {
	return t.createdAt
}

// WithOutput returns a copy of the turn carrying a replacement output
func (t Turn) WithOutput(output string) Turn {
	return Turn{
		input:     t.input,
		output:    output,
		createdAt: t.createdAt,
	}
}
