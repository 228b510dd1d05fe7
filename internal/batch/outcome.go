package batch

import (
	"time"
)

// Stage names a step of the per-file pipeline.
type Stage string

const (
	StageLoad     Stage = "Loading"
	StageAnalysis Stage = "Frequency Analysis"
	StagePlot     Stage = "Plotting"
)

// Outcome is the result of one pipeline stage: a value or an error, and how long it took.
type Outcome[T any] struct {
	Value   T
	Err     error
	Elapsed time.Duration
	Ran     bool
}

// OK reports whether the stage ran and succeeded.
func (o Outcome[T]) OK() bool {
	return o.Ran && o.Err == nil
}

func measure[T any](fn func() (T, error)) Outcome[T] {
	start := time.Now()
	value, err := fn()

	return Outcome[T]{
		Value:   value,
		Err:     err,
		Elapsed: time.Since(start),
		Ran:     true,
	}
}
