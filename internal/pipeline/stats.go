package pipeline

import "fmt"

// RunStats tracks per-stage counters across one batch run.
type RunStats struct {
	Acquired  int
	Processed int
	Paired    int
	Failed    int
}

func (s *RunStats) String() string {
	return fmt.Sprintf("acquired=%d processed=%d paired=%d failed=%d",
		s.Acquired, s.Processed, s.Paired, s.Failed)
}
