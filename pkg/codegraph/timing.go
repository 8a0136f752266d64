package codegraph

import "time"

// stopwatchStart/stopwatchElapsedMs back Metadata.AnalysisTimeMs's per-phase
// breakdown (SPEC_FULL.md's supplemented-features addition to spec.md §6's
// metadata output).
func stopwatchStart() time.Time {
	return time.Now()
}

func stopwatchElapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
