package batch

import "time"

// Stats accumulates per-file outcomes for one run. It is owned by a single
// Run call and is not safe for concurrent use.
type Stats struct {
	now      func() time.Time
	start    time.Time
	inBytes  int64
	outBytes int64
	done     int
	failures []FileFailure
}

func NewStats(now func() time.Time) *Stats {
	if now == nil {
		now = time.Now
	}
	return &Stats{now: now, start: now()}
}

// Success records one converted file with its source and output sizes.
func (s *Stats) Success(inputBytes, outputBytes int64) {
	s.done++
	s.inBytes += inputBytes
	s.outBytes += outputBytes
}

// Failure records one skipped file. Its sizes never enter the totals.
func (s *Stats) Failure(f FileFailure) {
	s.failures = append(s.failures, f)
}

func (s *Stats) Finalize() *Result {
	r := &Result{
		FilesConverted: s.done,
		FilesFailed:    len(s.failures),
		ElapsedSeconds: s.now().Sub(s.start).Seconds(),
		Failures:       s.failures,
	}
	if s.done > 0 {
		r.AvgInputBytes = float64(s.inBytes) / float64(s.done)
		r.AvgOutputBytes = float64(s.outBytes) / float64(s.done)
	}
	return r
}
