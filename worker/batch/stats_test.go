package batch

import (
	"testing"
	"time"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func TestStats_Averages(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := NewStats(clock.now)

	s.Success(1000, 200)
	s.Success(3000, 600)
	s.Failure(FileFailure{Path: "/in/bad.png", Kind: "decode", Reason: "boom"})
	clock.advance(1500 * time.Millisecond)

	r := s.Finalize()
	if r.FilesConverted != 2 || r.FilesFailed != 1 {
		t.Errorf("Expected 2 converted / 1 failed, got %d / %d", r.FilesConverted, r.FilesFailed)
	}
	if r.AvgInputBytes != 2000 || r.AvgOutputBytes != 400 {
		t.Errorf("Expected averages 2000/400, got %v/%v", r.AvgInputBytes, r.AvgOutputBytes)
	}
	if r.ElapsedSeconds != 1.5 {
		t.Errorf("Expected 1.5s elapsed, got %v", r.ElapsedSeconds)
	}
}

func TestStats_NoSuccessesMeansZeroAverages(t *testing.T) {
	s := NewStats(nil)
	s.Failure(FileFailure{Path: "/in/a.png"})

	r := s.Finalize()
	if r.FilesConverted != 0 || r.AvgInputBytes != 0 || r.AvgOutputBytes != 0 {
		t.Errorf("Expected zero averages, got %+v", r)
	}
	if r.ElapsedSeconds < 0 {
		t.Errorf("Expected non-negative elapsed time, got %v", r.ElapsedSeconds)
	}
}
