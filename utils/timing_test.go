package utils

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"
)

func TestDurationUS(t *testing.T) {
	d := 1234*time.Microsecond + 567*time.Nanosecond
	got := DurationUS(d)
	if math.Abs(got-1234.567) > 0.001 {
		t.Fatalf("want 1234.567µs, got %.3f", got)
	}
}

func TestTimingStatsAdd(t *testing.T) {
	var s TimingStats
	s.Add(TimingStats{TotalTime: time.Second, SampleTime: time.Millisecond})
	s.Add(TimingStats{TotalTime: time.Second, HELinearTime: 3 * time.Millisecond})
	if s.TotalTime != 2*time.Second || s.SampleTime != time.Millisecond || s.HELinearTime != 3*time.Millisecond {
		t.Fatalf("unexpected totals: %+v", s)
	}
}

func TestPrintTimingStats(t *testing.T) {
	var buf bytes.Buffer
	oldOut, oldVerbose := Output, Verbose
	defer func() { Output, Verbose = oldOut, oldVerbose }()
	Output = &buf

	Verbose = false
	PrintTimingStats(&TimingStats{TotalTime: time.Second}, 1)
	if buf.Len() != 0 {
		t.Fatalf("printed while not verbose: %q", buf.String())
	}

	Verbose = true
	PrintTimingStats(&TimingStats{}, 0)
	out := buf.String()
	if !strings.Contains(out, "TIMING STATISTICS") || !strings.Contains(out, "Host:") {
		t.Fatalf("missing header: %q", out)
	}
	if strings.Contains(out, "NaN") || strings.Contains(out, "Encrypted layer") {
		t.Fatalf("zero stats should print plain zeros: %q", out)
	}

	buf.Reset()
	PrintTimingStats(&TimingStats{TotalTime: 2 * time.Second, ForwardPassTime: time.Second, HELinearTime: 500 * time.Millisecond}, 2)
	if !strings.Contains(buf.String(), "HE linear: 500ms (50.0% of forward)") {
		t.Fatalf("missing encrypted breakdown: %q", buf.String())
	}
}
