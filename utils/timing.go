package utils

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/klauspost/cpuid/v2"
)

// Verbose controls whether timing statistics are printed.
// Set to false to suppress output.
var Verbose = true

// Output is the writer where timing statistics are printed.
// Defaults to os.Stdout.
var Output io.Writer = os.Stdout

// TimingStats holds timing information for different operations
type TimingStats struct {
	TotalTime       time.Duration
	SampleTime      time.Duration
	ForwardPassTime time.Duration
	EncryptionTime  time.Duration
	HELinearTime    time.Duration
	DecryptionTime  time.Duration
	DisplayTime     time.Duration
}

// Add accumulates o into s.
func (s *TimingStats) Add(o TimingStats) {
	s.TotalTime += o.TotalTime
	s.SampleTime += o.SampleTime
	s.ForwardPassTime += o.ForwardPassTime
	s.EncryptionTime += o.EncryptionTime
	s.HELinearTime += o.HELinearTime
	s.DecryptionTime += o.DecryptionTime
	s.DisplayTime += o.DisplayTime
}

func percent(part, whole time.Duration) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// PrintTimingStats prints detailed timing statistics.
// Respects the Verbose flag - does nothing if Verbose is false.
func PrintTimingStats(stats *TimingStats, predictions int) {
	if !Verbose {
		return
	}
	fmt.Fprintln(Output, "\n=== TIMING STATISTICS ===")
	fmt.Fprintf(Output, "Host: %s (%d cores, AVX2=%v)\n", cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.Supports(cpuid.AVX2))
	fmt.Fprintf(Output, "Total time: %v\n", stats.TotalTime)
	fmt.Fprintf(Output, "Predictions: %d\n", predictions)
	if predictions > 0 {
		fmt.Fprintf(Output, "Average time per prediction: %v\n", stats.TotalTime/time.Duration(predictions))
	}
	fmt.Fprintln(Output, "\nBreakdown by operation:")
	fmt.Fprintf(Output, "  Sampling: %v (%.1f%%)\n", stats.SampleTime, percent(stats.SampleTime, stats.TotalTime))
	fmt.Fprintf(Output, "  Forward pass: %v (%.1f%%)\n", stats.ForwardPassTime, percent(stats.ForwardPassTime, stats.TotalTime))
	fmt.Fprintf(Output, "  Display: %v (%.1f%%)\n", stats.DisplayTime, percent(stats.DisplayTime, stats.TotalTime))
	if stats.HELinearTime > 0 {
		fmt.Fprintln(Output, "\nEncrypted layer breakdown:")
		fmt.Fprintf(Output, "  Encryption: %v (%.1f%% of forward)\n", stats.EncryptionTime, percent(stats.EncryptionTime, stats.ForwardPassTime))
		fmt.Fprintf(Output, "  HE linear: %v (%.1f%% of forward)\n", stats.HELinearTime, percent(stats.HELinearTime, stats.ForwardPassTime))
		fmt.Fprintf(Output, "  Decryption: %v (%.1f%% of forward)\n", stats.DecryptionTime, percent(stats.DecryptionTime, stats.ForwardPassTime))
	}
}

// DurationUS converts any time.Duration to micro-seconds as float64
func DurationUS(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1_000.0
}
