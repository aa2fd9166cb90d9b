package memory

import (
	"bytes"
	"errors"
	"runtime/debug"
	"testing"

	"github.com/rs/zerolog"

	"github.com/agbru/bigcalc/internal/calc"
	apperrors "github.com/agbru/bigcalc/internal/errors"
)

func TestParseMemoryLimit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want uint64
	}{
		{"", 0},
		{"1048576", 1 << 20},
		{"512M", 512 << 20},
		{"512mb", 512 << 20},
		{"8G", 8 << 30},
		{"1.5GiB", 3 << 29},
		{"2k", 2048},
		{" 1T ", 1 << 40},
	}
	for _, tt := range tests {
		got, err := ParseMemoryLimit(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseMemoryLimit(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"lots", "-5M", "M", "1.2.3G"} {
		if _, err := ParseMemoryLimit(bad); err == nil {
			t.Errorf("ParseMemoryLimit(%q) succeeded", bad)
		}
	}
}

func TestEstimateMemoryUsage(t *testing.T) {
	t.Parallel()
	sizes := Operands{A: 5000, B: 5000, M: 10}
	opts := calc.Options{}

	school := EstimateMemoryUsage(calc.OpMul, sizes, "schoolbook", opts)
	if school != 10000*limbBytes {
		t.Errorf("schoolbook estimate = %d", school)
	}
	kara := EstimateMemoryUsage(calc.OpMul, sizes, "karatsuba", opts)
	fft := EstimateMemoryUsage(calc.OpMul, sizes, "fft", opts)
	if kara <= school || fft <= school {
		t.Errorf("recursive strategies should need more memory: school=%d kara=%d fft=%d", school, kara, fft)
	}
	if adaptive := EstimateMemoryUsage(calc.OpMul, sizes, "adaptive", opts); adaptive != fft {
		t.Errorf("adaptive on 5000 limbs = %d, want the fft estimate %d", adaptive, fft)
	}
	all := EstimateMemoryUsage(calc.OpMul, sizes, "all", opts)
	if all != school+kara+2*fft {
		t.Errorf("all = %d, want the sum of the strategies", all)
	}
	if add := EstimateMemoryUsage(calc.OpAdd, sizes, "schoolbook", opts); add != 5001*limbBytes {
		t.Errorf("add estimate = %d", add)
	}
	if modexp := EstimateMemoryUsage(calc.OpModExp, sizes, "schoolbook", opts); modexp == 0 {
		t.Error("modexp estimate is zero")
	}
}

func TestCheckLimit(t *testing.T) {
	t.Parallel()
	if err := CheckLimit(calc.OpMul, 100, 0); err != nil {
		t.Errorf("zero limit should disable the check: %v", err)
	}
	if err := CheckLimit(calc.OpMul, 100, 100); err != nil {
		t.Errorf("estimate at the limit rejected: %v", err)
	}
	var me apperrors.MemoryError
	if err := CheckLimit(calc.OpModExp, 101, 100); !errors.As(err, &me) || me.Estimated != 101 || me.Operation != "modexp" {
		t.Errorf("error = %v, want MemoryError", err)
	}
}

func TestFormatMemoryEstimate(t *testing.T) {
	t.Parallel()
	if got := FormatMemoryEstimate(3 << 20); got != "~3.0 MiB" {
		t.Errorf("got %q", got)
	}
}

func TestGCControllerModes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		mode  string
		limbs int
		want  bool
	}{
		{"auto", GCAutoThreshold - 1, false},
		{"auto", GCAutoThreshold, true},
		{"aggressive", 1, true},
		{"disabled", GCAutoThreshold * 10, false},
		{"bogus", GCAutoThreshold, false},
	}
	for _, tt := range tests {
		if got := NewGCController(tt.mode, tt.limbs).Active(); got != tt.want {
			t.Errorf("NewGCController(%q, %d).Active() = %v, want %v", tt.mode, tt.limbs, got, tt.want)
		}
	}
}

var sink []byte

// TestGCControllerRestores changes process-wide GC settings, so it does not
// run in parallel.
func TestGCControllerRestores(t *testing.T) {
	var logs bytes.Buffer
	before := debug.SetGCPercent(100)
	defer debug.SetGCPercent(before)

	gc := NewGCController("aggressive", 0)
	gc.SetLogger(zerolog.New(&logs).Level(zerolog.DebugLevel))
	gc.Begin()
	sink = make([]byte, 1<<20)
	gc.End()

	if got := debug.SetGCPercent(100); got != 100 {
		t.Errorf("GC percent after End = %d, want 100", got)
	}
	if gc.Stats().TotalAlloc == 0 {
		t.Error("no allocation recorded between Begin and End")
	}
	if !bytes.Contains(logs.Bytes(), []byte("gc restored")) {
		t.Errorf("missing log line, got %q", logs.String())
	}
}
