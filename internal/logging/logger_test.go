package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFieldHelpers(t *testing.T) {
	t.Parallel()
	errBoom := errors.New("boom")
	tests := []struct {
		name      string
		field     Field
		wantKey   string
		wantValue any
	}{
		{"String", String("op", "mul"), "op", "mul"},
		{"Int", Int("limbs", 42), "limbs", 42},
		{"Uint64", Uint64("digits", 18446744073709551615), "digits", uint64(18446744073709551615)},
		{"Float64", Float64("ratio", 1.5), "ratio", 1.5},
		{"Duration", Duration("elapsed", time.Second), "elapsed", time.Second},
		{"Err", Err(errBoom), "error", errBoom},
		{"Err nil", Err(nil), "error", nil},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.field.Key != tt.wantKey {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.wantKey)
			}
			if tt.field.Value != tt.wantValue {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.wantValue)
			}
		})
	}
}

func TestNewLoggerIncludesComponent(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	NewLogger(&buf, "server").Info("listening", String("addr", ":8080"))

	out := buf.String()
	for _, want := range []string{`"component":"server"`, "listening", ":8080", `"level":"info"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s should contain %q", out, want)
		}
	}
}

func TestZerologAdapterLevels(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel))

	logger.Debug("split", Int("m", 16))
	logger.Warn("fallback", String("to", "karatsuba"))
	logger.Error("strategy failed", errors.New("mismatch"), String("algo", "fft"))

	out := buf.String()
	for _, want := range []string{`"level":"debug"`, `"m":16`, `"level":"warn"`, "karatsuba", `"error":"mismatch"`, "fft"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %s should contain %q", out, want)
		}
	}
}

func TestZerologAdapterFieldTypes(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		field Field
		want  string
	}{
		{"int64", Field{Key: "v", Value: int64(-9223372036854775808)}, "-9223372036854775808"},
		{"bool", Field{Key: "neg", Value: true}, "true"},
		{"error", Field{Key: "cause", Value: errors.New("oops")}, "oops"},
		{"struct", Field{Key: "data", Value: struct{ Limbs int }{Limbs: 3}}, `"Limbs":3`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			NewLogger(&buf, "test").Info("x", tt.field)
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %s should contain %q", buf.String(), tt.want)
			}
		})
	}
}

func TestZerologAdapterPrintf(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")
	logger.Printf("threshold %d limbs", 10)
	logger.Println("calibration", "done")

	out := buf.String()
	if !strings.Contains(out, "threshold 10 limbs") || !strings.Contains(out, "calibration done") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	t.Parallel()
	logger := NewNopLogger()
	logger.Info("ignored")
	logger.Error("ignored", errors.New("x"))
}

func TestStdLoggerAdapter(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	adapter := NewStdLoggerAdapter(log.New(&buf, "", 0))

	adapter.Info("request", String("op", "add"))
	adapter.Debug("trace", Int("depth", 3))
	adapter.Warn("slow")
	adapter.Error("failed", errors.New("division by zero"), String("op", "quo"))
	adapter.Printf("value is %d", 123)
	adapter.Println("a", "b")

	out := buf.String()
	for _, want := range []string{
		"[INFO] request op=add",
		"[DEBUG] trace depth=3",
		"[WARN] slow",
		"[ERROR] failed: division by zero op=quo",
		"value is 123",
		"a b",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q should contain %q", out, want)
		}
	}
}

func TestAdaptersImplementLogger(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	var _ Logger = NewLogger(&buf, "test")
	var _ Logger = NewStdLoggerAdapter(log.New(&buf, "", 0))
}
