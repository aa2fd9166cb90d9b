package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/config"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/ui"
)

func TestResolveOperand(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "a.txt")
	if err := os.WriteFile(path, []byte("  123456789012345678901\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := ResolveOperand("@" + path)
	if err != nil || got != "123456789012345678901" {
		t.Errorf("ResolveOperand(@file) = %q, %v", got, err)
	}
	if got, _ := ResolveOperand("-42"); got != "-42" {
		t.Errorf("literal operand changed to %q", got)
	}
	_, err = ResolveOperand("@" + filepath.Join(t.TempDir(), "missing"))
	var cfgErr apperrors.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Errorf("expected ConfigError, got %T", err)
	}
}

func TestBuildRequest(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "mod.txt")
	if err := os.WriteFile(path, []byte("1000000007"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		cfg     config.AppConfig
		want    string
		wantErr bool
	}{
		{"expression", config.AppConfig{Expression: "12 * 34"}, "12 * 34", false},
		{"expression with file", config.AppConfig{Expression: "2 ^ 10 mod @" + path}, "2 ^ 10 mod 1000000007", false},
		{"flags", config.AppConfig{Op: "sub", A: "5", B: "9"}, "5 - 9", false},
		{"flags with file", config.AppConfig{Op: "modexp", A: "3", B: "4", M: "@" + path}, "3 ^ 4 mod 1000000007", false},
		{"bad operand", config.AppConfig{Op: "add", A: "1x", B: "2"}, "", true},
		{"bad expression", config.AppConfig{Expression: "1 +"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BuildRequest(tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("BuildRequest error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && req.String() != tt.want {
				t.Errorf("got %q, want %q", req.String(), tt.want)
			}
		})
	}
}

func TestPrintExecutionConfig(t *testing.T) {
	ui.InitTheme(true)
	var buf bytes.Buffer
	cfg := config.AppConfig{Timeout: time.Minute, KaratsubaThreshold: 10, FFTThreshold: 2000}
	PrintExecutionConfig(cfg, mustRequest(t, "2 ^ 100 mod 12345"), &buf)

	out := buf.String()
	for _, s := range []string{"Operation modexp", "timeout 1m0s", "Modulus of 5 digits", "Karatsuba=10", "FFT=2000"} {
		if !strings.Contains(out, s) {
			t.Errorf("missing %q in:\n%s", s, out)
		}
	}
}

func TestPrintExecutionMode(t *testing.T) {
	ui.InitTheme(true)
	factory := calc.NewDefaultFactory(calc.Options{})

	var single bytes.Buffer
	PrintExecutionMode([]calc.Calculator{factory.MustGet("fft")}, &single)
	if !strings.Contains(single.String(), "Single calculation with the fft strategy") {
		t.Errorf("unexpected output:\n%s", single.String())
	}

	var all bytes.Buffer
	PrintExecutionMode([]calc.Calculator{factory.MustGet("fft"), factory.MustGet("karatsuba")}, &all)
	if !strings.Contains(all.String(), "Parallel comparison") {
		t.Errorf("unexpected output:\n%s", all.String())
	}
}
