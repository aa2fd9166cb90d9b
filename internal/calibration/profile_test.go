package calibration

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/agbru/bigcalc/internal/config"
)

func TestNewProfile(t *testing.T) {
	t.Parallel()
	profile := NewProfile()

	if profile.NumCPU != runtime.NumCPU() {
		t.Errorf("NumCPU = %d, want %d", profile.NumCPU, runtime.NumCPU())
	}
	if profile.GOARCH != runtime.GOARCH {
		t.Errorf("GOARCH = %s, want %s", profile.GOARCH, runtime.GOARCH)
	}
	if profile.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %s, want %s", profile.GoVersion, runtime.Version())
	}
	if profile.ProfileVersion != CurrentProfileVersion {
		t.Errorf("ProfileVersion = %d, want %d", profile.ProfileVersion, CurrentProfileVersion)
	}
	if want := 32 << (^uint(0) >> 63); profile.WordSize != want {
		t.Errorf("WordSize = %d, want %d", profile.WordSize, want)
	}
	if profile.CalibratedAt.IsZero() {
		t.Error("CalibratedAt is zero")
	}
}

func TestProfileSaveLoad(t *testing.T) {
	t.Parallel()
	profilePath := filepath.Join(t.TempDir(), "nested", "profile.json")

	original := NewProfile()
	original.OptimalKaratsubaThreshold = 16
	original.OptimalFFTThreshold = 1500
	original.CalibrationLimbs = 8000
	original.CalibrationTime = "2.5s"

	if err := original.SaveProfile(profilePath); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}
	if _, err := os.Stat(profilePath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file left behind")
	}

	loaded, err := loadProfile(profilePath)
	if err != nil {
		t.Fatalf("loadProfile failed: %v", err)
	}
	if loaded.OptimalKaratsubaThreshold != 16 || loaded.OptimalFFTThreshold != 1500 {
		t.Errorf("thresholds = %d/%d, want 16/1500", loaded.OptimalKaratsubaThreshold, loaded.OptimalFFTThreshold)
	}
	if loaded.NumCPU != original.NumCPU || loaded.CalibrationTime != "2.5s" {
		t.Errorf("loaded profile differs: %+v", loaded)
	}
}

func TestProfileIsValid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		mutate func(*CalibrationProfile)
		want   bool
	}{
		{"current hardware", func(*CalibrationProfile) {}, true},
		{"wrong cpu count", func(p *CalibrationProfile) { p.NumCPU = 999 }, false},
		{"wrong architecture", func(p *CalibrationProfile) { p.GOARCH = "invalid_arch" }, false},
		{"wrong word size", func(p *CalibrationProfile) { p.WordSize = 16 }, false},
		{"wrong version", func(p *CalibrationProfile) { p.ProfileVersion = 999 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProfile()
			tt.mutate(p)
			if got := p.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}

	var nilProfile *CalibrationProfile
	if nilProfile.IsValid() {
		t.Error("nil profile should be invalid")
	}
}

func TestProfileIsStale(t *testing.T) {
	t.Parallel()
	profile := NewProfile()
	if profile.IsStale(time.Hour) {
		t.Error("fresh profile should not be stale")
	}
	profile.CalibratedAt = time.Now().Add(-2 * time.Hour)
	if !profile.IsStale(time.Hour) {
		t.Error("old profile should be stale")
	}
	var nilProfile *CalibrationProfile
	if !nilProfile.IsStale(time.Hour) {
		t.Error("nil profile should be stale")
	}
}

func TestProfileString(t *testing.T) {
	t.Parallel()
	profile := NewProfile()
	profile.OptimalKaratsubaThreshold = 12
	profile.OptimalFFTThreshold = 3000

	str := profile.String()
	for _, want := range []string{"Karatsuba : 12 limbs", "FFT       : 3000 limbs", runtime.GOARCH} {
		if !strings.Contains(str, want) {
			t.Errorf("String() missing %q:\n%s", want, str)
		}
	}
}

func TestLoadProfileErrors(t *testing.T) {
	t.Parallel()
	if _, err := loadProfile("/nonexistent/path/to/profile.json"); err == nil {
		t.Error("expected error loading nonexistent profile")
	}

	invalidPath := filepath.Join(t.TempDir(), "invalid.json")
	if err := os.WriteFile(invalidPath, []byte("not valid json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadProfile(invalidPath); err == nil {
		t.Error("expected error loading invalid JSON")
	}
}

func TestLoadOrCreateProfile(t *testing.T) {
	t.Parallel()
	profilePath := filepath.Join(t.TempDir(), "profile.json")

	profile, loaded := LoadOrCreateProfile(profilePath)
	if loaded {
		t.Error("loaded should be false for a missing file")
	}
	profile.OptimalKaratsubaThreshold = 24
	if err := profile.SaveProfile(profilePath); err != nil {
		t.Fatal(err)
	}

	profile2, loaded2 := LoadOrCreateProfile(profilePath)
	if !loaded2 {
		t.Error("loaded should be true for an existing file")
	}
	if profile2.OptimalKaratsubaThreshold != 24 {
		t.Errorf("threshold = %d, want 24", profile2.OptimalKaratsubaThreshold)
	}
}

func TestGetDefaultProfilePath(t *testing.T) {
	t.Parallel()
	if base := filepath.Base(GetDefaultProfilePath()); base != DefaultProfileFileName {
		t.Errorf("default path ends with %s, want %s", base, DefaultProfileFileName)
	}
}

func TestLoadCachedCalibration(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	valid := NewProfile()
	valid.OptimalKaratsubaThreshold = 20
	valid.OptimalFFTThreshold = 2500
	validPath := filepath.Join(dir, "valid.json")
	if err := valid.SaveProfile(validPath); err != nil {
		t.Fatal(err)
	}

	stale := NewProfile()
	stale.OptimalKaratsubaThreshold = 20
	stale.OptimalFFTThreshold = 2500
	stale.CalibratedAt = time.Now().Add(-2 * DefaultProfileMaxAge)
	stalePath := filepath.Join(dir, "stale.json")
	if err := stale.SaveProfile(stalePath); err != nil {
		t.Fatal(err)
	}

	t.Run("fills unset thresholds", func(t *testing.T) {
		cfg, ok := LoadCachedCalibration(config.AppConfig{}, validPath)
		if !ok || cfg.KaratsubaThreshold != 20 || cfg.FFTThreshold != 2500 {
			t.Errorf("got %d/%d ok=%v, want 20/2500 true", cfg.KaratsubaThreshold, cfg.FFTThreshold, ok)
		}
	})
	t.Run("explicit thresholds win", func(t *testing.T) {
		cfg, ok := LoadCachedCalibration(config.AppConfig{KaratsubaThreshold: 7}, validPath)
		if !ok || cfg.KaratsubaThreshold != 7 || cfg.FFTThreshold != 2500 {
			t.Errorf("got %d/%d, want 7/2500", cfg.KaratsubaThreshold, cfg.FFTThreshold)
		}
	})
	t.Run("stale profile ignored", func(t *testing.T) {
		if _, ok := LoadCachedCalibration(config.AppConfig{}, stalePath); ok {
			t.Error("stale profile should not be applied")
		}
	})
	t.Run("missing profile ignored", func(t *testing.T) {
		if _, ok := LoadCachedCalibration(config.AppConfig{}, filepath.Join(dir, "missing.json")); ok {
			t.Error("missing profile should not be applied")
		}
	})
}
