package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/agbru/bigcalc/internal/config"
)

const (
	// CurrentProfileVersion is bumped whenever the profile layout or the
	// meaning of its thresholds changes.
	CurrentProfileVersion = 1

	// DefaultProfileFileName is stored in the user's home directory.
	DefaultProfileFileName = ".bigcalc_calibration.json"

	// DefaultProfileMaxAge is how long a cached profile is trusted.
	DefaultProfileMaxAge = 30 * 24 * time.Hour
)

// CalibrationProfile records measured crossovers together with the
// hardware they were measured on.
type CalibrationProfile struct {
	ProfileVersion int       `json:"profile_version"`
	CalibratedAt   time.Time `json:"calibrated_at"`
	NumCPU         int       `json:"num_cpu"`
	GOARCH         string    `json:"goarch"`
	GOOS           string    `json:"goos"`
	GoVersion      string    `json:"go_version"`
	WordSize       int       `json:"word_size"`

	OptimalKaratsubaThreshold int `json:"optimal_karatsuba_threshold"`
	OptimalFFTThreshold       int `json:"optimal_fft_threshold"`

	// CalibrationLimbs is the largest operand size measured.
	CalibrationLimbs int    `json:"calibration_limbs"`
	CalibrationTime  string `json:"calibration_time"`
}

// NewProfile returns a profile stamped with the current hardware.
func NewProfile() *CalibrationProfile {
	return &CalibrationProfile{
		ProfileVersion: CurrentProfileVersion,
		CalibratedAt:   time.Now(),
		NumCPU:         runtime.NumCPU(),
		GOARCH:         runtime.GOARCH,
		GOOS:           runtime.GOOS,
		GoVersion:      runtime.Version(),
		WordSize:       32 << (^uint(0) >> 63),
	}
}

// GetDefaultProfilePath returns ~/.bigcalc_calibration.json, or the bare
// file name when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}

// SaveProfile writes the profile as indented JSON, creating parent
// directories as needed.
func (p *CalibrationProfile) SaveProfile(path string) error {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding calibration profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating profile directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing calibration profile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing calibration profile: %w", err)
	}
	return nil
}

func loadProfile(path string) (*CalibrationProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p CalibrationProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding calibration profile %s: %w", path, err)
	}
	return &p, nil
}

// LoadOrCreateProfile loads the profile at path. When it is missing or
// unreadable a fresh profile is returned and loaded is false.
func LoadOrCreateProfile(path string) (profile *CalibrationProfile, loaded bool) {
	if path == "" {
		path = GetDefaultProfilePath()
	}
	p, err := loadProfile(path)
	if err != nil {
		return NewProfile(), false
	}
	return p, true
}

// IsValid reports whether the profile was measured on hardware matching
// the current process.
func (p *CalibrationProfile) IsValid() bool {
	if p == nil {
		return false
	}
	return p.ProfileVersion == CurrentProfileVersion &&
		p.NumCPU == runtime.NumCPU() &&
		p.GOARCH == runtime.GOARCH &&
		p.WordSize == 32<<(^uint(0)>>63)
}

// IsStale reports whether the profile is older than maxAge.
func (p *CalibrationProfile) IsStale(maxAge time.Duration) bool {
	if p == nil {
		return true
	}
	return time.Since(p.CalibratedAt) > maxAge
}

func (p *CalibrationProfile) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Calibration profile (v%d, %s)\n", p.ProfileVersion, p.CalibratedAt.Format(time.RFC3339))
	fmt.Fprintf(&sb, "  Hardware  : %d CPUs, %s/%s, %d-bit, %s\n", p.NumCPU, p.GOOS, p.GOARCH, p.WordSize, p.GoVersion)
	fmt.Fprintf(&sb, "  Karatsuba : %d limbs\n", p.OptimalKaratsubaThreshold)
	fmt.Fprintf(&sb, "  FFT       : %d limbs\n", p.OptimalFFTThreshold)
	if p.CalibrationTime != "" {
		fmt.Fprintf(&sb, "  Measured  : up to %d limbs in %s\n", p.CalibrationLimbs, p.CalibrationTime)
	}
	return sb.String()
}

// LoadCachedCalibration fills thresholds left at zero in cfg from a valid,
// fresh profile. Thresholds set by flags, environment or config file win.
func LoadCachedCalibration(cfg config.AppConfig, path string) (config.AppConfig, bool) {
	p, loaded := LoadOrCreateProfile(path)
	if !loaded || !p.IsValid() || p.IsStale(DefaultProfileMaxAge) {
		return cfg, false
	}
	if p.OptimalKaratsubaThreshold <= 0 || p.OptimalFFTThreshold <= 0 {
		return cfg, false
	}
	if cfg.KaratsubaThreshold == 0 {
		cfg.KaratsubaThreshold = p.OptimalKaratsubaThreshold
	}
	if cfg.FFTThreshold == 0 {
		cfg.FFTThreshold = p.OptimalFFTThreshold
	}
	return cfg, true
}
