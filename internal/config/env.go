package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// isFlagSet reports whether name was given on the command line.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// isFlagSetAny is isFlagSet for a flag and its aliases.
func isFlagSetAny(fs *flag.FlagSet, names ...string) bool {
	for _, name := range names {
		if isFlagSet(fs, name) {
			return true
		}
	}
	return false
}

// envOverride maps one BIGCALC_ variable to the flags it stands in for.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

var envOverrides = []envOverride{
	{"ALGO", []string{"algo"}, func(c *AppConfig, v string) { c.Algo = v }},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}},
	{"KARATSUBA_THRESHOLD", []string{"karatsuba-threshold"}, func(c *AppConfig, v string) {
		if n, err := strconv.Atoi(v); err == nil {
			c.KaratsubaThreshold = n
		}
	}},
	{"FFT_THRESHOLD", []string{"fft-threshold"}, func(c *AppConfig, v string) {
		if n, err := strconv.Atoi(v); err == nil {
			c.FFTThreshold = n
		}
	}},
	{"OUTPUT", []string{"output", "o"}, func(c *AppConfig, v string) { c.OutputFile = v }},
	{"CALIBRATION_PROFILE", []string{"calibration-profile"}, func(c *AppConfig, v string) { c.CalibrationProfile = v }},
	{"MEMORY_LIMIT", []string{"memory-limit"}, func(c *AppConfig, v string) { c.MemoryLimit = v }},
	{"GC", []string{"gc"}, func(c *AppConfig, v string) { c.GCMode = v }},
	{"ADDR", []string{"addr"}, func(c *AppConfig, v string) { c.Addr = v }},
	{"CACHE_SIZE", []string{"cache-size"}, func(c *AppConfig, v string) {
		if n, err := strconv.Atoi(v); err == nil {
			c.CacheSize = n
		}
	}},
	{"MAX_DIGITS", []string{"max-digits"}, func(c *AppConfig, v string) {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxDigits = n
		}
	}},
	{"VERBOSE", []string{"v", "verbose"}, func(c *AppConfig, v string) { c.Verbose = parseBoolEnv(v, c.Verbose) }},
	{"DETAILS", []string{"d", "details"}, func(c *AppConfig, v string) { c.Details = parseBoolEnv(v, c.Details) }},
	{"QUIET", []string{"q", "quiet"}, func(c *AppConfig, v string) { c.Quiet = parseBoolEnv(v, c.Quiet) }},
	{"SHOW_VALUE", []string{"show-value"}, func(c *AppConfig, v string) { c.ShowValue = parseBoolEnv(v, c.ShowValue) }},
	{"AUTO_CALIBRATE", []string{"auto-calibrate"}, func(c *AppConfig, v string) {
		c.AutoCalibrate = parseBoolEnv(v, c.AutoCalibrate)
	}},
	{"SERVE", []string{"serve"}, func(c *AppConfig, v string) { c.Serve = parseBoolEnv(v, c.Serve) }},
}

// parseBoolEnv accepts true/1/yes and false/0/no, case-insensitively, and
// returns defaultVal otherwise.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// applyEnvOverrides applies BIGCALC_* variables to settings not given on
// the command line. NO_COLOR is honoured as well.
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	for _, o := range envOverrides {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(config, val)
		}
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok && !isFlagSet(fs, "no-color") {
		config.NoColor = true
	}
}
