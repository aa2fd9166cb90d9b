package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// DefaultConfigFileName is looked up in the user's home directory when
// --config is not given.
const DefaultConfigFileName = ".bigcalc.toml"

// fileConfig is the on-disk TOML layout. Keys mirror the long flag names.
type fileConfig struct {
	Algo               string `toml:"algo"`
	Timeout            string `toml:"timeout"`
	KaratsubaThreshold int    `toml:"karatsuba-threshold"`
	FFTThreshold       int    `toml:"fft-threshold"`
	Verbose            bool   `toml:"verbose"`
	Details            bool   `toml:"details"`
	NoColor            bool   `toml:"no-color"`
	CalibrationProfile string `toml:"calibration-profile"`
	MemoryLimit        string `toml:"memory-limit"`
	GC                 string `toml:"gc"`

	Server struct {
		Addr      string `toml:"addr"`
		CacheSize int    `toml:"cache-size"`
		MaxDigits int    `toml:"max-digits"`
	} `toml:"server"`
}

// configFilePath returns explicit, or the default file when it exists.
func configFilePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(home, DefaultConfigFileName)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// fileOverride binds a TOML key path to the flags it stands in for.
type fileOverride struct {
	key   []string
	flags []string
	apply func(*AppConfig, *fileConfig) error
}

var fileOverrides = []fileOverride{
	{[]string{"algo"}, []string{"algo"}, func(c *AppConfig, f *fileConfig) error { c.Algo = f.Algo; return nil }},
	{[]string{"timeout"}, []string{"timeout"}, func(c *AppConfig, f *fileConfig) error {
		d, err := time.ParseDuration(f.Timeout)
		if err != nil {
			return apperrors.NewConfigError("invalid timeout %q in config file", f.Timeout)
		}
		c.Timeout = d
		return nil
	}},
	{[]string{"karatsuba-threshold"}, []string{"karatsuba-threshold"}, func(c *AppConfig, f *fileConfig) error {
		c.KaratsubaThreshold = f.KaratsubaThreshold
		return nil
	}},
	{[]string{"fft-threshold"}, []string{"fft-threshold"}, func(c *AppConfig, f *fileConfig) error {
		c.FFTThreshold = f.FFTThreshold
		return nil
	}},
	{[]string{"verbose"}, []string{"v", "verbose"}, func(c *AppConfig, f *fileConfig) error { c.Verbose = f.Verbose; return nil }},
	{[]string{"details"}, []string{"d", "details"}, func(c *AppConfig, f *fileConfig) error { c.Details = f.Details; return nil }},
	{[]string{"no-color"}, []string{"no-color"}, func(c *AppConfig, f *fileConfig) error { c.NoColor = f.NoColor; return nil }},
	{[]string{"calibration-profile"}, []string{"calibration-profile"}, func(c *AppConfig, f *fileConfig) error {
		c.CalibrationProfile = f.CalibrationProfile
		return nil
	}},
	{[]string{"memory-limit"}, []string{"memory-limit"}, func(c *AppConfig, f *fileConfig) error { c.MemoryLimit = f.MemoryLimit; return nil }},
	{[]string{"gc"}, []string{"gc"}, func(c *AppConfig, f *fileConfig) error { c.GCMode = f.GC; return nil }},
	{[]string{"server", "addr"}, []string{"addr"}, func(c *AppConfig, f *fileConfig) error { c.Addr = f.Server.Addr; return nil }},
	{[]string{"server", "cache-size"}, []string{"cache-size"}, func(c *AppConfig, f *fileConfig) error {
		c.CacheSize = f.Server.CacheSize
		return nil
	}},
	{[]string{"server", "max-digits"}, []string{"max-digits"}, func(c *AppConfig, f *fileConfig) error {
		c.MaxDigits = f.Server.MaxDigits
		return nil
	}},
}

// applyConfigFile loads path and applies every key present in it to
// settings not given on the command line.
func applyConfigFile(config *AppConfig, fs *flag.FlagSet, path string) error {
	var fc fileConfig
	md, err := toml.DecodeFile(path, &fc)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return apperrors.NewConfigError("config file %s not found", path)
		}
		return apperrors.NewConfigError("reading config file %s: %v", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return apperrors.NewConfigError("unknown key %q in config file %s", undecoded[0].String(), path)
	}
	for _, o := range fileOverrides {
		if !md.IsDefined(o.key...) || isFlagSetAny(fs, o.flags...) {
			continue
		}
		if err := o.apply(config, &fc); err != nil {
			return err
		}
	}
	return nil
}
