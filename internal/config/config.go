package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/hmnreport/internal/aggregate"
	"github.com/gyeh/hmnreport/internal/model"
	"github.com/gyeh/hmnreport/internal/report"
)

// Config holds all runtime configuration for an hmnreport run.
type Config struct {
	DSN         string
	Files       []string
	Kind        model.Kind
	LogFormat   string // "text" or "json"
	LogLevel    string
	Encoding    string // raw CSV encoding: "auto", "utf-8", "latin1", "windows-1252"
	Comma       string // raw CSV delimiter
	Sheet       string // xlsx sheet name
	Force       bool
	KeepStaging bool

	// Reporting
	ProfilePath  string
	TopN         int
	Partition    string
	Format       string // "text" or "json"
	XLSXPath     string
	SnapshotPath string
	OutPath      string

	// Service
	ListenAddr   string
	DataDir      string
	CacheEntries int

	// Profiles loaded from ProfilePath, by kind.
	Profiles map[model.Kind]report.Profile `yaml:"-"`
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Encoding string           `yaml:"encoding"`
	TopN     int              `yaml:"top_n"`
	Profiles []report.Profile `yaml:"profiles"`
}

// LoadFromFile reads a YAML config file and merges its values into Config.
// Values already set (from flags) win over the file.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	if c.Encoding == "" {
		c.Encoding = yc.Encoding
	}
	if c.TopN == 0 {
		c.TopN = yc.TopN
	}
	c.Profiles = make(map[model.Kind]report.Profile, len(yc.Profiles))
	for i := range yc.Profiles {
		p := yc.Profiles[i]
		if err := p.Validate(); err != nil {
			return err
		}
		if _, dup := c.Profiles[p.Kind]; dup {
			return fmt.Errorf("duplicate profile for kind %q in config", p.Kind)
		}
		c.Profiles[p.Kind] = p
	}
	return nil
}

// Profile returns the report profile for a kind: the configured one if
// present, else the default, with the run's TopN and Partition overrides
// applied.
func (c *Config) Profile(kind model.Kind) (report.Profile, error) {
	p, ok := c.Profiles[kind]
	if !ok {
		p = report.DefaultProfile(kind)
	}
	// Tables is shared with the stored profile; copy before overriding.
	p.Tables = append([]report.TableSpec(nil), p.Tables...)
	if c.TopN > 0 {
		p.TopN = c.TopN
	}
	if c.Partition != "" {
		if strings.EqualFold(c.Partition, "none") {
			p.Partition = ""
			for i := range p.Tables {
				p.Tables[i].PerPartition = false
			}
		} else {
			d, err := aggregate.ParseDimension(c.Partition)
			if err != nil {
				return report.Profile{}, fmt.Errorf("--partition: %w", err)
			}
			p.Partition = d
		}
	}
	if err := p.Validate(); err != nil {
		return report.Profile{}, err
	}
	return p, nil
}

// LoadEnv fills unset fields from HMN_* environment variables.
func (c *Config) LoadEnv() {
	v := viper.New()
	v.SetEnvPrefix("HMN")
	v.AutomaticEnv()

	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("ENCODING", "auto")
	v.SetDefault("LISTEN_ADDR", ":8080")
	v.SetDefault("DATA_DIR", ".")
	v.SetDefault("CACHE_ENTRIES", 16)

	fill := func(dst *string, key string) {
		if *dst == "" {
			*dst = v.GetString(key)
		}
	}
	fill(&c.DSN, "DSN")
	fill(&c.LogFormat, "LOG_FORMAT")
	fill(&c.LogLevel, "LOG_LEVEL")
	fill(&c.Encoding, "ENCODING")
	fill(&c.ListenAddr, "LISTEN_ADDR")
	fill(&c.DataDir, "DATA_DIR")
	if c.DSN == "" {
		c.DSN = os.Getenv("DATABASE_URL")
	}
	if c.CacheEntries == 0 {
		c.CacheEntries = v.GetInt("CACHE_ENTRIES")
	}
}

// ParseKind resolves the --kind flag.
func (c *Config) ParseKind(s string) error {
	k, ok := model.ParseKind(s)
	if !ok {
		return fmt.Errorf("--kind must be one of %s", strings.Join(model.KindNames(), ", "))
	}
	c.Kind = k
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.Kind == "" {
		return fmt.Errorf("--kind is required")
	}
	if len(c.Files) == 0 {
		return fmt.Errorf("--file is required")
	}
	for _, f := range c.Files {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("file not accessible: %w", err)
		}
	}
	if len([]rune(c.Comma)) > 1 {
		return fmt.Errorf("--comma must be a single character")
	}
	return nil
}

// ValidateWithDSN checks both file and DSN fields.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn, HMN_DSN or DATABASE_URL is required")
	}
	return nil
}

// CommaRune returns the CSV delimiter, or 0 for the reader's default.
func (c *Config) CommaRune() rune {
	for _, r := range c.Comma {
		return r
	}
	return 0
}
