package config

import (
	"bytes"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lisacrebassa/pals-analysis/logging"
)

// Data sources accepted by data.source.
const (
	SourceFile = "file"
	SourceS3   = "s3"

	envPrefix = "PALSTATS_"
)

// Config is the resolved palstats configuration.
type Config struct {
	Data      DataConfig      `yaml:"data"`
	Server    ServerConfig    `yaml:"server"`
	Logging   logging.Config  `yaml:"logging"`
	Dashboard DashboardConfig `yaml:"dashboard"`
}

// DataConfig says where the six CSV files are read from.
type DataConfig struct {
	Source string `yaml:"source"` // "file" or "s3"
	Dir    string `yaml:"dir"`
	// Files overrides the default file name per dataset (combat, jobs, ...).
	Files map[string]string `yaml:"files"`
	S3    S3Config          `yaml:"s3"`
}

// S3Config locates the CSV files in a bucket. Empty credentials fall back to
// the default AWS chain.
type S3Config struct {
	Bucket          string `yaml:"bucket"`
	Prefix          string `yaml:"prefix"`
	Region          string `yaml:"region"`
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	UsePathStyle    bool   `yaml:"usePathStyle"`
}

// ServerConfig configures `palstats serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DashboardConfig holds the page sizes and chart dimensions.
type DashboardConfig struct {
	TopN          int `yaml:"topN"`
	ZoneTopK      int `yaml:"zoneTopK"`
	HistogramBins int `yaml:"histogramBins"`
	ChartWidth    int `yaml:"chartWidth"`
	ChartHeight   int `yaml:"chartHeight"`
}

// Default returns the configuration used when nothing else is set.
func Default() Config {
	return Config{
		Data: DataConfig{
			Source: SourceFile,
			Dir:    ".",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Logging: logging.Config{
			Level:  "info",
			Format: "json",
			Fields: map[string]string{"service": "palstats"},
		},
		Dashboard: DashboardConfig{
			TopN:          10,
			ZoneTopK:      10,
			HistogramBins: 20,
			ChartWidth:    800,
			ChartHeight:   500,
		},
	}
}

// Load layers defaults, the YAML file at path (a missing file is not an
// error), a .env file in the working directory and PALSTATS_* variables.
// Flags are applied by the caller on top of the result.
func Load(path string) (Config, error) {
	cfg := Default()

	if strings.TrimSpace(path) != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, errors.Wrap(err, "read .env")
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return errors.Wrapf(err, "read config yaml %s", path)
	}

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return errors.Wrapf(err, "parse config yaml %s", path)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	integer := func(name string, dst *int) error {
		v, ok := lookup(envPrefix + name)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(err, "%s%s", envPrefix, name)
		}
		*dst = n
		return nil
	}

	str("DATA_SOURCE", &cfg.Data.Source)
	str("DATA_DIR", &cfg.Data.Dir)
	str("S3_BUCKET", &cfg.Data.S3.Bucket)
	str("S3_PREFIX", &cfg.Data.S3.Prefix)
	str("S3_REGION", &cfg.Data.S3.Region)
	str("S3_ENDPOINT", &cfg.Data.S3.Endpoint)
	str("S3_ACCESS_KEY_ID", &cfg.Data.S3.AccessKeyID)
	str("S3_SECRET_ACCESS_KEY", &cfg.Data.S3.SecretAccessKey)
	if v, ok := lookup(envPrefix + "S3_PATH_STYLE"); ok && v != "" {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return errors.Wrapf(err, "%sS3_PATH_STYLE", envPrefix)
		}
		cfg.Data.S3.UsePathStyle = b
	}

	str("ADDR", &cfg.Server.Addr)
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)

	for name, dst := range map[string]*int{
		"TOP_N":          &cfg.Dashboard.TopN,
		"ZONE_TOP_K":     &cfg.Dashboard.ZoneTopK,
		"HISTOGRAM_BINS": &cfg.Dashboard.HistogramBins,
	} {
		if err := integer(name, dst); err != nil {
			return err
		}
	}
	return nil
}

// Validate rejects an unknown data source and out-of-range dashboard sizes.
func (c Config) Validate() error {
	switch c.Data.Source {
	case SourceFile:
	case SourceS3:
		if c.Data.S3.Bucket == "" {
			return errors.New("data.s3.bucket is required when data.source is s3")
		}
	default:
		return errors.Errorf("invalid data.source %q (expected %s or %s)", c.Data.Source, SourceFile, SourceS3)
	}
	if c.Dashboard.TopN < 0 || c.Dashboard.ZoneTopK < 0 {
		return errors.New("dashboard.topN and dashboard.zoneTopK must not be negative")
	}
	if c.Dashboard.HistogramBins < 1 {
		return errors.New("dashboard.histogramBins must be at least 1")
	}
	if c.Dashboard.ChartWidth < 100 || c.Dashboard.ChartHeight < 100 {
		return errors.New("dashboard chart size must be at least 100x100")
	}
	return nil
}
