package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
	"gopkg.in/yaml.v3"
)

type Server struct {
	Port              string `yaml:"port"`
	RequestTimeoutSec int    `yaml:"request_timeout_sec"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

type Pricing struct {
	CommissionRate float64 `yaml:"commission_rate"`
}

type FX struct {
	Base      string `yaml:"base"`
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	Server  Server  `yaml:"server"`
	CORS    CORS    `yaml:"cors"`
	Pricing Pricing `yaml:"pricing"`
	FX      FX      `yaml:"fx"`
	Log     Log     `yaml:"log"`
}

// DefaultFile is read when no path is given and it exists in the working directory.
const DefaultFile = "config.yaml"

func Default() Config {
	return Config{
		Server:  Server{Port: "5000", RequestTimeoutSec: 6},
		CORS:    CORS{AllowedOrigins: []string{"https://www.findalleasy.com"}},
		Pricing: Pricing{CommissionRate: 0.15},
		FX:      FX{Base: "TRY", Endpoint: "https://api.exchangerate.host"},
		Log:     Log{Level: "info", Format: "json"},
	}
}

// Load reads YAML config from path. If path is empty or the file does not
// exist, it starts from defaults. Environment variables override the file,
// and the result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	if err := applyEnv(&cfg, os.Getenv); err != nil {
		return cfg, err
	}
	cfg.FX.Base = strings.ToUpper(strings.TrimSpace(cfg.FX.Base))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := getenv("REQUEST_TIMEOUT"); v != "" {
		x, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("REQUEST_TIMEOUT: %w", err)
		}
		cfg.Server.RequestTimeoutSec = x
	}
	if v := getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.CORS.AllowedOrigins = SplitCSV(v)
	}
	if v := getenv("COMMISSION_RATE"); v != "" {
		x, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("COMMISSION_RATE: %w", err)
		}
		cfg.Pricing.CommissionRate = x
	}
	if v := getenv("FX_BASE"); v != "" {
		cfg.FX.Base = v
	}
	if v := getenv("FX_ENDPOINT"); v != "" {
		cfg.FX.Endpoint = v
	}
	if v := getenv("FX_ACCESS_KEY"); v != "" {
		cfg.FX.AccessKey = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	return nil
}

// Validate checks ranges and codes. It does not modify cfg.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server.port is empty"))
	}
	if c.Server.RequestTimeoutSec <= 0 {
		errs = append(errs, fmt.Errorf("server.request_timeout_sec must be positive, got %d", c.Server.RequestTimeoutSec))
	}
	if c.Pricing.CommissionRate < 0 || c.Pricing.CommissionRate > 1 {
		errs = append(errs, fmt.Errorf("pricing.commission_rate must be in [0,1], got %v", c.Pricing.CommissionRate))
	}
	if _, err := currency.ParseISO(c.FX.Base); err != nil {
		errs = append(errs, fmt.Errorf("fx.base %q: %w", c.FX.Base, err))
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		errs = append(errs, errors.New("cors.allowed_origins is empty"))
	}
	return errors.Join(errs...)
}

// SplitCSV splits a comma-separated list, dropping blanks.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
