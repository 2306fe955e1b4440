package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/akyairhashvil/integrity/internal/milestone"
	"github.com/akyairhashvil/integrity/internal/models"
	"github.com/akyairhashvil/integrity/internal/util"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var (
	ErrMissingEnvFile = errors.New("environment file does not exist")
	ErrNoPeople       = errors.New("no people configured")
)

var validate = validator.New()

// Config is the fully resolved runtime configuration. Nothing below the cmd
// layer reads the process environment; everything arrives through this struct.
type Config struct {
	Env                 string
	Dir                 string
	Source              models.SourceKind `validate:"oneof=sheets file"`
	ServiceAccountFile  string            `validate:"required_if=Source sheets"`
	SpreadsheetKey      string            `validate:"required_if=Source sheets"`
	DataFile            string            `validate:"required_if=Source file"`
	People              []string          `validate:"min=1,unique,dive,required"`
	IncidentSheetFormat string            `validate:"required,contains=%s"`
	RewardSheetFormat   string            `validate:"required,contains=%s"`
	PollInterval        time.Duration     `validate:"min=1s"`
	QuoteInterval       time.Duration     `validate:"min=1s"`
	QuoteFile           string
	FallbackDate        time.Time
	TodayPolicy         milestone.TodayPolicy
	StatusAddr          string
	Theme               string
	CachePath           string `validate:"required"`
	LogLevel            string `validate:"oneof=debug info warn error"`
}

// DetermineEnvironment picks the environment name from ENV, falling back to
// the host OS: dev on macOS, pi on Linux.
func DetermineEnvironment() string {
	if env := strings.TrimSpace(os.Getenv("ENV")); env != "" {
		return env
	}
	switch runtime.GOOS {
	case "linux":
		return EnvPi
	default:
		return EnvDev
	}
}

// Load reads .env.<env> from dir and resolves the configuration. Variables
// already present in the process environment take precedence over the file.
func Load(dir, env string) (*Config, error) {
	path := filepath.Join(dir, ".env."+env)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnvFile, path)
	}
	file, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	lookup := func(name, fallback string) string {
		if value, ok := os.LookupEnv(name); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
		if value := strings.TrimSpace(file[name]); value != "" {
			return value
		}
		return fallback
	}
	return resolve(dir, env, lookup)
}

func resolve(dir, env string, get func(name, fallback string) string) (*Config, error) {
	cfg := &Config{
		Env:                 env,
		Dir:                 dir,
		Source:              models.SourceKind(strings.ToLower(get("SOURCE", string(models.SourceSheets)))),
		ServiceAccountFile:  resolvePath(dir, get("SERVICE_ACCOUNT_FILE", "")),
		SpreadsheetKey:      get("SPREADSHEET_KEY", ""),
		DataFile:            resolvePath(dir, get("DATA_FILE", "")),
		People:              splitList(get("PEOPLE", DefaultPeople)),
		IncidentSheetFormat: get("INCIDENT_SHEET_FORMAT", DefaultIncidentSheetFormat),
		RewardSheetFormat:   get("REWARD_SHEET_FORMAT", DefaultRewardSheetFormat),
		QuoteFile:           resolvePath(dir, get("QUOTE_FILE", DefaultQuoteFile)),
		StatusAddr:          get("STATUS_ADDR", ""),
		Theme:               strings.ToLower(get("THEME", "default")),
		CachePath:           get("CACHE_PATH", filepath.Join(util.DataDir(AppName), DBFileName)),
		LogLevel:            strings.ToLower(get("LOG_LEVEL", "info")),
	}

	var err error
	if cfg.PollInterval, err = seconds("POLL_INTERVAL", get("POLL_INTERVAL", ""), DefaultPollInterval); err != nil {
		return nil, err
	}
	if cfg.QuoteInterval, err = seconds("QUOTE_INTERVAL", get("QUOTE_INTERVAL", ""), DefaultQuoteInterval); err != nil {
		return nil, err
	}

	cfg.FallbackDate = FallbackIncidentDate
	if raw := get("FALLBACK_DATE", ""); raw != "" {
		if cfg.FallbackDate, err = time.Parse(DateLayout, raw); err != nil {
			return nil, fmt.Errorf("FALLBACK_DATE: %w", err)
		}
	}

	switch strings.ToLower(get("TODAY_TIE_BREAK", "largest")) {
	case "largest", "largest-threshold":
		cfg.TodayPolicy = milestone.TieBreakLargestThreshold
	case "last", "last-in-order":
		cfg.TodayPolicy = milestone.TieBreakLastInOrder
	default:
		return nil, fmt.Errorf("TODAY_TIE_BREAK: unknown policy %q", get("TODAY_TIE_BREAK", ""))
	}

	if len(cfg.People) == 0 {
		return nil, ErrNoPeople
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", env, err)
	}
	return cfg, nil
}

func seconds(name, raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}
	return time.Duration(n) * time.Second, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
