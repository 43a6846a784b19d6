package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v2"
)

type AuthConfig struct {
	JWTSecret   string
	JWTIssuer   string
	JWTDuration time.Duration
}

func LoadAuthConfig() AuthConfig {
	secret := os.Getenv("SHICI_JWT_SECRET")
	if secret == "" {
		// dev default (change for production)
		secret = "dev-secret-change-me"
	}

	issuer := os.Getenv("SHICI_JWT_ISSUER")
	if issuer == "" {
		issuer = "shicihub"
	}

	return AuthConfig{
		JWTSecret:   secret,
		JWTIssuer:   issuer,
		JWTDuration: time.Duration(envInt("SHICI_JWT_TTL_HOURS", 24)) * time.Hour,
	}
}

const (
	BackendNone  = "none"
	BackendIndex = "index"
	BackendGRPC  = "grpc"
)

// DefaultSourceOrder is the registry order used when the config file does
// not list sources explicitly.
var DefaultSourceOrder = []string{
	"builtin", "store", "lunyu", "chuci", "shijing", "yuanqu", "caocao", "nalanxingde", "sishuwujing",
}

type SourceConfig struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path,omitempty"` // file or directory, relative to DataDir
	Disabled bool   `yaml:"disabled,omitempty"`
}

type AppConfig struct {
	DataDir        string         `yaml:"data_dir"`
	DBPath         string         `yaml:"db_path"`
	HTTPAddr       string         `yaml:"http_addr"`
	GRPCAddr       string         `yaml:"grpc_addr"`
	SearchBackend  string         `yaml:"search_backend"`
	BackendTimeout time.Duration  `yaml:"-"`
	TimeoutMS      int            `yaml:"backend_timeout_ms"`
	IndexRefresh   time.Duration  `yaml:"-"`
	RefreshMinutes int            `yaml:"index_refresh_minutes"`
	Sources        []SourceConfig `yaml:"sources"`
}

// DefaultDBPath is ~/.shicihub/data.db, or ./.shicihub/data.db when there
// is no home directory.
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".shicihub", "data.db")
}

func defaultAppConfig() AppConfig {
	return AppConfig{
		DataDir:        "source_data",
		DBPath:         DefaultDBPath(),
		HTTPAddr:       ":8080",
		GRPCAddr:       ":9090",
		SearchBackend:  BackendIndex,
		TimeoutMS:      2000,
		RefreshMinutes: 10,
	}
}

// LoadAppConfig reads the optional YAML file named by SHICI_CONFIG, then
// applies environment overrides and validates the result.
func LoadAppConfig() (AppConfig, error) {
	cfg := defaultAppConfig()

	if path := os.Getenv("SHICI_CONFIG"); path != "" {
		if err := loadYAML(path, &cfg); err != nil {
			return AppConfig{}, err
		}
	}

	applyEnv(&cfg)

	if len(cfg.Sources) == 0 {
		for _, name := range DefaultSourceOrder {
			cfg.Sources = append(cfg.Sources, SourceConfig{Name: name})
		}
	}
	cfg.BackendTimeout = time.Duration(cfg.TimeoutMS) * time.Millisecond
	cfg.IndexRefresh = time.Duration(cfg.RefreshMinutes) * time.Minute

	if err := ValidateAppConfig(&cfg); err != nil {
		return AppConfig{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadYAML(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("SHICI_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("SHICI_DB_PATH"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("SHICI_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("SHICI_GRPC_ADDR"); v != "" {
		cfg.GRPCAddr = v
	}
	if v := os.Getenv("SHICI_SEARCH_BACKEND"); v != "" {
		cfg.SearchBackend = strings.ToLower(strings.TrimSpace(v))
	}
	cfg.TimeoutMS = envInt("SHICI_BACKEND_TIMEOUT_MS", cfg.TimeoutMS)
	cfg.RefreshMinutes = envInt("SHICI_INDEX_REFRESH_MIN", cfg.RefreshMinutes)
}

// ValidateAppConfig rejects configurations that would prevent the core from
// starting predictably.
func ValidateAppConfig(cfg *AppConfig) error {
	if cfg == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	switch cfg.SearchBackend {
	case BackendNone, BackendIndex, BackendGRPC:
	default:
		return fmt.Errorf("unsupported search backend %q", cfg.SearchBackend)
	}
	if cfg.SearchBackend == BackendGRPC && cfg.GRPCAddr == "" {
		return fmt.Errorf("grpc backend requires grpc_addr")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return fmt.Errorf("db_path cannot be empty")
	}
	if cfg.TimeoutMS <= 0 {
		return fmt.Errorf("backend_timeout_ms must be positive")
	}
	if cfg.RefreshMinutes < 0 {
		return fmt.Errorf("index_refresh_minutes cannot be negative")
	}

	known := make(map[string]bool, len(DefaultSourceOrder))
	for _, name := range DefaultSourceOrder {
		known[name] = true
	}
	seen := make(map[string]bool, len(cfg.Sources))
	for _, s := range cfg.Sources {
		if !known[s.Name] {
			return fmt.Errorf("unknown source %q", s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("source %q listed twice", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
