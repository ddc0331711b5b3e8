package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/modulrcloud/sputnik-rpc/structures"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const CONFIG_PATH_ENV = "GATEWAY_CONFIG"

// ConfigError is fatal: the gateway refuses to listen without a usable configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

// LoadGatewayConfig builds the process-wide configuration once at boot: defaults, then the
// optional file named by GATEWAY_CONFIG, then environment overrides, then validation.
func LoadGatewayConfig() (structures.GatewayConfig, error) {

	cfg := structures.DefaultGatewayConfig()

	if path := strings.TrimSpace(os.Getenv(CONFIG_PATH_ENV)); path != "" {

		if err := mergeConfigFile(&cfg, path); err != nil {
			return cfg, err
		}

	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return cfg, err
	}

	if err := ValidateGatewayConfig(&cfg); err != nil {
		return cfg, err
	}

	return cfg, nil

}

func mergeConfigFile(cfg *structures.GatewayConfig, path string) error {

	data, err := os.ReadFile(path)

	if err != nil {
		return &ConfigError{Field: CONFIG_PATH_ENV, Reason: err.Error()}
	}

	switch strings.ToLower(filepath.Ext(path)) {

	case ".json":
		err = json.Unmarshal(data, cfg)

	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)

	case ".toml":
		err = toml.Unmarshal(data, cfg)

	default:
		return &ConfigError{Field: CONFIG_PATH_ENV, Reason: "unsupported config format " + filepath.Ext(path)}

	}

	if err != nil {
		return &ConfigError{Field: CONFIG_PATH_ENV, Reason: fmt.Sprintf("parse %s: %v", path, err)}
	}

	return nil

}

func applyEnvOverrides(cfg *structures.GatewayConfig) error {

	if v, ok := lookupEnv("SPUTNIK_EXECUTOR_PATH"); ok {
		cfg.ExecutorPath = v
	}
	if v, ok := lookupEnv("EXECUTOR_COMMAND"); ok {
		cfg.ExecutorCommand = strings.Fields(v)
	}
	if v, ok := lookupEnv("DB_PATH"); ok {
		cfg.DbPath = v
	}
	if v, ok := lookupEnv("TEMP_DIR"); ok {
		cfg.TempDir = v
	}
	if v, ok := lookupEnv("DEV"); ok {
		cfg.DevMode = v != "" && v != "0" && !strings.EqualFold(v, "false")
	}
	if v, ok := lookupEnv("INTERFACE"); ok {
		cfg.Interface = v
	}
	if v, ok := lookupEnv("JOURNAL_PATH"); ok {
		cfg.JournalPath = v
	}
	if v, ok := lookupEnv("IDENTITY_MNEMONIC"); ok {
		cfg.IdentityMnemonic = v
	}
	if v, ok := lookupEnv("JWT_SECRET_PATH"); ok {
		cfg.JwtSecretPath = v
	}
	if v, ok := lookupEnv("LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := lookupEnv("ACCESS_LOG_FILE"); ok {
		cfg.AccessLogFile = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"PORT", &cfg.Port},
		{"WS_PORT", &cfg.WebSocketPort},
		{"EXECUTOR_TIMEOUT_MS", &cfg.ExecutorTimeoutMs},
		{"RATE_LIMIT_BURST", &cfg.RateLimitBurst},
	}

	for _, item := range ints {
		if v, ok := lookupEnv(item.name); ok {
			parsed, err := strconv.Atoi(v)
			if err != nil {
				return &ConfigError{Field: item.name, Reason: "not an integer: " + v}
			}
			*item.dst = parsed
		}
	}

	if v, ok := lookupEnv("RATE_LIMIT_RPS"); ok {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return &ConfigError{Field: "RATE_LIMIT_RPS", Reason: "not a number: " + v}
		}
		cfg.RateLimitRps = parsed
	}

	return nil

}

// ValidateGatewayConfig resolves the executor path to an absolute directory and checks ranges.
func ValidateGatewayConfig(cfg *structures.GatewayConfig) error {

	if strings.TrimSpace(cfg.ExecutorPath) == "" {
		return &ConfigError{Field: "SPUTNIK_EXECUTOR_PATH", Reason: "must be set"}
	}

	absolute, err := filepath.Abs(cfg.ExecutorPath)
	if err != nil {
		return &ConfigError{Field: "SPUTNIK_EXECUTOR_PATH", Reason: err.Error()}
	}

	info, err := os.Stat(absolute)
	if err != nil {
		return &ConfigError{Field: "SPUTNIK_EXECUTOR_PATH", Reason: err.Error()}
	}
	if !info.IsDir() {
		return &ConfigError{Field: "SPUTNIK_EXECUTOR_PATH", Reason: absolute + " is not a directory"}
	}

	cfg.ExecutorPath = absolute

	if len(cfg.ExecutorCommand) == 0 {
		return &ConfigError{Field: "EXECUTOR_COMMAND", Reason: "must name a program"}
	}
	if cfg.ExecutorTimeoutMs <= 0 {
		return &ConfigError{Field: "EXECUTOR_TIMEOUT_MS", Reason: "must be positive"}
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return &ConfigError{Field: "PORT", Reason: "out of range: " + strconv.Itoa(cfg.Port)}
	}
	if cfg.WebSocketPort < 0 || cfg.WebSocketPort > 65535 {
		return &ConfigError{Field: "WS_PORT", Reason: "out of range: " + strconv.Itoa(cfg.WebSocketPort)}
	}
	if cfg.WebSocketPort != 0 && cfg.WebSocketPort == cfg.Port {
		return &ConfigError{Field: "WS_PORT", Reason: "must differ from PORT"}
	}
	if cfg.RateLimitRps < 0 {
		return &ConfigError{Field: "RATE_LIMIT_RPS", Reason: "must not be negative"}
	}
	if cfg.RateLimitRps > 0 && cfg.RateLimitBurst <= 0 {
		return &ConfigError{Field: "RATE_LIMIT_BURST", Reason: "must be positive when rate limiting is on"}
	}

	return nil

}

func lookupEnv(name string) (string, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(v), true
}
