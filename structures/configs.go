package structures

type GatewayConfig struct {
	ExecutorPath      string   `json:"SPUTNIK_EXECUTOR_PATH" yaml:"SPUTNIK_EXECUTOR_PATH" toml:"SPUTNIK_EXECUTOR_PATH"`
	ExecutorCommand   []string `json:"EXECUTOR_COMMAND" yaml:"EXECUTOR_COMMAND" toml:"EXECUTOR_COMMAND"`
	ExecutorTimeoutMs int      `json:"EXECUTOR_TIMEOUT_MS" yaml:"EXECUTOR_TIMEOUT_MS" toml:"EXECUTOR_TIMEOUT_MS"`
	DbPath            string   `json:"DB_PATH" yaml:"DB_PATH" toml:"DB_PATH"`
	TempDir           string   `json:"TEMP_DIR" yaml:"TEMP_DIR" toml:"TEMP_DIR"`
	DevMode           bool     `json:"DEV" yaml:"DEV" toml:"DEV"`
	Interface         string   `json:"INTERFACE" yaml:"INTERFACE" toml:"INTERFACE"`
	Port              int      `json:"PORT" yaml:"PORT" toml:"PORT"`
	WebSocketPort     int      `json:"WS_PORT" yaml:"WS_PORT" toml:"WS_PORT"`
	JournalPath       string   `json:"JOURNAL_PATH" yaml:"JOURNAL_PATH" toml:"JOURNAL_PATH"`
	IdentityMnemonic  string   `json:"IDENTITY_MNEMONIC" yaml:"IDENTITY_MNEMONIC" toml:"IDENTITY_MNEMONIC"`
	JwtSecretPath     string   `json:"JWT_SECRET_PATH" yaml:"JWT_SECRET_PATH" toml:"JWT_SECRET_PATH"`
	RateLimitRps      float64  `json:"RATE_LIMIT_RPS" yaml:"RATE_LIMIT_RPS" toml:"RATE_LIMIT_RPS"`
	RateLimitBurst    int      `json:"RATE_LIMIT_BURST" yaml:"RATE_LIMIT_BURST" toml:"RATE_LIMIT_BURST"`
	LogFile           string   `json:"LOG_FILE" yaml:"LOG_FILE" toml:"LOG_FILE"`
	AccessLogFile     string   `json:"ACCESS_LOG_FILE" yaml:"ACCESS_LOG_FILE" toml:"ACCESS_LOG_FILE"`
}

// DefaultGatewayConfig holds the values used when neither the file nor the environment sets one.
func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		ExecutorCommand:   []string{"cargo", "run", "--"},
		ExecutorTimeoutMs: 60_000,
		DbPath:            "./chain.sqlite",
		Interface:         "0.0.0.0",
		Port:              8549,
		JournalPath:       "./gateway-data/JOURNAL",
		RateLimitRps:      50,
		RateLimitBurst:    100,
	}
}
