package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gagliardetto/solana-go"
	"github.com/kelseyhightower/envconfig"
	"golang.org/x/term"
)

// Ledger backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendFile   = "file"
)

// Config contains all configuration parameters for the application.
// Note: the snapshot password is prompted at runtime and stored in memory - use GetSnapshotPasswordBytes()
type Config struct {
	Port              string `envconfig:"PORT" default:"8080"`
	ProgramID         string `envconfig:"PROGRAM_ID" required:"true"`
	LedgerBackend     string `envconfig:"LEDGER_BACKEND" default:"memory"`
	RedisAddr         string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	RedisPassword     string `envconfig:"REDIS_PASSWORD"`
	RedisDB           int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix       string `envconfig:"REDIS_PREFIX" default:"escrow"`
	SnapshotPath      string `envconfig:"SNAPSHOT_PATH" default:"ledger.snapshot"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat         string `envconfig:"LOG_FORMAT" default:"json"`
	SolanaRPCURL      string `envconfig:"SOLANA_RPC_URL"`
	PriceAPIURL       string `envconfig:"PRICE_API_URL"`
	QuoteCurrency     string `envconfig:"QUOTE_CURRENCY" default:"usd"`
	FaucetEnabled     bool   `envconfig:"FAUCET_ENABLED" default:"false"`
	RequireSignatures bool   `envconfig:"REQUIRE_SIGNATURES" default:"true"`
	AdminToken        string `envconfig:"ADMIN_TOKEN"`

	programID solana.PublicKey
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from environment variables.
func Init() error {
	c := &Config{}
	if err := envconfig.Process("", c); err != nil {
		return fmt.Errorf("failed to process config: %w", err)
	}
	if err := c.validate(); err != nil {
		return err
	}
	cfg = c
	return nil
}

func (c *Config) validate() error {
	programID, err := solana.PublicKeyFromBase58(c.ProgramID)
	if err != nil {
		return fmt.Errorf("invalid PROGRAM_ID: %w", err)
	}
	if programID.IsZero() {
		return errors.New("PROGRAM_ID cannot be the zero key")
	}
	c.programID = programID

	c.LedgerBackend = strings.ToLower(c.LedgerBackend)
	switch c.LedgerBackend {
	case BackendMemory, BackendRedis, BackendFile:
	default:
		return fmt.Errorf("LEDGER_BACKEND must be %s, %s or %s", BackendMemory, BackendRedis, BackendFile)
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// GetPort returns port from configuration
func GetPort() string {
	return Get().Port
}

// GetProgramID returns the program identity parsed at Init
func GetProgramID() solana.PublicKey {
	return Get().programID
}

// GetSolanaRPCURL returns Solana RPC URL, empty when on-chain audit is disabled
func GetSolanaRPCURL() string {
	return Get().SolanaRPCURL
}

var passwordBytes []byte

// PromptForPassword prompts the user for the snapshot password in the terminal.
// The password is read without echoing (hidden input) and stored in memory.
// Call this at startup before the server begins handling requests.
func PromptForPassword() error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("stdin is not a terminal: run the app interactively to enter password")
	}
	fmt.Fprint(os.Stderr, "Enter snapshot password: ")
	defer fmt.Fprintln(os.Stderr)

	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return fmt.Errorf("failed to read password: %w", err)
	}
	if len(raw) == 0 {
		return errors.New("password cannot be empty")
	}

	passwordBytes = make([]byte, len(raw))
	copy(passwordBytes, raw)
	clear(raw)
	return nil
}

// GetSnapshotPasswordBytes returns the password stored in memory (from PromptForPassword).
// Returns an error if the password was not set.
// Caller must zero the returned slice after use for security.
func GetSnapshotPasswordBytes() ([]byte, error) {
	if len(passwordBytes) == 0 {
		return nil, errors.New("password not set: call PromptForPassword at startup")
	}
	out := make([]byte, len(passwordBytes))
	copy(out, passwordBytes)
	return out, nil
}
