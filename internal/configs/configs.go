// Package configs contains the system configurations.
package configs

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"clinic-booking/internal/availability"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultDatabaseDriver  = "postgres"
	defaultPhoneRegion     = "BR"
	defaultWeekdayOrdering = "calendar"
	defaultLoginRate       = 10
)

// ErrMissingPrivateKey is returned by Load when WithRequiredPrivateKey is given and no key file is configured.
var ErrMissingPrivateKey = errors.New("no private key file was configured")

type configData struct {
	ServerPort         int32  `json:"port" yaml:"port"`
	DatabaseDSN        string `json:"database_dsn" yaml:"database_dsn"`
	DatabaseDriver     string `json:"database_driver" yaml:"database_driver"`
	RunMigrations      bool   `json:"run_migrations" yaml:"run_migrations"`
	PrivateKeyFile     string `json:"private_key_file" yaml:"private_key_file"`
	LogLevel           string `json:"log_level" yaml:"log_level"`
	LogPretty          bool   `json:"log_pretty" yaml:"log_pretty"`
	WeekdayOrdering    string `json:"weekday_ordering" yaml:"weekday_ordering"`
	PhoneRegion        string `json:"phone_region" yaml:"phone_region"`
	IntegrityCheckCron string `json:"integrity_check_cron" yaml:"integrity_check_cron"`
	LoginRatePerMinute int    `json:"login_rate_per_minute" yaml:"login_rate_per_minute"`
}

// Config holds the system configuration.
type Config interface {
	ServerPort() int32
	DatabaseDSN() string
	DatabaseDriver() string
	RunMigrations() bool
	PrivateKeyFile() string
	PrivateKey() rsa.PrivateKey
	LogLevel() string
	LogPretty() bool
	WeekdayOrdering() string
	PhoneRegion() string
	IntegrityCheckCron() string
	LoginRatePerMinute() int
}

type defaultConfig struct {
	data       *configData
	privateKey *rsa.PrivateKey
}

func (c *defaultConfig) ServerPort() int32 {
	return c.data.ServerPort
}

func (c *defaultConfig) DatabaseDSN() string {
	return c.data.DatabaseDSN
}

func (c *defaultConfig) DatabaseDriver() string {
	return c.data.DatabaseDriver
}

func (c *defaultConfig) RunMigrations() bool {
	return c.data.RunMigrations
}

func (c *defaultConfig) PrivateKeyFile() string {
	return c.data.PrivateKeyFile
}

func (c *defaultConfig) PrivateKey() rsa.PrivateKey {
	return *c.privateKey
}

func (c *defaultConfig) LogLevel() string {
	return c.data.LogLevel
}

func (c *defaultConfig) LogPretty() bool {
	return c.data.LogPretty
}

func (c *defaultConfig) WeekdayOrdering() string {
	return c.data.WeekdayOrdering
}

func (c *defaultConfig) PhoneRegion() string {
	return c.data.PhoneRegion
}

func (c *defaultConfig) IntegrityCheckCron() string {
	return c.data.IntegrityCheckCron
}

func (c *defaultConfig) LoginRatePerMinute() int {
	return c.data.LoginRatePerMinute
}

func (c *defaultConfig) loadPrivateKey(configPath string) error {
	path := c.PrivateKeyFile()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		path = filepath.Join(filepath.Dir(configPath), path)
	}
	pemFile, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	privatePem, _ := pem.Decode(pemFile)
	if privatePem == nil {
		return errors.New("the given private key is not PEM encoded")
	}
	pk, err := x509.ParsePKCS1PrivateKey(privatePem.Bytes)
	if err != nil {
		return err
	}
	c.privateKey = pk
	return nil
}

// decode parses the file content as YAML when the extension says so, JSON otherwise.
func decode(configPath string, content []byte, data *configData) error {
	switch strings.ToLower(filepath.Ext(configPath)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(content, data)
	default:
		return json.Unmarshal(content, data)
	}
}

// applyEnvironment overrides file values with the process environment, which may have been
// populated by a .env file sitting next to the config file.
func applyEnvironment(data *configData) error {
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		data.DatabaseDSN = dsn
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		data.LogLevel = level
	}
	if port := os.Getenv("PORT"); port != "" {
		parsed, err := strconv.ParseInt(port, 10, 32)
		if err != nil {
			return fmt.Errorf("invalid PORT environment variable: %w", err)
		}
		data.ServerPort = int32(parsed)
	}
	return nil
}

func applyDefaults(data *configData) {
	if data.DatabaseDriver == "" {
		data.DatabaseDriver = defaultDatabaseDriver
	}
	if data.PhoneRegion == "" {
		data.PhoneRegion = defaultPhoneRegion
	}
	if data.WeekdayOrdering == "" {
		data.WeekdayOrdering = defaultWeekdayOrdering
	}
	if data.LoginRatePerMinute == 0 {
		data.LoginRatePerMinute = defaultLoginRate
	}
}

func validate(data *configData) error {
	if data.ServerPort <= 0 || data.ServerPort > 65535 {
		return fmt.Errorf("invalid server port %d", data.ServerPort)
	}
	ordering, err := availability.ParseOrdering(data.WeekdayOrdering)
	if err != nil {
		return fmt.Errorf("invalid weekday ordering %q", data.WeekdayOrdering)
	}
	data.WeekdayOrdering = string(ordering)
	if data.LoginRatePerMinute < 0 {
		return fmt.Errorf("invalid login rate %d", data.LoginRatePerMinute)
	}
	return nil
}

type loadOptions struct {
	requirePrivateKey bool
}

// LoadOption changes what Load accepts as a valid configuration.
type LoadOption func(options *loadOptions)

// WithRequiredPrivateKey makes Load fail when no private key file is configured. Binaries that
// issue or validate tokens must use it.
func WithRequiredPrivateKey() LoadOption {
	return func(options *loadOptions) {
		options.requirePrivateKey = true
	}
}

// Load loads the given configuration file.
func Load(configPath string, opts ...LoadOption) (Config, error) {
	options := &loadOptions{}
	for _, opt := range opts {
		opt(options)
	}
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("an error occurred while loading env file: %w", err)
	}
	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("an error occurred while loading config file: %w", err)
	}
	data := &configData{}
	if err = decode(configPath, content, data); err != nil {
		return nil, fmt.Errorf("an error occurred while parsing config file: %w", err)
	}
	if err = applyEnvironment(data); err != nil {
		return nil, err
	}
	applyDefaults(data)
	if err = validate(data); err != nil {
		return nil, err
	}
	configuration := &defaultConfig{data: data}
	if configuration.PrivateKeyFile() == "" && options.requirePrivateKey {
		return nil, ErrMissingPrivateKey
	}
	if configuration.PrivateKeyFile() != "" {
		if err = configuration.loadPrivateKey(configPath); err != nil {
			return nil, err
		}
	}
	return configuration, nil
}

// MustLoad loads the given configuration file and if any error occurs, will panic.
func MustLoad(configPath string, opts ...LoadOption) Config {
	config, err := Load(configPath, opts...)
	if err != nil {
		panic(err)
	}
	return config
}
