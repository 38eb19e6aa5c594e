package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/hybrid-cipher-go/internal/encryption"
)

// Version is set via ldflags at build time
var Version = "dev"

// SchemeConfig represents server scheme configuration
type SchemeConfig struct {
	Address   string `json:"address" mapstructure:"address"`
	HTTPPort  int    `json:"http_port" mapstructure:"http_port"`
	EnableH2C bool   `json:"enable_h2c" mapstructure:"enable_h2c"`
}

// CipherConfig represents key generation and scheme defaults
type CipherConfig struct {
	Columns     int    `json:"columns" mapstructure:"columns"`
	KeySize     int    `json:"key_size" mapstructure:"key_size"`
	DefaultType string `json:"default_type" mapstructure:"default_type"` // hybrid, additive, columnar
}

// CacheConfig represents keystore cache configuration
type CacheConfig struct {
	Enable     bool `json:"enable" mapstructure:"enable"`
	Expiration int  `json:"expiration" mapstructure:"expiration"` // minutes
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `json:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `json:"format" mapstructure:"format"` // console, json
}

// ClientConfig represents how the CLI reaches a remote API server
type ClientConfig struct {
	ServerURL string `json:"server_url" mapstructure:"server_url"`
	Username  string `json:"username" mapstructure:"username"`
	Password  string `json:"password" mapstructure:"password"`
	EnableH2C bool   `json:"enable_h2c" mapstructure:"enable_h2c"`
	Timeout   int    `json:"timeout" mapstructure:"timeout"` // seconds
}

// Config represents the main configuration
type Config struct {
	Scheme    SchemeConfig `json:"scheme" mapstructure:"scheme"`
	Cipher    CipherConfig `json:"cipher" mapstructure:"cipher"`
	Cache     CacheConfig  `json:"cache" mapstructure:"cache"`
	Log       LogConfig    `json:"log" mapstructure:"log"`
	Client    ClientConfig `json:"client" mapstructure:"client"`
	DataDir   string       `json:"data_dir" mapstructure:"data_dir"`
	JWTSecret string       `json:"jwt_secret" mapstructure:"jwt_secret"`
	JWTExpire int          `json:"jwt_expire" mapstructure:"jwt_expire"` // hours
}

// SetDefaults registers every default on v
func SetDefaults(v *viper.Viper) {
	// Scheme defaults
	v.SetDefault("scheme.address", "127.0.0.1")
	v.SetDefault("scheme.http_port", 5380)
	v.SetDefault("scheme.enable_h2c", false)

	// Cipher defaults
	v.SetDefault("cipher.columns", 12)
	v.SetDefault("cipher.key_size", 16)
	v.SetDefault("cipher.default_type", "hybrid")

	// Cache defaults
	v.SetDefault("cache.enable", true)
	v.SetDefault("cache.expiration", 10)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Client defaults
	v.SetDefault("client.server_url", "")
	v.SetDefault("client.username", "admin")
	v.SetDefault("client.password", "")
	v.SetDefault("client.enable_h2c", false)
	v.SetDefault("client.timeout", 30)

	// Other defaults
	v.SetDefault("data_dir", "./data")
	v.SetDefault("jwt_secret", "hybrid-cipher-secret-change-me")
	v.SetDefault("jwt_expire", 24)
}

// Read loads config.json (or the file at path, if set) without caching.
// A missing default config file is not an error; a missing explicit path is.
func Read(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.hybrid-cipher")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok && path == "" {
			log.Debug().Msg("Config file not found, using defaults")
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("Config file loaded")
	}

	return LoadFrom(v)
}

// LoadFrom builds a validated Config from v, adding defaults and environment overrides
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	// Environment variables
	v.SetEnvPrefix("HYBRID_CIPHER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate rejects settings the cipher cannot honour
func (c *Config) Validate() error {
	if c.Cipher.Columns < 1 || c.Cipher.Columns > 255 {
		return fmt.Errorf("cipher.columns must be in 1..255, got %d", c.Cipher.Columns)
	}
	if c.Cipher.KeySize < 1 {
		return fmt.Errorf("cipher.key_size must be positive, got %d", c.Cipher.KeySize)
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("client.timeout must not be negative, got %d", c.Client.Timeout)
	}
	if !encryption.IsRegistered(encryption.EncType(c.Cipher.DefaultType)) {
		return fmt.Errorf("unsupported cipher.default_type: %s", c.Cipher.DefaultType)
	}
	return nil
}

// GetHTTPAddr returns the HTTP listen address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.Scheme.Address, c.Scheme.HTTPPort)
}

// IsH2CEnabled returns whether HTTP/2 cleartext is enabled
func (c *Config) IsH2CEnabled() bool {
	return c.Scheme.EnableH2C
}
