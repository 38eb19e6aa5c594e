package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"

	"github.com/hybrid-cipher-go/internal/encryption"
)

func TestLoadFromDefaults(t *testing.T) {
	c, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if c.Cipher.Columns != 12 {
		t.Errorf("columns = %d, want 12", c.Cipher.Columns)
	}
	if c.Cipher.KeySize != 16 {
		t.Errorf("key_size = %d, want 16", c.Cipher.KeySize)
	}
	if c.Cipher.DefaultType != "hybrid" {
		t.Errorf("default_type = %q, want hybrid", c.Cipher.DefaultType)
	}
	if c.GetHTTPAddr() != "127.0.0.1:5380" {
		t.Errorf("GetHTTPAddr() = %q", c.GetHTTPAddr())
	}
}

func TestLoadFromJSON(t *testing.T) {
	v := viper.New()
	v.SetConfigType("json")
	raw := `{"cipher":{"columns":5,"default_type":"columnar"},"scheme":{"http_port":9000,"enable_h2c":true},"log":{"level":"debug"}}`
	if err := v.ReadConfig(strings.NewReader(raw)); err != nil {
		t.Fatalf("ReadConfig error: %v", err)
	}

	c, err := LoadFrom(v)
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if c.Cipher.Columns != 5 || c.Cipher.DefaultType != "columnar" {
		t.Errorf("cipher = %+v", c.Cipher)
	}
	if c.Scheme.HTTPPort != 9000 || !c.IsH2CEnabled() {
		t.Errorf("scheme = %+v", c.Scheme)
	}
	if c.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", c.Log.Level)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("HYBRID_CIPHER_CIPHER_COLUMNS", "7")

	c, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("LoadFrom error: %v", err)
	}
	if c.Cipher.Columns != 7 {
		t.Errorf("columns = %d, want 7", c.Cipher.Columns)
	}
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"zero columns", func(c *Config) { c.Cipher.Columns = 0 }},
		{"too many columns", func(c *Config) { c.Cipher.Columns = 256 }},
		{"zero key size", func(c *Config) { c.Cipher.KeySize = 0 }},
		{"unknown type", func(c *Config) { c.Cipher.DefaultType = "rc4md5" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, err := LoadFrom(viper.New())
			if err != nil {
				t.Fatalf("LoadFrom error: %v", err)
			}
			tc.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
}

func TestValidateAcceptsRegisteredTypes(t *testing.T) {
	for _, encType := range encryption.ListRegistered() {
		c, err := LoadFrom(viper.New())
		if err != nil {
			t.Fatalf("LoadFrom error: %v", err)
		}
		c.Cipher.DefaultType = string(encType)
		if err := c.Validate(); err != nil {
			t.Errorf("Validate(%s) error: %v", encType, err)
		}
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"cipher":{"columns":5},"log":{"level":"debug"}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Read(path)
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if c.Cipher.Columns != 5 || c.Log.Level != "debug" {
		t.Errorf("Read = %+v", c)
	}
	if c.Cipher.KeySize != 16 {
		t.Errorf("KeySize default = %d, want 16", c.Cipher.KeySize)
	}

	if _, err := Read(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("Read of a missing explicit file should fail")
	}
}
