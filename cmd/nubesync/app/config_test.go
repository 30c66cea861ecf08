package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tiendapocket/nubesync/pkg/constants"
	"github.com/tiendapocket/nubesync/pkg/errors"
)

// TestLoadConfig verifies the defaults.
func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.BaseURL != constants.DefaultAPIBaseURL {
		t.Errorf("BaseURL = %s, want %s", config.BaseURL, constants.DefaultAPIBaseURL)
	}
	if config.Timeout != constants.DefaultHTTPTimeout {
		t.Errorf("Timeout = %v, want %v", config.Timeout, constants.DefaultHTTPTimeout)
	}
	if config.Orphans != "hide" {
		t.Errorf("Orphans = %s, want hide", config.Orphans)
	}
	if !config.ManagePrice || !config.ManageStock || !config.CreateMissing {
		t.Error("price, stock and creation should be managed by default")
	}
	if config.LogFormat != "auto" {
		t.Errorf("LogFormat = %s, want auto", config.LogFormat)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Validate() on defaults failed: %v", err)
	}
}

// TestConfig_Credentials verifies both the prefixed and the legacy variables.
func TestConfig_Credentials(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantToken string
		wantStore string
	}{
		{
			name:      "legacy variables",
			env:       map[string]string{"ACCESS_TOKEN": "legacy", "USER_ID": "111"},
			wantToken: "legacy",
			wantStore: "111",
		},
		{
			name: "prefixed variables win",
			env: map[string]string{
				"ACCESS_TOKEN": "legacy", "USER_ID": "111",
				"NUBESYNC_ACCESS_TOKEN": "prefixed", "NUBESYNC_STORE_ID": "222",
			},
			wantToken: "prefixed",
			wantStore: "222",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			config, err := LoadConfig()
			if err != nil {
				t.Fatalf("LoadConfig() failed: %v", err)
			}
			if config.Credentials.AccessToken != tt.wantToken {
				t.Errorf("AccessToken = %s, want %s", config.Credentials.AccessToken, tt.wantToken)
			}
			if config.Credentials.StoreID != tt.wantStore {
				t.Errorf("StoreID = %s, want %s", config.Credentials.StoreID, tt.wantStore)
			}
			if err := config.ValidateCredentials(); err != nil {
				t.Errorf("ValidateCredentials() failed: %v", err)
			}
		})
	}
}

// TestConfig_EnvironmentVariables verifies prefixed settings and durations.
func TestConfig_EnvironmentVariables(t *testing.T) {
	t.Setenv("NUBESYNC_TIMEOUT", "45s")
	t.Setenv("NUBESYNC_ORPHANS", "DELETE")
	t.Setenv("NUBESYNC_MANAGE_STOCK", "false")
	t.Setenv("NUBESYNC_DATA_DIR", "/srv/exports")
	t.Setenv("NUBESYNC_REQUESTS_PER_SECOND", "0")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if config.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", config.Timeout)
	}
	if config.Orphans != "delete" {
		t.Errorf("Orphans = %s, want delete", config.Orphans)
	}
	if config.ManageStock {
		t.Error("NUBESYNC_MANAGE_STOCK=false not applied")
	}
	if config.DataDir != "/srv/exports" {
		t.Errorf("DataDir = %s, want /srv/exports", config.DataDir)
	}
	if config.RequestsPerSecond != 0 {
		t.Errorf("RequestsPerSecond = %v, want 0", config.RequestsPerSecond)
	}
}

// TestConfig_File verifies an explicit config file and a missing one.
func TestConfig_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nubesync.yaml")
	content := "data_dir: ./exports\norphans: keep\nmanage_price: false\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %s, want %s", config.ConfigFile, path)
	}
	if config.DataDir != "./exports" || config.Orphans != "keep" || config.ManagePrice {
		t.Errorf("config file not applied: %+v", config)
	}

	if _, err := loadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("loadConfig() with a missing explicit file should fail")
	}
}

// TestConfig_Validate verifies the validation rules.
func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			BaseURL: constants.DefaultAPIBaseURL,
			Timeout: time.Second,
			DataDir: ".",
			Orphans: "hide",
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown orphan policy", mutate: func(c *Config) { c.Orphans = "purge" }, wantErr: true},
		{name: "unknown format", mutate: func(c *Config) { c.Format = "xml" }, wantErr: true},
		{name: "bad base url", mutate: func(c *Config) { c.BaseURL = "not a url" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Timeout = 0 }, wantErr: true},
		{name: "negative rate", mutate: func(c *Config) { c.RequestsPerSecond = -1 }, wantErr: true},
		{name: "missing credentials are not checked", mutate: func(c *Config) { c.Credentials = Credentials{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var configErr *errors.ConfigError
				if !errors.As(err, &configErr) {
					t.Errorf("Validate() error %T is not a ConfigError", err)
				}
			}
		})
	}
}

// TestConfig_ValidateCredentials verifies the credential rules.
func TestConfig_ValidateCredentials(t *testing.T) {
	tests := []struct {
		name    string
		creds   Credentials
		wantErr bool
	}{
		{name: "complete", creds: Credentials{AccessToken: "t", StoreID: "123"}},
		{name: "missing token", creds: Credentials{StoreID: "123"}, wantErr: true},
		{name: "missing store", creds: Credentials{AccessToken: "t"}, wantErr: true},
		{name: "non numeric store", creds: Credentials{AccessToken: "t", StoreID: "abc"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := &Config{Credentials: tt.creds}
			err := config.ValidateCredentials()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.IsValidationError(err) {
				t.Errorf("ValidateCredentials() error should wrap a ValidationError: %v", err)
			}
		})
	}
}

// TestConfig_UpdateFromFlags verifies that flags override loaded values.
func TestConfig_UpdateFromFlags(t *testing.T) {
	config := &Config{Format: "table", LogLevel: "info"}
	config.UpdateFromFlags(true, false, true, "JSON", "")

	if !config.Verbose || !config.NoColor {
		t.Error("boolean flags not applied")
	}
	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
	if config.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info (empty flag keeps config)", config.LogLevel)
	}
}
