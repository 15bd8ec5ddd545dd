package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrNotInitialized is returned when no config file exists yet.
var ErrNotInitialized = errors.New("mtd is not initialized; run `mtd init`")

// Config is the on-disk configuration consumed by both the sync client and
// the sync server.
type Config struct {
	// Addr is the sync server's socket address: dialed by `mtd sync`,
	// listened on by `mtd server`.
	Addr string `json:"addr"`

	// Password is the shared secret protecting sync traffic. Knowing it is
	// the only identity mechanism between client and server.
	Password string `json:"password"`

	// TimeoutSeconds bounds every socket read and write. Zero disables
	// deadlines.
	TimeoutSeconds int `json:"timeoutSeconds"`

	// SaveLocation overrides the default replica file path under the config
	// dir.
	SaveLocation string `json:"saveLocation,omitempty"`
}

// DefaultConfig is the configuration written by `mtd init`.
func DefaultConfig() *Config {
	return &Config{
		Addr:           "127.0.0.1:55995",
		TimeoutSeconds: 30,
	}
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ReplicaPath is the path of the persisted replica document.
func (c *Config) ReplicaPath() (string, error) {
	if strings.TrimSpace(c.SaveLocation) != "" {
		return c.SaveLocation, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "todos.json"), nil
}

// SyncLogPath is the path of the server's sync history database.
func SyncLogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "synclog.sqlite"), nil
}

func ConfigDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.mtd).
	if v := strings.TrimSpace(os.Getenv("MTD_CONFIG_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mtd"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadConfig reads the config file, returning ErrNotInitialized when it does
// not exist yet.
func LoadConfig() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotInitialized
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// SaveConfig writes the config file atomically, creating the config dir when
// missing. The file holds the shared password, so it is not group/world
// readable.
func SaveConfig(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(path, append(b, '\n'), 0o600)
}
