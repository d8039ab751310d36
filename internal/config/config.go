// Package config loads sharpfind settings from an optional TOML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultHead is the result limit applied when neither flags nor
// configuration say otherwise.
const DefaultHead = 10

type Config struct {
	Head        int      `toml:"head"`         // SF_HEAD (default 10; 0 = no limit)
	ExcludeDirs []string `toml:"exclude_dirs"` // SF_EXCLUDE_DIRS, comma-separated (default ".git,bin,obj")

	Index IndexConfig `toml:"index"`
	NATS  NATSConfig  `toml:"nats"`
	S3    S3Config    `toml:"s3"`
}

type IndexConfig struct {
	Driver string `toml:"driver"` // SF_INDEX_DRIVER (default "sqlite3")
	DSN    string `toml:"dsn"`    // SF_INDEX_DSN (default ~/.local/state/sharpfind/index.db)
}

type NATSConfig struct {
	URL string `toml:"url"` // SF_NATS_URL (optional, empty = no events)
}

type S3Config struct {
	Bucket   string `toml:"bucket"`   // SF_S3_BUCKET (enables --upload)
	Region   string `toml:"region"`   // SF_S3_REGION (default "us-east-1")
	Endpoint string `toml:"endpoint"` // SF_S3_ENDPOINT (custom endpoint for MinIO)
	Prefix   string `toml:"prefix"`   // SF_S3_PREFIX (default "sharpfind/")
}

// Path returns the location of the configuration file.
func Path() (string, error) {
	if p := os.Getenv("SF_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sharpfind", "config.toml"), nil
}

// StateDir returns the directory holding the default local index.
func StateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "sharpfind"), nil
}

// Load reads the configuration file (if present), applies environment
// overrides and fills defaults.
func Load() (*Config, error) {
	c := &Config{}

	path, err := Path()
	if err != nil {
		return nil, fmt.Errorf("locate config: %w", err)
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	headSet := md.IsDefined("head")

	if v := os.Getenv("SF_HEAD"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("SF_HEAD: %w", err)
		}
		c.Head = n
		headSet = true
	}
	if v := os.Getenv("SF_EXCLUDE_DIRS"); v != "" {
		c.ExcludeDirs = splitList(v)
	}
	c.Index.Driver = envOrDefault("SF_INDEX_DRIVER", c.Index.Driver)
	c.Index.DSN = envOrDefault("SF_INDEX_DSN", c.Index.DSN)
	c.NATS.URL = envOrDefault("SF_NATS_URL", c.NATS.URL)
	c.S3.Bucket = envOrDefault("SF_S3_BUCKET", c.S3.Bucket)
	c.S3.Region = envOrDefault("SF_S3_REGION", c.S3.Region)
	c.S3.Endpoint = envOrDefault("SF_S3_ENDPOINT", c.S3.Endpoint)
	c.S3.Prefix = envOrDefault("SF_S3_PREFIX", c.S3.Prefix)

	if !headSet {
		c.Head = DefaultHead
	}
	if err := c.applyDefaults(); err != nil {
		return nil, err
	}
	if c.Head < 0 {
		return nil, fmt.Errorf("head must be >= 0, got %d", c.Head)
	}
	return c, nil
}

func (c *Config) applyDefaults() error {
	if c.ExcludeDirs == nil {
		c.ExcludeDirs = []string{".git", "bin", "obj"}
	}
	if c.Index.Driver == "" {
		c.Index.Driver = "sqlite3"
	}
	if c.Index.DSN == "" && c.Index.Driver == "sqlite3" {
		dir, err := StateDir()
		if err != nil {
			return fmt.Errorf("locate state dir: %w", err)
		}
		c.Index.DSN = filepath.Join(dir, "index.db")
	}
	if c.S3.Region == "" {
		c.S3.Region = "us-east-1"
	}
	if c.S3.Prefix == "" {
		c.S3.Prefix = "sharpfind/"
	}
	return nil
}

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if out == nil {
		out = []string{}
	}
	return out
}
