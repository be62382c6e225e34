// Copyright ©️ Ant Group. All rights reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/antgroup/fzfserve/modules/streamio"
	"github.com/go-sql-driver/mysql"
)

const (
	// MiByte is one mebibyte, used to size the config-file read cap.
	MiByte = 1 << 20

	defaultListen     = "0.0.0.0:8080"
	defaultMaxResults = 100
)

// Duration unmarshals a TOML string like "30s" into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// SourceConfig selects and parameterizes one backend that an index file
// (paths.fzf or tags.fzf) is fetched from.
type SourceConfig struct {
	Kind       string `toml:"kind"` // "local", "s3", "gcs"
	Path       string `toml:"path,omitempty"`
	Bucket     string `toml:"bucket,omitempty"`
	Key        string `toml:"key,omitempty"`
	Region     string `toml:"region,omitempty"`
	Compressed bool   `toml:"compressed,omitempty"`
}

// DistroConfig names one searchable tree and where its index files live.
type DistroConfig struct {
	Name        string       `toml:"name"`
	PathsSource SourceConfig `toml:"paths_source"`
	TagsSource  SourceConfig `toml:"tags_source,omitempty"`
}

// Cache sizes the ristretto-backed query cache (§11.2).
type Cache struct {
	NumCounters int64 `toml:"num_counters"`
	MaxCost     int64 `toml:"max_cost"`
	BufferItems int64 `toml:"buffer_items"`
}

func (c *Cache) fillDefaults() {
	if c.NumCounters == 0 {
		c.NumCounters = 1e6
	}
	if c.MaxCost == 0 {
		c.MaxCost = 64 * MiByte
	}
	if c.BufferItems == 0 {
		c.BufferItems = 64
	}
}

// Admin configures the admin endpoints. AdminTokenHash is the argon2id
// hash of the password /admin/login checks before issuing a bearer token;
// empty disables /admin/login. ReloadEnabled gates /admin/reload, which
// answers 404 when it is false.
type Admin struct {
	AdminTokenHash string `toml:"admin_token_hash,omitempty"`
	ReloadEnabled  bool   `toml:"reload_enabled,omitempty"`
}

// Database mirrors the teacher's MySQL config shape, reused verbatim for
// the optional audit sink (§11.5).
type Database struct {
	Name    string   `toml:"name"`
	User    string   `toml:"user"`
	Host    string   `toml:"host"`
	Port    int      `toml:"port"`
	Passwd  string   `toml:"passwd"`
	Timeout Duration `toml:"timeout,omitempty"`
}

func (d *Database) Decrypt(dec *Decryptor) {
	if dec == nil {
		return
	}
	if passwd, err := dec.Decrypt([]byte(d.Passwd)); err == nil {
		d.Passwd = string(passwd)
	}
}

// MakeConfig builds a go-sql-driver/mysql.Config ready to open a pool.
func (d *Database) MakeConfig() (*mysql.Config, error) {
	if d.Timeout.Duration == 0 {
		d.Timeout.Duration = 10 * time.Second
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Passwd
	cfg.DBName = d.Name
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", d.Host, d.Port)
	cfg.Timeout = d.Timeout.Duration
	cfg.ReadTimeout = d.Timeout.Duration
	cfg.WriteTimeout = d.Timeout.Duration
	cfg.ParseTime = true
	cfg.InterpolateParams = true
	return cfg, nil
}

// Audit configures the optional query-log sink (§11.5). A nil Database
// disables auditing.
type Audit struct {
	Database *Database `toml:"database,omitempty"`
}

// Config is the top-level TOML-decoded server configuration.
type Config struct {
	Listen     string         `toml:"listen,omitempty"`
	MaxResults int            `toml:"max_results,omitempty"`
	Distros    []DistroConfig `toml:"distros"`
	Cache      Cache          `toml:"cache"`
	Admin      Admin          `toml:"admin"`
	Audit      Audit          `toml:"audit"`
}

func (c *Config) fillDefaults() {
	if c.Listen == "" {
		c.Listen = defaultListen
	}
	if c.MaxResults <= 0 {
		c.MaxResults = defaultMaxResults
	}
	c.Cache.fillDefaults()
}

// NewExpandReader opens file, optionally expanding $VAR/${VAR}
// environment references in its contents before TOML decoding sees them
// — mirroring the teacher's serve.NewExpandReader.
func NewExpandReader(file string, expandEnv bool) (io.ReadCloser, error) {
	fd, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	if !expandEnv {
		return fd, nil
	}
	defer fd.Close() // nolint
	buf, err := streamio.GrowReadMax(fd, 64*MiByte, 4096)
	if err != nil {
		return nil, err
	}
	return io.NopCloser(strings.NewReader(os.ExpandEnv(string(buf)))), nil
}

// Load reads and decodes file, applying environment expansion when
// expandEnv is set, then fills in every zero-valued default.
func Load(file string, expandEnv bool) (*Config, error) {
	r, err := NewExpandReader(file, expandEnv)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer r.Close() // nolint

	var c Config
	if _, err := toml.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	c.fillDefaults()
	if len(c.Distros) == 0 {
		return nil, fmt.Errorf("config: at least one [[distros]] entry is required")
	}
	seen := make(map[string]bool, len(c.Distros))
	for _, d := range c.Distros {
		if d.Name == "" {
			return nil, fmt.Errorf("config: distro entry missing name")
		}
		if seen[d.Name] {
			return nil, fmt.Errorf("config: duplicate distro name %q", d.Name)
		}
		seen[d.Name] = true
	}
	return &c, nil
}
