// Package config loads kysely-gen settings from a YAML or TOML file, a .env
// file and the environment. Command-line flags are applied on top by the CLI.
//
// Precedence, highest first: flags, environment, config file, defaults.
package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/koustreak/kyselygen/internal/database"
	"github.com/koustreak/kyselygen/internal/errs"
	"github.com/koustreak/kyselygen/internal/filestore"
	"go.yaml.in/yaml/v3"
)

// DefaultFileNames are searched in the working directory, in order, when no
// config path is given.
var DefaultFileNames = []string{"kysely-gen.yaml", "kysely-gen.yml", "kysely-gen.toml"}

// Duration is a time.Duration written as "10s" or "2m" in config files.
type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "invalid duration", err)
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Config is the full set of kysely-gen settings.
type Config struct {
	URL     string   `yaml:"url" toml:"url"`
	Dialect string   `yaml:"dialect" toml:"dialect"`
	Schemas []string `yaml:"schemas" toml:"schemas"`

	// Out is the output path; "-" writes to stdout.
	Out string `yaml:"out" toml:"out"`

	CamelCase   bool     `yaml:"camel_case" toml:"camel_case"`
	HelperTypes bool     `yaml:"helper_types" toml:"helper_types"`
	Include     []string `yaml:"include" toml:"include"`
	Exclude     []string `yaml:"exclude" toml:"exclude"`

	Log    LogConfig    `yaml:"log" toml:"log"`
	Pool   PoolConfig   `yaml:"pool" toml:"pool"`
	Upload UploadConfig `yaml:"upload" toml:"upload"`
	Serve  ServeConfig  `yaml:"serve" toml:"serve"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

type PoolConfig struct {
	MaxConns       int32    `yaml:"max_conns" toml:"max_conns"`
	ConnectTimeout Duration `yaml:"connect_timeout" toml:"connect_timeout"`
	QueryTimeout   Duration `yaml:"query_timeout" toml:"query_timeout"`
}

// UploadConfig publishes the generated file to S3-compatible storage. It is
// enabled when Bucket is set.
type UploadConfig struct {
	Endpoint   string   `yaml:"endpoint" toml:"endpoint"`
	AccessKey  string   `yaml:"access_key" toml:"access_key"`
	SecretKey  string   `yaml:"secret_key" toml:"secret_key"`
	UseSSL     bool     `yaml:"use_ssl" toml:"use_ssl"`
	Region     string   `yaml:"region" toml:"region"`
	Bucket     string   `yaml:"bucket" toml:"bucket"`
	Key        string   `yaml:"key" toml:"key"`
	PresignTTL Duration `yaml:"presign_ttl" toml:"presign_ttl"`
}

type ServeConfig struct {
	Addr string `yaml:"addr" toml:"addr"`
}

// Default returns the built-in defaults.
func Default() *Config {
	db := database.DefaultConfig("")
	return &Config{
		Out:         "-",
		HelperTypes: true,
		Log:         LogConfig{Level: "info", Format: "auto"},
		Pool: PoolConfig{
			MaxConns:       db.MaxConns,
			ConnectTimeout: Duration(db.ConnectTimeout),
			QueryTimeout:   Duration(db.QueryTimeout),
		},
		Upload: UploadConfig{Key: "kysely/types.ts"},
		Serve:  ServeConfig{Addr: ":8080"},
	}
}

// Load reads defaults, then the config file at path (or the first of
// DefaultFileNames found in the working directory when path is empty),
// then the environment. A missing default file is not an error; a missing
// explicit path is.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, explicit := path, path != ""
	if !explicit {
		file = findDefaultFile()
	}
	if file != "" {
		if err := cfg.loadFile(file, explicit); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	cfg.ExpandEnv(os.Getenv)
	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return errs.Wrap(errs.ErrKindInvalidInput, "failed to load "+p, err)
		}
	}
	return nil
}

func findDefaultFile() string {
	for _, name := range DefaultFileNames {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func (c *Config) loadFile(path string, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		if os.IsNotExist(err) {
			return errs.Wrap(errs.ErrKindNotFound, "config file "+path+" not found", err)
		}
		return errs.Wrap(errs.ErrKindInvalidInput, "failed to read config file "+path, err)
	}
	return c.decode(path, data)
}

// decode parses data as TOML when path ends in .toml and as YAML otherwise.
func (c *Config) decode(path string, data []byte) error {
	var err error
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err = toml.Decode(string(data), c)
	} else {
		err = yaml.Unmarshal(data, c)
	}
	if err != nil {
		return errs.Wrap(errs.ErrKindInvalidInput, "failed to parse config file "+path, err)
	}
	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvDatabaseURL = "DATABASE_URL"
	envPrefix      = "KYSELY_GEN_"
)

// ApplyEnv overrides fields from environment variables: DATABASE_URL and
// KYSELY_GEN_<FIELD> (DIALECT, SCHEMAS, OUT, CAMEL_CASE, HELPER_TYPES,
// INCLUDE, EXCLUDE, LOG_LEVEL, LOG_FORMAT, UPLOAD_ENDPOINT,
// UPLOAD_ACCESS_KEY, UPLOAD_SECRET_KEY, UPLOAD_BUCKET, UPLOAD_KEY,
// SERVE_ADDR). Lists are comma separated.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(name string, dst *string) {
		if v, ok := lookup(name); ok && v != "" {
			*dst = v
		}
	}
	list := func(name string, dst *[]string) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = splitList(v)
		}
	}
	flag := func(name string, dst *bool) {
		if v, ok := lookup(envPrefix + name); ok && v != "" {
			*dst = parseBool(v, *dst)
		}
	}

	str(EnvDatabaseURL, &c.URL)
	str(envPrefix+"URL", &c.URL)
	str(envPrefix+"DIALECT", &c.Dialect)
	list("SCHEMAS", &c.Schemas)
	str(envPrefix+"OUT", &c.Out)
	flag("CAMEL_CASE", &c.CamelCase)
	flag("HELPER_TYPES", &c.HelperTypes)
	list("INCLUDE", &c.Include)
	list("EXCLUDE", &c.Exclude)
	str(envPrefix+"LOG_LEVEL", &c.Log.Level)
	str(envPrefix+"LOG_FORMAT", &c.Log.Format)
	str(envPrefix+"UPLOAD_ENDPOINT", &c.Upload.Endpoint)
	str(envPrefix+"UPLOAD_ACCESS_KEY", &c.Upload.AccessKey)
	str(envPrefix+"UPLOAD_SECRET_KEY", &c.Upload.SecretKey)
	str(envPrefix+"UPLOAD_BUCKET", &c.Upload.Bucket)
	str(envPrefix+"UPLOAD_KEY", &c.Upload.Key)
	str(envPrefix+"SERVE_ADDR", &c.Serve.Addr)
}

var envRefPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// ExpandEnv replaces ${VAR} references in the URL and upload settings. A
// bare $ is left alone since passwords may contain one.
func (c *Config) ExpandEnv(getenv func(string) string) {
	expand := func(s string) string {
		return envRefPattern.ReplaceAllStringFunc(s, func(ref string) string {
			return getenv(ref[2 : len(ref)-1])
		})
	}
	c.URL = expand(c.URL)
	c.Upload.Endpoint = expand(c.Upload.Endpoint)
	c.Upload.AccessKey = expand(c.Upload.AccessKey)
	c.Upload.SecretKey = expand(c.Upload.SecretKey)
}

// Validate checks the settings generation cannot run without.
func (c *Config) Validate() error {
	if c.URL == "" {
		return errs.New(errs.ErrKindInvalidInput, "database URL is required (--url, DATABASE_URL or url in the config file)")
	}
	if c.Out == "" {
		return errs.New(errs.ErrKindInvalidInput, "output path must not be empty (use - for stdout)")
	}
	if c.Upload.Bucket != "" && c.Upload.Endpoint == "" {
		return errs.New(errs.ErrKindInvalidInput, "upload endpoint is required when an upload bucket is set")
	}
	return nil
}

// DatabaseConfig converts the pool settings for the drivers.
func (c *Config) DatabaseConfig() *database.Config {
	db := database.DefaultConfig(c.URL)
	if c.Pool.MaxConns > 0 {
		db.MaxConns = c.Pool.MaxConns
	}
	if c.Pool.ConnectTimeout > 0 {
		db.ConnectTimeout = time.Duration(c.Pool.ConnectTimeout)
	}
	if c.Pool.QueryTimeout > 0 {
		db.QueryTimeout = time.Duration(c.Pool.QueryTimeout)
	}
	return db
}

// FilestoreConfig converts the upload settings, or returns nil when upload
// is disabled.
func (c *Config) FilestoreConfig() *filestore.Config {
	if c.Upload.Bucket == "" {
		return nil
	}
	return &filestore.Config{
		Endpoint:   c.Upload.Endpoint,
		AccessKey:  c.Upload.AccessKey,
		SecretKey:  c.Upload.SecretKey,
		UseSSL:     c.Upload.UseSSL,
		Region:     c.Upload.Region,
		Bucket:     c.Upload.Bucket,
		Key:        c.Upload.Key,
		PresignTTL: time.Duration(c.Upload.PresignTTL),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseBool(s string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}
