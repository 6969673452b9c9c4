package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/vango-dev/tagtree/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "tagtree.json"

	// DefaultIndent is the default indentation alias.
	DefaultIndent = "tab"

	// DefaultPort is the default preview server port.
	DefaultPort = 4000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultDebounce is the default delay between a document change and
	// the rebuild.
	DefaultDebounce = "200ms"

	// DefaultOutput is the default disk publish directory.
	DefaultOutput = "dist"

	// DefaultKey is the default object name of a published document.
	DefaultKey = "index.html"

	TargetDisk = "disk"
	TargetS3   = "s3"
)

// Config represents the complete tagtree.json configuration.
type Config struct {
	// Indent is the indentation unit or one of the aliases "tab", "2", "4".
	Indent string `json:"indent,omitempty"`

	// Doctype is written before the root element when set.
	Doctype string `json:"doctype,omitempty"`

	// Document is the path to the JSON document description, relative to
	// the config file. Empty means the built-in demo document.
	Document string `json:"document,omitempty"`

	// Serve contains preview server configuration.
	Serve ServeConfig `json:"serve,omitempty"`

	// Publish contains publish target configuration.
	Publish PublishConfig `json:"publish,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServeConfig contains preview server settings.
type ServeConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty"`

	// Port is the port to run the preview server on.
	Port int `json:"port,omitempty"`

	// Watch rebuilds the document when its file changes.
	Watch bool `json:"watch,omitempty"`

	// Debounce is the delay before rebuilding (e.g., "200ms").
	Debounce string `json:"debounce,omitempty"`

	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `json:"metrics,omitempty"`

	// Tracing records OpenTelemetry spans for requests and renders.
	Tracing bool `json:"tracing,omitempty"`
}

// PublishConfig contains publish target settings.
type PublishConfig struct {
	// Target is "disk" or "s3".
	Target string `json:"target,omitempty"`

	// Dir is the output directory for the disk target.
	Dir string `json:"dir,omitempty"`

	// Bucket is the S3 bucket name.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is prepended to object keys.
	Prefix string `json:"prefix,omitempty"`

	// Key is the object name of the published document.
	Key string `json:"key,omitempty"`

	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (for S3-compatible stores).
	Endpoint string `json:"endpoint,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Indent: DefaultIndent,
		Serve: ServeConfig{
			Host:     DefaultHost,
			Port:     DefaultPort,
			Watch:    true,
			Debounce: DefaultDebounce,
			Metrics:  true,
		},
		Publish: PublishConfig{
			Target: TargetDisk,
			Dir:    DefaultOutput,
			Key:    DefaultKey,
		},
	}
}

// Load loads configuration from the specified directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E140").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or pass flags on the command line")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Indent == "" {
		c.Indent = DefaultIndent
	}
	if c.Serve.Host == "" {
		c.Serve.Host = DefaultHost
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = DefaultPort
	}
	if c.Serve.Debounce == "" {
		c.Serve.Debounce = DefaultDebounce
	}
	if c.Publish.Target == "" {
		c.Publish.Target = TargetDisk
	}
	if c.Publish.Dir == "" {
		c.Publish.Dir = DefaultOutput
	}
	if c.Publish.Key == "" {
		c.Publish.Key = DefaultKey
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := c.IndentUnit(); err != nil {
		return err
	}
	if c.Serve.Port < 0 || c.Serve.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535, got " + strconv.Itoa(c.Serve.Port))
	}
	if _, err := c.DebounceDuration(); err != nil {
		return err
	}
	switch c.Publish.Target {
	case TargetDisk:
	case TargetS3:
		if c.Publish.Bucket == "" {
			return errors.New("E162").
				WithSuggestion(`Set "publish.bucket" in ` + ConfigFileName + " or pass --bucket")
		}
	default:
		return errors.New("E161").
			WithDetail(fmt.Sprintf("Unknown publish target %q; use %q or %q", c.Publish.Target, TargetDisk, TargetS3))
	}
	return nil
}

// IndentUnit resolves the indent setting to the literal unit string.
func (c *Config) IndentUnit() (string, error) {
	return ResolveIndent(c.Indent)
}

// ResolveIndent turns an indent alias or literal unit into the unit.
func ResolveIndent(indent string) (string, error) {
	switch indent {
	case "", "tab", `\t`:
		return "\t", nil
	case "2":
		return "  ", nil
	case "4":
		return "    ", nil
	}
	if strings.Trim(indent, " \t") != "" {
		return "", errors.New("E121").
			WithDetail(fmt.Sprintf("Indentation unit %q contains characters other than spaces and tabs", indent)).
			WithSuggestion(`Use "tab", "2", "4" or a string of spaces`)
	}
	return indent, nil
}

// DebounceDuration parses the serve debounce setting.
func (c *Config) DebounceDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.Serve.Debounce)
	if err != nil || d < 0 {
		return 0, errors.New("E120").
			WithDetail(fmt.Sprintf("Invalid serve.debounce %q", c.Serve.Debounce)).
			WithSuggestion(`Use a Go duration such as "200ms"`)
	}
	return d, nil
}

// ServeAddress returns the preview server address (host:port).
func (c *Config) ServeAddress() string {
	return net.JoinHostPort(c.Serve.Host, strconv.Itoa(c.Serve.Port))
}

// ServeURL returns the full preview server URL.
func (c *Config) ServeURL() string {
	return "http://" + c.ServeAddress()
}

// DocumentPath returns the absolute document path, or "" for the demo.
func (c *Config) DocumentPath() string {
	return c.resolvePath(c.Document)
}

// PublishDir returns the absolute disk publish directory.
func (c *Config) PublishDir() string {
	return c.resolvePath(c.Publish.Dir)
}

// PublishKey returns the object key of the published document.
func (c *Config) PublishKey() string {
	return c.Publish.Prefix + c.Publish.Key
}

func (c *Config) resolvePath(p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir(), p)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing tagtree.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E140").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working
// directory or its nearest parent holding tagtree.json. When there is
// none, the defaults are returned.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		cfg := New()
		cfg.configPath = filepath.Join(wd, ConfigFileName)
		return cfg, nil
	}

	return Load(root)
}
