package config

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vango-dev/reactor/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "reactor.json"

	// DefaultPort is the default preview server port.
	DefaultPort = 3000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultSnapshotDir is where the file backend writes snapshots.
	DefaultSnapshotDir = "snapshots"

	// DefaultMetricsPath is the preview server's metrics endpoint.
	DefaultMetricsPath = "/metrics"
)

// Snapshot backends.
const (
	BackendFile = "file"
	BackendS3   = "s3"
)

// Config represents reactor.json.
type Config struct {
	Log      LogConfig      `json:"log"`
	Renderer RendererConfig `json:"renderer"`
	Preview  PreviewConfig  `json:"preview"`
	Snapshot SnapshotConfig `json:"snapshot"`
	Metrics  MetricsConfig  `json:"metrics"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// RendererConfig configures the reconciler and the HTML serializer.
type RendererConfig struct {
	// KeyedDiff enables keyed children reconciliation.
	KeyedDiff bool `json:"keyedDiff,omitempty"`

	// Pretty indents serialized HTML.
	Pretty bool `json:"pretty,omitempty"`

	// TracerName is the OpenTelemetry tracer name for render spans.
	TracerName string `json:"tracerName,omitempty"`
}

// PreviewConfig configures the live preview server.
type PreviewConfig struct {
	Host  string `json:"host,omitempty"`
	Port  int    `json:"port,omitempty"`
	Title string `json:"title,omitempty"`
}

// SnapshotConfig selects where rendered snapshots are stored.
type SnapshotConfig struct {
	// Backend is "file" or "s3".
	Backend string `json:"backend,omitempty"`

	// Dir is the output directory of the file backend.
	Dir string `json:"dir,omitempty"`

	// Bucket, Prefix and Region configure the s3 backend.
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`
}

// MetricsConfig configures the Prometheus endpoint of the preview server.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled,omitempty"`
	Path      string `json:"path,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads reactor.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from path. A missing file returns an error
// that matches fs.ErrNotExist.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New("C200").
				WithDetail("No "+ConfigFileName+" found in "+filepath.Dir(path)).
				WithSuggestion("Run 'reactor init' or pass --config").
				Wrap(err)
		}
		return nil, errors.New("C200").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("C200").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("C202").WithDetail("no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("C202").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("C202").Wrap(err)
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

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Renderer.TracerName == "" {
		c.Renderer.TracerName = "reactor"
	}
	if c.Preview.Host == "" {
		c.Preview.Host = DefaultHost
	}
	if c.Preview.Port == 0 {
		c.Preview.Port = DefaultPort
	}
	if c.Preview.Title == "" {
		c.Preview.Title = "reactor preview"
	}
	if c.Snapshot.Backend == "" {
		c.Snapshot.Backend = BackendFile
	}
	if c.Snapshot.Dir == "" {
		c.Snapshot.Dir = DefaultSnapshotDir
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = "reactor"
	}
}

// Validate checks field values. Errors carry code C201 and the offending
// field.
func (c *Config) Validate() error {
	invalid := func(field, detail string) error {
		return errors.New("C201").WithField("field", field).WithDetail(detail)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", "level must be debug, info, warn or error")
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return invalid("log.format", "format must be text or json")
	}
	if c.Preview.Port < 0 || c.Preview.Port > 65535 {
		return invalid("preview.port", "port must be between 0 and 65535")
	}
	switch c.Snapshot.Backend {
	case BackendFile:
	case BackendS3:
		if c.Snapshot.Bucket == "" {
			return invalid("snapshot.bucket", "the s3 backend needs a bucket")
		}
	default:
		return invalid("snapshot.backend", "backend must be file or s3")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path", "path must start with /")
	}
	return nil
}

// PreviewAddress returns the listen address of the preview server.
func (c *Config) PreviewAddress() string {
	return c.Preview.Host + ":" + strconv.Itoa(c.Preview.Port)
}

// SnapshotDir returns the file backend directory, resolved against the
// config file's directory.
func (c *Config) SnapshotDir() string {
	if filepath.IsAbs(c.Snapshot.Dir) || c.configPath == "" {
		return c.Snapshot.Dir
	}
	return filepath.Join(c.Dir(), c.Snapshot.Dir)
}

// ParseLevel parses a log level name.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s))
	return level, err
}

// Logger builds a logger writing to w.
func (l LogConfig) Logger(w io.Writer) (*slog.Logger, error) {
	level, err := ParseLevel(l.Level)
	if err != nil {
		return nil, errors.New("C201").WithField("field", "log.level").Wrap(err)
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return slog.New(slog.NewTextHandler(w, opts)), nil
}

// Exists checks if a config file exists in dir.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up from startDir to the directory containing
// reactor.json.
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
			return "", errors.New("C200").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				Wrap(fs.ErrNotExist)
		}
		dir = parent
	}
}
