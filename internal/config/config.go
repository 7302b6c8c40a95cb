package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/vango-dev/packs/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "packs.json"

	// EnvVar selects the environment section when no explicit one is given.
	EnvVar = "PACKS_ENV"

	// DefaultEnv is the environment used when neither a flag nor EnvVar is set.
	DefaultEnv = "development"

	// DefaultDevServerHost is the default dev server host.
	DefaultDevServerHost = "localhost"

	// DefaultDevServerPort is the default dev server port.
	DefaultDevServerPort = 3035

	// DefaultConnectTimeout bounds the dev server probe.
	DefaultConnectTimeout = 10 * time.Millisecond

	defaultSection = "default"
)

// Environment variables that override file values.
const (
	EnvDevServerHost = "PACKS_DEV_SERVER_HOST"
	EnvDevServerPort = "PACKS_DEV_SERVER_PORT"
	EnvAssetHost     = "PACKS_ASSET_HOST"
)

// Config is the resolved configuration for one environment.
type Config struct {
	// SourcePath is the directory holding asset sources.
	SourcePath string `json:"sourcePath,omitempty"`

	// SourceEntryPath is the entry point directory, relative to SourcePath.
	SourceEntryPath string `json:"sourceEntryPath,omitempty"`

	// PublicRoot is the web server document root.
	PublicRoot string `json:"publicRootPath,omitempty"`

	// PublicOutput is the build output directory, relative to PublicRoot.
	PublicOutput string `json:"publicOutputPath,omitempty"`

	// ManifestFile overrides the default manifest location.
	ManifestFile string `json:"manifestPath,omitempty"`

	// CachePath stores compilation digests.
	CachePath string `json:"cachePath,omitempty"`

	// Cache keeps parsed manifests in memory until refreshed.
	Cache bool `json:"cacheManifest"`

	// Compile runs the build before lookups when no dev server is running.
	// Off unless a section enables it, since it needs CompileCommand.
	Compile bool `json:"compile"`

	// CompileCommand is the build command and its arguments.
	CompileCommand []string `json:"compileCommand,omitempty"`

	// AdditionalPaths are extra source directories watched for changes.
	AdditionalPaths []string `json:"additionalPaths,omitempty"`

	// AssetHost is prepended to resolved paths (e.g. a CDN origin).
	AssetHost string `json:"assetHost,omitempty"`

	// DevServer describes where a live development server listens.
	DevServer DevServerConfig `json:"devServer"`

	// S3 describes the bucket manifests are synced from.
	S3 S3Config `json:"s3"`

	env        string
	configPath string
	root       string
}

// DevServerConfig contains development server settings.
type DevServerConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`

	// ConnectTimeout is a Go duration string (e.g. "10ms").
	ConnectTimeout string `json:"connectTimeout,omitempty"`
}

// S3Config contains remote manifest storage settings.
type S3Config struct {
	Bucket       string `json:"bucket,omitempty"`
	Prefix       string `json:"prefix,omitempty"`
	Region       string `json:"region,omitempty"`
	Endpoint     string `json:"endpoint,omitempty"`
	UsePathStyle bool   `json:"usePathStyle,omitempty"`
}

// New creates a new Config with default values for the development environment.
func New() *Config {
	return &Config{
		SourcePath:      "app/javascript",
		SourceEntryPath: "packs",
		PublicRoot:      "public",
		PublicOutput:    "packs",
		CachePath:       "tmp/cache/packs",
		Cache:           false,
		Compile:         false,
		DevServer: DevServerConfig{
			Host: DefaultDevServerHost,
			Port: DefaultDevServerPort,
		},
		env: DefaultEnv,
	}
}

// ResolveEnv picks the environment name: the explicit value, then EnvVar, then DefaultEnv.
func ResolveEnv(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvVar); env != "" {
		return env
	}
	return DefaultEnv
}

// Load reads configuration for env from packs.json in dir.
func Load(dir, env string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName), env)
}

// LoadFile reads configuration for env from the specified file path.
func LoadFile(path, env string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E100").
				WithDetail("No " + ConfigFileName + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " at the project root")
		}
		return nil, errors.New("E101").Wrap(err)
	}

	return Parse(data, path, env)
}

// Parse builds a Config for env from raw packs.json contents.
// path anchors relative directories; it may be empty for the working directory.
func Parse(data []byte, path, env string) (*Config, error) {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, errors.New("E101").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}

	base, hasBase := sections[defaultSection]
	override, hasEnv := sections[env]
	if !hasBase && !hasEnv {
		return nil, errors.New("E102").
			WithDetail("No \"" + env + "\" or \"" + defaultSection + "\" section in " + ConfigFileName).
			WithSuggestion("Add a \"" + env + "\" section or set " + EnvVar)
	}

	cfg := New()
	// Decoding onto the same struct only overwrites keys present in each section.
	for _, section := range [][]byte{base, override} {
		if len(section) == 0 {
			continue
		}
		if err := json.Unmarshal(section, cfg); err != nil {
			return nil, errors.New("E101").
				WithDetail("Invalid settings in " + ConfigFileName + ": " + err.Error())
		}
	}

	cfg.env = env
	if path != "" {
		cfg.configPath = path
		cfg.root = filepath.Dir(path)
	}
	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides lets deployments move the dev server or asset host without editing the file.
func (c *Config) applyEnvOverrides() {
	if host := os.Getenv(EnvDevServerHost); host != "" {
		c.DevServer.Host = host
	}
	if port := os.Getenv(EnvDevServerPort); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			c.DevServer.Port = n
		}
	}
	if host := os.Getenv(EnvAssetHost); host != "" {
		c.AssetHost = host
	}
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.PublicRoot == "" {
		c.PublicRoot = "public"
	}
	if c.PublicOutput == "" {
		c.PublicOutput = "packs"
	}
	if c.SourcePath == "" {
		c.SourcePath = "app/javascript"
	}
	if c.CachePath == "" {
		c.CachePath = "tmp/cache/packs"
	}
	if c.DevServer.Host == "" {
		c.DevServer.Host = DefaultDevServerHost
	}
	if c.DevServer.Port == 0 {
		c.DevServer.Port = DefaultDevServerPort
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DevServer.Port < 0 || c.DevServer.Port > 65535 {
		return errors.New("E101").
			WithDetail("devServer.port must be between 0 and 65535")
	}
	if c.DevServer.ConnectTimeout != "" {
		if d, err := time.ParseDuration(c.DevServer.ConnectTimeout); err != nil || d <= 0 {
			return errors.New("E101").
				WithDetail("devServer.connectTimeout must be a positive duration such as \"10ms\"")
		}
	}
	return nil
}

// Env returns the environment this configuration was resolved for.
func (c *Config) Env() string {
	return c.env
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Root returns the project root directory.
func (c *Config) Root() string {
	return c.root
}

func (c *Config) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.root, path)
}

// CompileOnDemand reports whether lookups should compile first.
func (c *Config) CompileOnDemand() bool {
	return c.Compile
}

// CacheManifest reports whether parsed manifests are reused between lookups.
func (c *Config) CacheManifest() bool {
	return c.Cache
}

// PublicPath returns the absolute path to the document root.
func (c *Config) PublicPath() string {
	return c.abs(c.PublicRoot)
}

// PublicOutputPath returns the absolute path to the build output directory.
func (c *Config) PublicOutputPath() string {
	return filepath.Join(c.PublicPath(), c.PublicOutput)
}

// DefaultManifestPath returns the manifest consulted when no variant-specific one exists.
func (c *Config) DefaultManifestPath() string {
	if c.ManifestFile != "" {
		return c.abs(c.ManifestFile)
	}
	return filepath.Join(c.PublicOutputPath(), "manifest.json")
}

// SourceDir returns the absolute path to the asset sources.
func (c *Config) SourceDir() string {
	return c.abs(c.SourcePath)
}

// SourceEntryDir returns the absolute path to the entry points.
func (c *Config) SourceEntryDir() string {
	return filepath.Join(c.SourceDir(), c.SourceEntryPath)
}

// CacheDir returns the absolute path to the compilation cache.
func (c *Config) CacheDir() string {
	return c.abs(c.CachePath)
}

// WatchedPaths lists the files and directories whose contents decide whether a compile is stale.
func (c *Config) WatchedPaths() []string {
	paths := make([]string, 0, len(c.AdditionalPaths)+2)
	if c.configPath != "" {
		paths = append(paths, c.configPath)
	}
	paths = append(paths, c.SourceDir())
	for _, p := range c.AdditionalPaths {
		paths = append(paths, c.abs(p))
	}
	return paths
}

// DevServerAddress returns the host:port the dev server listens on.
func (c *Config) DevServerAddress() string {
	return net.JoinHostPort(c.DevServer.Host, strconv.Itoa(c.DevServer.Port))
}

// ConnectTimeout returns the dev server probe timeout.
func (c *Config) ConnectTimeout() time.Duration {
	if d, err := time.ParseDuration(c.DevServer.ConnectTimeout); err == nil && d > 0 {
		return d
	}
	return DefaultConnectTimeout
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing packs.json, or an error if not found.
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
			return "", errors.New("E100").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Run packs from inside the project or pass --config")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration for env from the nearest packs.json
// at or above the current working directory.
func LoadFromWorkingDir(env string) (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root, env)
}
