package dev

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/vango-dev/packs/internal/config"
	"github.com/vango-dev/packs/internal/errors"
)

// CompilerConfig configures the asset compiler.
type CompilerConfig struct {
	// ProjectPath is the directory the build command runs in.
	ProjectPath string

	// Command is the build command and its arguments.
	Command []string

	// Env are additional environment variables.
	Env []string

	// WatchedPaths are the files and directories whose contents decide freshness.
	WatchedPaths []string

	// CachePath is where the last compilation digest is stored.
	CachePath string

	// DigestName is the digest file name inside CachePath.
	DigestName string

	// Logger receives compile progress. Defaults to slog.Default().
	Logger *slog.Logger

	// OnCompile is called after every build that actually ran.
	OnCompile func(result BuildResult)
}

// BuildResult contains the result of a build.
type BuildResult struct {
	// Success indicates if the build succeeded.
	Success bool

	// Duration is how long the build took.
	Duration time.Duration

	// Output is the combined build output.
	Output string

	// Error is the build error, if any.
	Error error
}

// Compiler runs the external asset build.
// Builds are serialized; concurrent callers wait for the running one.
type Compiler struct {
	config CompilerConfig
	logger *slog.Logger
	mu     sync.Mutex
}

// NewCompiler creates a new asset compiler.
func NewCompiler(config CompilerConfig) *Compiler {
	if config.DigestName == "" {
		config.DigestName = "last-compilation-digest"
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Compiler{
		config: config,
		logger: logger.With("component", "compiler"),
	}
}

// NewCompilerFromConfig creates a compiler for the project described by cfg.
// onCompile may be nil.
func NewCompilerFromConfig(cfg *config.Config, logger *slog.Logger, onCompile func(BuildResult)) *Compiler {
	env := []string{config.EnvVar + "=" + cfg.Env()}
	if cfg.AssetHost != "" {
		env = append(env, config.EnvAssetHost+"="+cfg.AssetHost)
	}

	return NewCompiler(CompilerConfig{
		ProjectPath:  cfg.Root(),
		Command:      cfg.CompileCommand,
		Env:          env,
		WatchedPaths: cfg.WatchedPaths(),
		CachePath:    cfg.CacheDir(),
		DigestName:   "last-compilation-digest-" + cfg.Env(),
		Logger:       logger,
		OnCompile:    onCompile,
	})
}

// Compile runs the build unless the watched sources are unchanged since the
// last successful build. It blocks until the build finishes.
func (c *Compiler) Compile(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	digest, err := c.digest()
	if err != nil {
		return err
	}
	if last, err := os.ReadFile(c.digestPath()); err == nil && strings.TrimSpace(string(last)) == digest {
		c.logger.Debug("assets are up to date", "digest", digest)
		return nil
	}

	result := c.build(ctx)
	if result.Error != nil {
		return result.Error
	}
	return c.recordDigest(digest)
}

// Build runs the build unconditionally and records the digest on success.
func (c *Compiler) Build(ctx context.Context) BuildResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := c.build(ctx)
	if result.Error != nil {
		return result
	}

	digest, err := c.digest()
	if err == nil {
		err = c.recordDigest(digest)
	}
	if err != nil {
		result.Success = false
		result.Error = err
	}
	return result
}

// Fresh reports whether the watched sources match the last successful build.
func (c *Compiler) Fresh() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	digest, err := c.digest()
	if err != nil {
		return false, err
	}
	last, err := os.ReadFile(c.digestPath())
	if err != nil {
		return false, nil
	}
	return strings.TrimSpace(string(last)) == digest, nil
}

// Clean removes the recorded digest so the next Compile rebuilds.
func (c *Compiler) Clean() error {
	if err := os.Remove(c.digestPath()); err != nil && !os.IsNotExist(err) {
		return errors.New("E142").Wrap(err)
	}
	return nil
}

func (c *Compiler) build(ctx context.Context) BuildResult {
	if len(c.config.Command) == 0 {
		return BuildResult{
			Error: errors.New("E140").
				WithSuggestion(`Set "compileCommand" in packs.json (e.g. ["npx", "webpack"]), or remove "compile": true and build assets separately`),
		}
	}

	start := time.Now()
	command := strings.Join(c.config.Command, " ")
	c.logger.Info("compiling assets", "command", command)

	cmd := exec.CommandContext(ctx, c.config.Command[0], c.config.Command[1:]...)
	cmd.Dir = c.config.ProjectPath
	cmd.Env = append(os.Environ(), c.config.Env...)
	configureProcessGroup(cmd)

	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	err := cmd.Run()
	result := BuildResult{
		Success:  err == nil,
		Duration: time.Since(start),
		Output:   output.String(),
	}

	if err != nil {
		cause := err
		if out := strings.TrimSpace(result.Output); out != "" {
			cause = fmt.Errorf("%w\n%s", err, out)
		}
		result.Error = errors.New("E141").
			WithDetail(command + " failed after " + result.Duration.Round(time.Millisecond).String()).
			WithSuggestion("Run the command by hand to see the full output").
			Wrap(cause)
		c.logger.Error("compilation failed", "command", command, "duration", result.Duration, "error", err)
	} else {
		c.logger.Info("compiled assets", "duration", result.Duration)
		if out := strings.TrimSpace(result.Output); out != "" {
			c.logger.Debug("compiler output", "output", out)
		}
	}

	if c.config.OnCompile != nil {
		c.config.OnCompile(result)
	}
	return result
}

func (c *Compiler) digestPath() string {
	return filepath.Join(c.config.CachePath, c.config.DigestName)
}

func (c *Compiler) digest() (string, error) {
	digest, err := SourceDigest(c.config.WatchedPaths, c.config.Command...)
	if err != nil {
		return "", errors.New("E142").Wrap(err)
	}
	return digest, nil
}

func (c *Compiler) recordDigest(digest string) error {
	if err := os.MkdirAll(c.config.CachePath, 0755); err != nil {
		return errors.New("E142").Wrap(err)
	}
	if err := os.WriteFile(c.digestPath(), []byte(digest+"\n"), 0644); err != nil {
		return errors.New("E142").Wrap(err)
	}
	return nil
}
