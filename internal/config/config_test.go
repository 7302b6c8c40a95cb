package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vango-dev/packs/internal/errors"
)

const sampleConfig = `{
  "default": {
    "sourcePath": "frontend",
    "publicRootPath": "web",
    "publicOutputPath": "assets",
    "compileCommand": ["npx", "webpack"],
    "additionalPaths": ["vendor/styles"],
    "devServer": {"host": "0.0.0.0", "port": 8080}
  },
  "development": {
    "compile": true,
    "cacheManifest": false
  },
  "production": {
    "compile": false,
    "cacheManifest": true,
    "assetHost": "https://cdn.example.com"
  }
}
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.DevServer.Port != DefaultDevServerPort {
		t.Errorf("DevServer.Port = %d, want %d", cfg.DevServer.Port, DefaultDevServerPort)
	}
	if cfg.DevServer.Host != DefaultDevServerHost {
		t.Errorf("DevServer.Host = %q, want %q", cfg.DevServer.Host, DefaultDevServerHost)
	}
	if cfg.CompileOnDemand() {
		t.Error("CompileOnDemand() should default to false")
	}
	if cfg.CacheManifest() {
		t.Error("CacheManifest() should default to false")
	}
	if cfg.Env() != DefaultEnv {
		t.Errorf("Env() = %q, want %q", cfg.Env(), DefaultEnv)
	}
}

func TestParse_CompileOffWithoutSetting(t *testing.T) {
	cfg, err := Parse([]byte(`{"default": {"publicOutputPath": "packs"}}`), "", "development")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if cfg.CompileOnDemand() {
		t.Error("a config that never sets compile should not compile on demand")
	}
	if len(cfg.CompileCommand) != 0 {
		t.Errorf("CompileCommand = %v, want none", cfg.CompileCommand)
	}
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, sampleConfig)

	cfg, err := Load(dir, "production")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.CompileOnDemand() {
		t.Error("production should not compile on demand")
	}
	if !cfg.CacheManifest() {
		t.Error("production should cache the manifest")
	}
	if cfg.AssetHost != "https://cdn.example.com" {
		t.Errorf("AssetHost = %q", cfg.AssetHost)
	}
	if got, want := cfg.PublicOutputPath(), filepath.Join(dir, "web", "assets"); got != want {
		t.Errorf("PublicOutputPath() = %q, want %q", got, want)
	}
	if got, want := cfg.DefaultManifestPath(), filepath.Join(dir, "web", "assets", "manifest.json"); got != want {
		t.Errorf("DefaultManifestPath() = %q, want %q", got, want)
	}
	if got, want := cfg.DevServerAddress(), "0.0.0.0:8080"; got != want {
		t.Errorf("DevServerAddress() = %q, want %q", got, want)
	}
	if !reflect.DeepEqual(cfg.CompileCommand, []string{"npx", "webpack"}) {
		t.Errorf("CompileCommand = %v", cfg.CompileCommand)
	}
	if cfg.Env() != "production" {
		t.Errorf("Env() = %q", cfg.Env())
	}
	if cfg.Root() != dir {
		t.Errorf("Root() = %q, want %q", cfg.Root(), dir)
	}
}

func TestLoad_EnvSectionOverridesDefault(t *testing.T) {
	dir := writeConfig(t, `{
  "default": {"compile": true, "cacheManifest": true, "publicOutputPath": "packs"},
  "test": {"cacheManifest": false, "publicOutputPath": "packs-test"}
}`)

	cfg, err := Load(dir, "test")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.CacheManifest() {
		t.Error("explicit false in env section should override default true")
	}
	if !cfg.CompileOnDemand() {
		t.Error("compile should be inherited from default section")
	}
	if cfg.PublicOutput != "packs-test" {
		t.Errorf("PublicOutput = %q, want packs-test", cfg.PublicOutput)
	}
}

func TestLoad_DefaultSectionOnly(t *testing.T) {
	dir := writeConfig(t, `{"default": {"publicOutputPath": "bundles"}}`)

	cfg, err := Load(dir, "staging")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.PublicOutput != "bundles" {
		t.Errorf("PublicOutput = %q", cfg.PublicOutput)
	}
}

func TestLoad_UnknownEnvironment(t *testing.T) {
	dir := writeConfig(t, `{"production": {}}`)

	_, err := Load(dir, "staging")
	if !errors.HasCode(err, "E102") {
		t.Fatalf("expected E102, got %v", err)
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir(), "development")
	if !errors.HasCode(err, "E100") {
		t.Fatalf("expected E100, got %v", err)
	}
}

func TestLoadFile_InvalidJSON(t *testing.T) {
	dir := writeConfig(t, "not valid json")

	_, err := Load(dir, "development")
	if err == nil {
		t.Fatal("Expected error for invalid JSON")
	}
	if !strings.Contains(err.Error(), "E101") {
		t.Errorf("Expected E101 error, got: %v", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"port out of range", `{"default": {"devServer": {"port": 70000}}}`},
		{"bad timeout", `{"default": {"devServer": {"connectTimeout": "soon"}}}`},
		{"wrong type", `{"default": {"compile": "yes"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content), "development")
			if !errors.HasCode(err, "E101") {
				t.Errorf("expected E101, got %v", err)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvDevServerHost, "webpack")
	t.Setenv(EnvDevServerPort, "9000")
	t.Setenv(EnvAssetHost, "https://assets.example.com")

	cfg, err := Load(writeConfig(t, sampleConfig), "development")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got := cfg.DevServerAddress(); got != "webpack:9000" {
		t.Errorf("DevServerAddress() = %q, want webpack:9000", got)
	}
	if cfg.AssetHost != "https://assets.example.com" {
		t.Errorf("AssetHost = %q", cfg.AssetHost)
	}
}

func TestResolveEnv(t *testing.T) {
	t.Setenv(EnvVar, "")
	if got := ResolveEnv(""); got != DefaultEnv {
		t.Errorf("ResolveEnv(\"\") = %q, want %q", got, DefaultEnv)
	}

	t.Setenv(EnvVar, "production")
	if got := ResolveEnv(""); got != "production" {
		t.Errorf("ResolveEnv(\"\") = %q, want production", got)
	}
	if got := ResolveEnv("test"); got != "test" {
		t.Errorf("ResolveEnv(test) = %q, want test", got)
	}
}

func TestManifestFileOverride(t *testing.T) {
	dir := writeConfig(t, `{"default": {"manifestPath": "shared/manifest.json"}}`)

	cfg, err := Load(dir, "development")
	if err != nil {
		t.Fatal(err)
	}
	if got, want := cfg.DefaultManifestPath(), filepath.Join(dir, "shared", "manifest.json"); got != want {
		t.Errorf("DefaultManifestPath() = %q, want %q", got, want)
	}
}

func TestWatchedPaths(t *testing.T) {
	dir := writeConfig(t, sampleConfig)

	cfg, err := Load(dir, "development")
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(dir, ConfigFileName),
		filepath.Join(dir, "frontend"),
		filepath.Join(dir, "vendor", "styles"),
	}
	if got := cfg.WatchedPaths(); !reflect.DeepEqual(got, want) {
		t.Errorf("WatchedPaths() = %v, want %v", got, want)
	}
}

func TestConnectTimeout(t *testing.T) {
	cfg := New()
	if cfg.ConnectTimeout() != DefaultConnectTimeout {
		t.Errorf("ConnectTimeout() = %v, want %v", cfg.ConnectTimeout(), DefaultConnectTimeout)
	}

	cfg.DevServer.ConnectTimeout = "250ms"
	if cfg.ConnectTimeout() != 250*time.Millisecond {
		t.Errorf("ConnectTimeout() = %v, want 250ms", cfg.ConnectTimeout())
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := writeConfig(t, sampleConfig)
	nested := filepath.Join(root, "app", "javascript", "packs")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}

	if _, err := FindProjectRoot(t.TempDir()); err == nil {
		t.Error("expected error when no packs.json exists")
	}
}
