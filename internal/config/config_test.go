package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestGetEnvString(t *testing.T) {
	key := "TEST_ENV_STRING"
	val := "test_value"
	os.Setenv(key, val)
	defer os.Unsetenv(key)

	if got := getEnvString(key, "default"); got != val {
		t.Errorf("getEnvString() = %q, want %q", got, val)
	}

	if got := getEnvString("NON_EXISTENT", "default"); got != "default" {
		t.Errorf("getEnvString() = %q, want %q", got, "default")
	}
}

func TestGetEnvDuration(t *testing.T) {
	key := "TEST_ENV_DURATION"

	tests := []struct {
		name       string
		envVal     string
		defaultVal time.Duration
		want       time.Duration
	}{
		{"ValidDuration", "1m", time.Second, time.Minute},
		{"ValidSeconds", "60", time.Second, 60 * time.Second},
		{"Invalid", "invalid", time.Second, time.Second},
		{"Empty", "", time.Second, time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envVal != "" {
				os.Setenv(key, tt.envVal)
				defer os.Unsetenv(key)
			} else {
				os.Unsetenv(key)
			}

			if got := getEnvDuration(key, tt.defaultVal); got != tt.want {
				t.Errorf("getEnvDuration() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetEnvIntAndBool(t *testing.T) {
	t.Setenv("TEST_ENV_INT", "12")
	t.Setenv("TEST_ENV_BAD_INT", "twelve")
	t.Setenv("TEST_ENV_BOOL", "false")
	t.Setenv("TEST_ENV_BAD_BOOL", "maybe")

	if got := getEnvInt("TEST_ENV_INT", 5); got != 12 {
		t.Errorf("getEnvInt() = %d, want 12", got)
	}
	if got := getEnvInt("TEST_ENV_BAD_INT", 5); got != 5 {
		t.Errorf("getEnvInt() = %d, want default 5", got)
	}
	if got := getEnvBool("TEST_ENV_BOOL", true); got {
		t.Error("getEnvBool() = true, want false")
	}
	if got := getEnvBool("TEST_ENV_BAD_BOOL", true); !got {
		t.Error("getEnvBool() should fall back to default")
	}
}

func TestEnsureDir(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "dir")

	if err := ensureDir(path); err != nil {
		t.Fatalf("ensureDir() failed: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("directory was not created")
	}

	if err := ensureDir(""); err != nil {
		t.Error("ensureDir(\"\") should not error")
	}
}

func TestGetEnvPaths(t *testing.T) {
	paths := getEnvPaths()
	if len(paths) == 0 {
		t.Error("getEnvPaths() returned empty list")
	}

	cwd, _ := os.Getwd()
	found := false
	for _, p := range paths {
		if p == filepath.Join(cwd, ".env") {
			found = true
			break
		}
	}
	if !found {
		t.Error("getEnvPaths() missing current directory .env")
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("DATA_DIR", tmpDir)
	t.Setenv("LOG_FILE", filepath.Join(tmpDir, "logs", "bikeshare.log"))
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("CITIES_FILE", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DataDir != tmpDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, tmpDir)
	}
	if cfg.PageSize != defaultPageSize {
		t.Errorf("PageSize = %d, want %d", cfg.PageSize, defaultPageSize)
	}
	if cfg.SlowLoadThreshold != defaultSlowLoadThreshold {
		t.Errorf("SlowLoadThreshold = %v, want %v", cfg.SlowLoadThreshold, defaultSlowLoadThreshold)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want INFO", cfg.LogLevel)
	}
	if cfg.Cities.Len() != 3 {
		t.Errorf("Cities.Len() = %d, want 3", cfg.Cities.Len())
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "logs")); err != nil {
		t.Errorf("log directory was not created: %v", err)
	}
}

func TestLoad_MissingDataDir(t *testing.T) {
	t.Setenv("DATA_DIR", filepath.Join(t.TempDir(), "nope"))

	if _, err := Load(); err == nil {
		t.Error("Load() should fail when the data directory is missing")
	}
}

func TestLoad_InvalidPageSize(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("PAGE_SIZE", "-1")

	if _, err := Load(); err == nil {
		t.Error("Load() should reject a negative page size")
	}
}

func TestLoad_LogLevel(t *testing.T) {
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "bikeshare.log"))

	t.Setenv("LOG_LEVEL", "debug")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want DEBUG", cfg.LogLevel)
	}

	t.Setenv("LOG_LEVEL", "loud")
	if _, err := Load(); err == nil {
		t.Error("Load() should reject an unknown log level")
	}
}

func TestLoad_WithEnvFile(t *testing.T) {
	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data")
	if err := os.Mkdir(dataDir, 0o750); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}
	envPath := filepath.Join(tmpDir, ".env")
	content := "DATA_DIR=" + dataDir + "\nPAGE_SIZE=10"
	if err := os.WriteFile(envPath, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// Change working directory to tmpDir so Load finds .env
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	os.Chdir(tmpDir)

	// godotenv does not override variables that are already set
	os.Unsetenv("DATA_DIR")
	os.Unsetenv("PAGE_SIZE")
	defer os.Unsetenv("DATA_DIR")
	defer os.Unsetenv("PAGE_SIZE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.DataDir != dataDir {
		t.Errorf("DataDir = %q, want %q", cfg.DataDir, dataDir)
	}
	if cfg.PageSize != 10 {
		t.Errorf("PageSize = %d, want 10", cfg.PageSize)
	}
}

func TestLoad_WithCitiesFile(t *testing.T) {
	tmpDir := t.TempDir()
	citiesPath := filepath.Join(tmpDir, "cities.yaml")
	content := "cities:\n  - name: Boston\n    file: boston.csv\n"
	if err := os.WriteFile(citiesPath, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv("DATA_DIR", tmpDir)
	t.Setenv("CITIES_FILE", citiesPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	city, ok := cfg.Cities.Lookup("boston")
	if !ok || city.File != "boston.csv" {
		t.Errorf("Lookup(boston) = %+v, %v", city, ok)
	}
	if _, ok := cfg.Cities.Lookup("chicago"); ok {
		t.Error("a cities file should replace the default table")
	}
}
