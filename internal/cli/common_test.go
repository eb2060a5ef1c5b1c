package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, false, true)
	logger.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	logger.Info("hidden %d", 1)
	logger.Debug("parsed %d files", 3)
	logger.Warn("careful")
	logger.Error("failed: %s", "boom")

	want := "[DEBUG] 03:04:05: parsed 3 files\n" +
		"[WARN] 03:04:05: careful\n" +
		"[ERROR] 03:04:05: failed: boom\n"
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	writeFile(t, path, `{
		"verbose": true,
		"color": "never",
		"workers": 4,
		"debounce": "250ms",
		"packages": {"std/io": ["1.0.0", "1.2.0"]}
	}`)

	sub := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig("", sub)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.ConfigFile != path {
		t.Errorf("ConfigFile = %q, want %q", config.ConfigFile, path)
	}
	if !config.Verbose || config.Color != ColorNever || config.Workers != 4 {
		t.Errorf("unexpected config %+v", config)
	}
	if time.Duration(config.Debounce) != 250*time.Millisecond {
		t.Errorf("Debounce = %v, want 250ms", time.Duration(config.Debounce))
	}
	if got := config.Packages["std/io"]; len(got) != 2 {
		t.Errorf("Packages = %v", config.Packages)
	}
	// defaults survive fields the file leaves out
	if config.MaxErrors != 50 {
		t.Errorf("MaxErrors = %d, want default 50", config.MaxErrors)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "none.json"), "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.Color != ColorAuto || config.ConfigFile != "" {
		t.Errorf("expected defaults, got %+v", config)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", `{"verbose": }`, "failed to parse config file"},
		{"color", `{"color": "sometimes"}`, "color must be auto, always or never"},
		{"workers", `{"workers": -1}`, "workers must not be negative"},
		{"duration", `{"debounce": 5}`, "duration must be a string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			writeFile(t, path, tt.content)
			_, err := LoadConfig(path, "")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadConfig error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ConfigFileName)
	config := DefaultConfig()
	config.Workers = 2
	if err := config.SaveConfig(path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}

	loaded, err := LoadConfig(path, "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if loaded.Workers != 2 || loaded.Debounce != config.Debounce {
		t.Errorf("round trip lost settings: %+v", loaded)
	}
}

func TestUseColor(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	config := DefaultConfig()
	if config.UseColor(f) {
		t.Error("a regular file is not a terminal")
	}
	config.Color = ColorAlways
	if !config.UseColor(f) {
		t.Error("color=always must force colour")
	}
	config.Color = ColorNever
	if config.UseColor(nil) {
		t.Error("color=never must disable colour")
	}
}

func TestPrintVersion(t *testing.T) {
	var buf bytes.Buffer
	if err := PrintVersion(&buf, "yap", true); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Tool        string      `json:"tool"`
		VersionInfo VersionInfo `json:"version_info"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON %q: %v", buf.String(), err)
	}
	if decoded.Tool != "yap" || decoded.VersionInfo.Version != Version {
		t.Errorf("unexpected version output %+v", decoded)
	}

	buf.Reset()
	if err := PrintVersion(&buf, "yap", false); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "yap v"+Version+"\n") {
		t.Errorf("plain output = %q", buf.String())
	}
}

func TestValidateArgs(t *testing.T) {
	if err := ValidateArgs([]string{"a"}, 1, "yap parse FILE"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if err := ValidateArgs(nil, 1, "yap parse FILE"); err == nil {
		t.Error("expected an error for missing arguments")
	}
}
