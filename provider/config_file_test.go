package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFile_Formats(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "llm.yaml",
			content: `provider: echo
model: echo-1
max_tokens: 128
timeout: 30s
options:
  prefix: "Echo: "
  responses: [a, b]
`,
		},
		{
			name: "toml",
			file: "llm.toml",
			content: `provider = "echo"
model = "echo-1"
max_tokens = 128
timeout = "30s"

[options]
prefix = "Echo: "
responses = ["a", "b"]
`,
		},
		{
			name:    "json",
			file:    "llm.json",
			content: `{"provider":"echo","model":"echo-1","max_tokens":128,"timeout":"30s","options":{"prefix":"Echo: ","responses":["a","b"]}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfigFile(writeFile(t, dir, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, "echo", cfg.Provider)
			assert.Equal(t, "echo-1", cfg.Model)
			assert.Equal(t, 128, cfg.MaxTokens)
			assert.Equal(t, 30*time.Second, cfg.Timeout)
			assert.Equal(t, "Echo: ", cfg.GetStringOption("prefix", ""))
			assert.Equal(t, []string{"a", "b"}, cfg.GetStringSliceOption("responses"))
			assert.NoError(t, cfg.Validate())
		})
	}
}

func TestLoadConfigFile_DefaultsKept(t *testing.T) {
	path := writeFile(t, t.TempDir(), "min.yml", "provider: scripted\n")

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)
	assert.Equal(t, "scripted", cfg.Provider)
	assert.Equal(t, DefaultConfig().Timeout, cfg.Timeout)
}

func TestLoadConfigFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadConfigFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfigFile(writeFile(t, dir, "llm.ini", "provider=echo"))
	assert.ErrorContains(t, err, "unsupported config format")

	_, err = LoadConfigFile(writeFile(t, dir, "bad.yaml", "provider: [unclosed"))
	assert.Error(t, err)

	_, err = LoadConfigFile(writeFile(t, dir, "bad.toml", "provider = "))
	assert.Error(t, err)

	_, err = LoadConfigFile(writeFile(t, dir, "bad-timeout.json", `{"provider":"echo","timeout":"fortnight"}`))
	assert.ErrorContains(t, err, "timeout")
}

func TestParseConfig_FormatNames(t *testing.T) {
	for _, format := range []string{"yaml", ".yaml", "YML", ".Yml"} {
		cfg, err := ParseConfig([]byte("provider: echo"), format)
		require.NoError(t, err, format)
		assert.Equal(t, "echo", cfg.Provider)
	}
}

func TestWatchConfig(t *testing.T) {
	path := writeFile(t, t.TempDir(), "llm.yaml", "provider: echo\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := WatchConfig(ctx, path)

	require.NoError(t, os.WriteFile(path, []byte("provider: scripted\nmax_tokens: 64\n"), 0o644))

	// A single write can surface as several events; the last one carries the
	// full content.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case u := <-updates:
			if u.Err == nil && u.Config.Provider == "scripted" {
				assert.Equal(t, 64, u.Config.MaxTokens)
				cancel()
				for range updates {
				}
				return
			}
		case <-deadline:
			t.Fatal("no config update received")
		}
	}
}

func TestWatchConfig_Polling(t *testing.T) {
	old := configPollInterval
	configPollInterval = 20 * time.Millisecond
	defer func() { configPollInterval = old }()

	path := writeFile(t, t.TempDir(), "llm.json", `{"provider":"echo"}`)
	baseline := modTime(path)

	require.NoError(t, os.WriteFile(path, []byte(`{"provider":"scripted"}`), 0o644))
	future := baseline.Add(time.Hour)
	require.NoError(t, os.Chtimes(path, future, future))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := make(chan ConfigUpdate, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		watchPolling(ctx, path, baseline, ch)
	}()

	select {
	case u := <-ch:
		require.NoError(t, u.Err)
		assert.Equal(t, "scripted", u.Config.Provider)
	case <-time.After(5 * time.Second):
		t.Fatal("polling watcher did not report the change")
	}

	cancel()
	<-done
}
