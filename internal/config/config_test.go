package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ColeHockerApps/pulsetimer/internal/pace"
)

func TestDataDirLinux(t *testing.T) {
	home, _ := os.UserHomeDir()

	t.Setenv("XDG_DATA_HOME", "")
	assert.Equal(t, filepath.Join(home, ".local", "share", "pulsetimer"), dataDirForOS("linux"))

	t.Setenv("XDG_DATA_HOME", "/custom/data")
	assert.Equal(t, filepath.Join("/custom/data", "pulsetimer"), dataDirForOS("linux"))
}

func TestDataDirMacOS(t *testing.T) {
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "Library", "Application Support", "pulsetimer"), dataDirForOS("darwin"))
}

func TestDataDirWindows(t *testing.T) {
	t.Setenv("LOCALAPPDATA", `C:\Users\test\AppData\Local`)
	assert.Equal(t, filepath.Join(`C:\Users\test\AppData\Local`, "pulsetimer"), dataDirForOS("windows"))

	t.Setenv("LOCALAPPDATA", "")
	t.Setenv("APPDATA", `C:\Users\test\AppData\Roaming`)
	assert.Equal(t, filepath.Join(`C:\Users\test\AppData\Roaming`, "pulsetimer"), dataDirForOS("windows"))
}

func TestDataDirOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHome, dir)
	assert.Equal(t, dir, DataDir())
	assert.Equal(t, filepath.Join(dir, "pulsetimer.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), DefaultPath())
	assert.Equal(t, filepath.Join(dir, "pulsetimer.log"), LogPath())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvHome, t.TempDir())
	t.Setenv(EnvUnits, "")
	t.Setenv(EnvDB, "")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, pace.Kilometers, cfg.Units)
	assert.True(t, cfg.Bell)
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvUnits, "")
	t.Setenv(EnvDB, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "db_path: /tmp/p.db\nunits: mi\ntick_interval: 250ms\nlog_level: DEBUG\nbell: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/p.db", cfg.DBPath)
	assert.Equal(t, pace.Miles, cfg.Units)
	assert.Equal(t, 250*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.False(t, cfg.Bell)
}

func TestLoadNormalizesBadValues(t *testing.T) {
	t.Setenv(EnvUnits, "")
	t.Setenv(EnvDB, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "units: furlongs\ntick_interval: 1ms\nlog_level: loud\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, pace.Kilometers, cfg.Units)
	assert.Equal(t, 100*time.Millisecond, cfg.TickInterval)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("units: [unclosed"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("units: km\ndb_path: /from/file.db\n"), 0o644))

	t.Setenv(EnvUnits, "mi")
	t.Setenv(EnvDB, "/from/env.db")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, pace.Miles, cfg.Units)
	assert.Equal(t, "/from/env.db", cfg.DBPath)
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv(EnvUnits, "")
	t.Setenv(EnvDB, "")
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	want := Default()
	want.Units = pace.Miles
	want.TickInterval = 200 * time.Millisecond
	require.NoError(t, Save(path, want))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "tick_interval: 200ms")

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"debug", "info", "warn", "error"} {
		_, err := ParseLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestWatchReloadsOnWrite(t *testing.T) {
	t.Setenv(EnvUnits, "")
	t.Setenv(EnvDB, "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Save(path, Default()))

	var mu sync.Mutex
	var got []Config
	stop, err := Watch(path, func(c Config, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err == nil {
			got = append(got, c)
		}
	})
	require.NoError(t, err)
	defer stop()

	cfg := Default()
	cfg.Units = pace.Miles
	require.NoError(t, Save(path, cfg))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0 && got[len(got)-1].Units == pace.Miles
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatchIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	var mu sync.Mutex
	calls := 0
	stop, err := Watch(path, func(Config, error) {
		mu.Lock()
		calls++
		mu.Unlock()
	})
	require.NoError(t, err)
	defer stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644))
	time.Sleep(400 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, calls)
}
