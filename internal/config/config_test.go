package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, "ring:\n  capacity: 2048\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, uint64(2048), cfg.Ring.Capacity)
	assert.Equal(t, 4, cfg.Run.Producers)
	assert.Equal(t, 5*time.Second, cfg.Run.Duration())
	assert.Equal(t, 3, cfg.Run.Iterations)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeConfig(t, "ring:\n  capacity: 64\n  bogus: true\n")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"power of two ok", Config{Ring: RingConfig{Capacity: 8}, Run: RunConfig{Producers: 1}}, false},
		{"not power of two", Config{Ring: RingConfig{Capacity: 9}, Run: RunConfig{Producers: 1}}, true},
		{"too small", Config{Ring: RingConfig{Capacity: 1}, Run: RunConfig{Producers: 1}}, true},
		{"zero producers", Config{Ring: RingConfig{Capacity: 8}, Run: RunConfig{Producers: 0}}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
