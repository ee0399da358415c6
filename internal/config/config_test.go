package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadValidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"threshold": 0.8,
		"window_size": 50,
		"change_threshold": 0.6,
		"num_workers": 4,
		"chunk_size": 500,
		"use_mmap": false,
		"detect_types": false,
		"sample_size": 10000
	}`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.8, cfg.Threshold)
	assert.Equal(t, 50, cfg.WindowSize)
	assert.Equal(t, 4, cfg.NumWorkers)
	assert.False(t, cfg.UseMmap)
}

func TestLoadRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"bogus_field": 1}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsOutOfRangeThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"threshold": 2.5}`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
