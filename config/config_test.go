package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
}

func TestLoad(t *testing.T) {
	type testcase struct {
		name string
		yaml string
		err  bool
		seed int64
		opts []string
	}
	cases := []testcase{
		{name: "override", yaml: "seed: 7\noptimizations: [add_two]\nselector:\n  min_subsets: 40\n  factor: 0.5\n", seed: 7, opts: []string{OptAddTwo}},
		{name: "keeps defaults", yaml: "decompose: true\n", seed: 1, opts: []string{OptInferior, OptAddOne, OptLocalSearch}},
		{name: "unknown rating", yaml: "rating: magic\n", err: true},
		{name: "unknown optimization", yaml: "optimizations: [shuffle]\n", err: true},
		{name: "no iterations", yaml: "iterations: 0\n", err: true},
		{name: "bad level", yaml: "log_level: loud\n", err: true},
		{name: "not yaml", yaml: "seed: [\n", err: true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "setcover.yaml")
			require.NoError(t, os.WriteFile(path, []byte(c.yaml), 0o644))
			cfg, err := Load(path)
			if c.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.seed, cfg.Seed)
			assert.Equal(t, c.opts, cfg.Optimizations)
		})
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SETCOVER_SEED", "42")
	t.Setenv("SETCOVER_LOG_LEVEL", "debug")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())

	t.Setenv("SETCOVER_SEED", "many")
	_, err = Load("")
	assert.Error(t, err)
}

func TestMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
