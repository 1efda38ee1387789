package cmd

import (
	"path/filepath"
	"testing"

	"github.com/forestrie/go-hashtree/hashtree"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFile)

	conf := NewDefaultConfig(path)
	conf.Store.Kind = StoreBlob
	conf.Store.Prefix = "tenant-1"
	conf.Hasher.Name = hashtree.SHA256
	require.NoError(t, conf.Save())

	got, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, StoreBlob, got.Store.Kind)
	assert.Equal(t, "tenant-1", got.Store.Prefix)
	assert.Equal(t, hashtree.SHA256, got.Hasher.Name)
	assert.Equal(t, "INFO", got.Logger.Level)
	// relative paths are taken from the config file's directory
	assert.Equal(t, filepath.Join(dir, "hashtree.db"), got.Store.Path)
	assert.Equal(t, filepath.Join(dir, "signing.pem"), got.Signer.KeyFile)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "memory", mutate: func(c *Config) { c.Store.Kind = StoreMemory }},
		{name: "bad kind", mutate: func(c *Config) { c.Store.Kind = "s3" }, wantErr: ErrStoreKind},
		{name: "bad hasher", mutate: func(c *Config) { c.Hasher.Name = "md5" }, wantErr: hashtree.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewDefaultConfig("x.toml")
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestConfig_missingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestConfigFromFlags_overrides(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("config", filepath.Join(t.TempDir(), DefaultConfigFile), "")
	cmd.Flags().String("log-level", "", "")
	cmd.Flags().String("hasher", "", "")
	cmd.Flags().String("store", "", "")
	cmd.Flags().String("store-path", "", "")

	// no file and no --config falls back to the defaults
	conf, err := configFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, StoreLevelDB, conf.Store.Kind)

	require.NoError(t, cmd.Flags().Set("store", StoreMemory))
	require.NoError(t, cmd.Flags().Set("hasher", hashtree.SHA256))
	conf, err = configFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, StoreMemory, conf.Store.Kind)
	assert.Equal(t, hashtree.SHA256, conf.Hasher.Name)

	require.NoError(t, cmd.Flags().Set("config", filepath.Join(t.TempDir(), "absent.toml")))
	_, err = configFromFlags(cmd)
	assert.Error(t, err)
}
