package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, int64(1), cfg.App.NodeID)
	assert.Equal(t, "exports/", cfg.App.ExportPrefix)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 60, cfg.Cache.DashboardTTLSeconds)
	assert.False(t, cfg.Storage.Enabled)
	assert.True(t, cfg.Storage.UseSSL)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("SERVER_PORT", "9090")
	v.Set("CACHE_ENABLED", true)
	v.Set("STORAGE_BUCKET", "konveksi")
	v.Set("WORKSHOP_NODE_ID", 7)

	cfg := FromViper(v)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "konveksi", cfg.Storage.Bucket)
	assert.Equal(t, int64(7), cfg.App.NodeID)
}
