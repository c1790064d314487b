package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "https://www.tntsupermarket.com/rest/V1", cfg.TNT.BaseURL)
	assert.Equal(t, 25, cfg.TNT.PageSize)
	assert.Equal(t, 3, cfg.TNT.LocationPrefixLength)
	assert.Equal(t, 15*time.Second, cfg.TNT.Timeout)
	assert.Zero(t, cfg.TNT.Retries)
	assert.True(t, cfg.TNT.Cookies)
	assert.Equal(t, 30*time.Second, cfg.Sale.SweepTimeout)
	assert.False(t, cfg.Sale.Publisher.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Sale.Publisher.Brokers)
	assert.Equal(t, "grocery.sales", cfg.Sale.Publisher.Topic)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9090")
	t.Setenv("TNT_PAGE_SIZE", "50")
	t.Setenv("TNT_COOKIES", "false")
	t.Setenv("SALE_DEFAULT_LOCATION", "V6B 2K5")
	t.Setenv("SALE_PUBLISHER_ENABLED", "true")
	t.Setenv("SALE_PUBLISHER_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 50, cfg.TNT.PageSize)
	assert.False(t, cfg.TNT.Cookies)
	assert.Equal(t, "V6B 2K5", cfg.Sale.DefaultLocation)
	assert.True(t, cfg.Sale.Publisher.Enabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Sale.Publisher.Brokers)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "page size too large", key: "TNT_PAGE_SIZE", value: "1000"},
		{name: "base url", key: "TNT_BASE_URL", value: "not a url"},
		{name: "log level", key: "LOG_LEVEL", value: "verbose"},
		{name: "duration", key: "TNT_TIMEOUT", value: "soon"},
		{name: "location prefix length", key: "TNT_LOCATION_PREFIX_LENGTH", value: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestMustLoadPanics(t *testing.T) {
	t.Setenv("TNT_RETRIES", "-1")
	assert.Panics(t, func() { MustLoad() })
}
