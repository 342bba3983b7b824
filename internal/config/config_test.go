package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: localhost
  user: pos
  password: pos
  database: pos
rabbitmq:
  host: localhost
  user: guest
  password: guest
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 10, cfg.Database.MaxConns)
	assert.Equal(t, 5672, cfg.RabbitMQ.Port)
	assert.Equal(t, "/", cfg.RabbitMQ.VHost)
	assert.Equal(t, 60, cfg.Redis.TTLSecond)
	assert.Equal(t, 3000, cfg.HTTP.Port)
	assert.Empty(t, cfg.Redis.Addr, "cache stays disabled unless configured")
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  host: db.internal
  port: 5433
  user: pos
  password: secret
  database: pos_prod
  sslmode: require
  max_conns: 50
rabbitmq:
  host: mq.internal
  user: pos
  password: secret
  vhost: /pos
redis:
  addr: cache.internal:6379
  ttl_seconds: 300
http:
  port: 8080
pricing:
  discounts:
    - order_type: dine_in
      min_subtotal: 10000
      percent: 5
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, "/pos", cfg.RabbitMQ.VHost)
	assert.Equal(t, "cache.internal:6379", cfg.Redis.Addr)
	assert.Equal(t, 300, cfg.Redis.TTLSecond)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	require.Len(t, cfg.Pricing.Discounts, 1)
	assert.Equal(t, "dine_in", cfg.Pricing.Discounts[0].OrderType)
	assert.Equal(t, int64(10000), cfg.Pricing.Discounts[0].MinSubtotal)
	assert.Equal(t, int64(5), cfg.Pricing.Discounts[0].Percent)
}

func TestLoadRejectsIncompleteConfig(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing database host", `
database:
  user: pos
  database: pos
rabbitmq:
  host: localhost
  user: guest
`},
		{"missing rabbitmq user", `
database:
  host: localhost
  user: pos
  database: pos
rabbitmq:
  host: localhost
`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestLoadMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "database: [not a map"))
	assert.Error(t, err)
}
