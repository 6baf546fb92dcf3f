package config_test

import (
	"testing"

	"github.com/buildledger/construct-api/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("construct-api-test")
	require.NoError(t, err)

	assert.Equal(t, "construct-api-test", cfg.ServiceName)
	assert.False(t, cfg.Auth.DevMode)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_NAME", "construct_test")

	cfg, err := config.Load("construct-api-test")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Contains(t, cfg.DB.GetDSN(), "dbname=construct_test")
}

func TestDevModeRequiresTenant(t *testing.T) {
	t.Setenv("AUTH_DEV_MODE", "true")
	t.Setenv("DEV_TENANT_ID", "")

	_, err := config.Load("construct-api-test")
	assert.Error(t, err)
}

func TestDevModeWithTenant(t *testing.T) {
	t.Setenv("AUTH_DEV_MODE", "true")
	t.Setenv("DEV_TENANT_ID", "7")
	t.Setenv("DEV_PRINCIPAL", "dev@example.com")

	cfg, err := config.Load("construct-api-test")
	require.NoError(t, err)

	assert.True(t, cfg.Auth.DevMode)
	assert.Equal(t, uint(7), cfg.Auth.DevTenantID)
	assert.Equal(t, "dev@example.com", cfg.Auth.DevPrincipal)
}

func TestProductionIsNotDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	cfg, err := config.Load("construct-api-test")
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
}
