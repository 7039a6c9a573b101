package server

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/sanctionlog/internal/server/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	c := &config.Config{}
	c.LoadDefaults()
	c.HTTPAddr = "127.0.0.1:0"
	c.DatabaseDSN = "sqlite://:memory:"
	c.SessionBackend = "cookie"
	c.SecretKey = "test-secret"
	return c
}

func TestNewApp_MissingDSN(t *testing.T) {
	c := testConfig(t)
	c.DatabaseDSN = ""

	_, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db init error")
}

func TestNewApp_BadLogBackend(t *testing.T) {
	c := testConfig(t)
	c.LogBackend = "syslog"

	_, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.Error(t, err)
}

func TestNewApp_BootstrapsAdmin(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)
	c.AdminUsername = "root"
	c.AdminPassword = "toor"

	logs := &bytes.Buffer{}
	app, err := NewApp(ctx, c, logs)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ok, err := app.userService.VerifyUser(ctx, "root", "toor")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Contains(t, logs.String(), "admin account created")
	assert.Contains(t, logs.String(), "webhook URL is not set")
	assert.NotContains(t, logs.String(), "toor")
	assert.Contains(t, logs.String(), `"module":"migrations"`)
	assert.Contains(t, logs.String(), "00002_create_sanciones.sql")
}

func TestNewApp_SkipsAdminWithoutPassword(t *testing.T) {
	ctx := context.Background()
	c := testConfig(t)
	c.AdminUsername = "root"

	app, err := NewApp(ctx, c, &bytes.Buffer{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ok, err := app.userService.VerifyUser(ctx, "root", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewApp_UnreachableRedis(t *testing.T) {
	c := testConfig(t)
	c.SessionBackend = "redis"
	c.RedisAddr = "127.0.0.1:1"

	_, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session store init error")
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	c := testConfig(t)
	logs := &bytes.Buffer{}
	app, err := NewApp(context.Background(), c, logs)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	require.NoError(t, app.Run(ctx))
	assert.Contains(t, logs.String(), "App stopped")
}

func TestApp_RunListenFailure(t *testing.T) {
	c := testConfig(t)
	c.HTTPAddr = "256.0.0.1:bad"
	app, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.NoError(t, err)

	require.Error(t, app.Run(context.Background()))
}
