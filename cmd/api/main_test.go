package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travelapi/internal/auth"
	"travelapi/internal/config"
	"travelapi/internal/logging"
	"travelapi/internal/repository/memory"
	"travelapi/internal/service"
)

func TestSeedAdmin(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := service.NewAuthService(store.Users(), auth.NewTokenManager("s", time.Hour))
	admin := config.AdminConfig{Username: "admin", Email: "admin@example.com", Password: "pw", Name: "Administrator"}
	var buf bytes.Buffer
	log := logging.New(&buf, time.UTC, 0)

	seedAdmin(ctx, svc, admin, log)
	seedAdmin(ctx, svc, admin, log)

	u, err := store.Users().FindByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, "Administrator", u.Name)
	assert.Contains(t, buf.String(), "admin account seeded")
	assert.Contains(t, buf.String(), "admin account already present")

	_, err = svc.Login(ctx, "admin@example.com", "pw")
	assert.NoError(t, err)
}

func TestSeedAdmin_NoPassword(t *testing.T) {
	store := memory.NewStore()
	svc := service.NewAuthService(store.Users(), auth.NewTokenManager("s", time.Hour))

	seedAdmin(context.Background(), svc, config.AdminConfig{Username: "admin", Email: "a@b.c"}, logging.Discard())

	_, err := store.Users().FindByUsername(context.Background(), "admin")
	assert.Error(t, err)
}

func TestOpenBackends_Defaults(t *testing.T) {
	cfg := &config.AppConfig{Upload: config.UploadConfig{Dir: t.TempDir(), MaxBytes: 1 << 20}}

	store, err := openStore(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)
	assert.NoError(t, store.Ping(context.Background()))

	blobs, err := openStorage(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	assert.NotNil(t, blobs)
}
