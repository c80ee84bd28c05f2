package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rpggio/wandernest/internal/app"
	"github.com/rpggio/wandernest/internal/assistant"
	"github.com/rpggio/wandernest/internal/config"
	"github.com/rpggio/wandernest/internal/reconcile"
	"github.com/stretchr/testify/require"
)

type echoGenerator struct{}

func (echoGenerator) Chat(_ context.Context, _ string, req assistant.ChatRequest) (string, error) {
	return "echo: " + req.Message, nil
}

func (echoGenerator) Generate(_ context.Context, _ string, _ string, prompt string) (string, error) {
	return prompt, nil
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DB.Path = filepath.Join(t.TempDir(), "data", "wandernest.db")
	return cfg
}

func TestNew_SeedsDefaultTrips(t *testing.T) {
	ctx := context.Background()
	a, err := app.New(ctx, testConfig(t), nil, app.WithGenerator(echoGenerator{}))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(ctx) })

	require.Len(t, a.Trips.List(), 2)
	require.Equal(t, reconcile.ModeLocalOnly, a.Controller.Status().Mode)
	require.False(t, a.Assistant.HasAPIKey())
}

func TestNew_ConfigFallbackDescriptor(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Remote.Descriptor = `{"projectId":"fam","uri":"memory://fam"}`
	cfg.Assistant.APIKey = "from-env"

	a, err := app.New(ctx, cfg, nil, app.WithGenerator(echoGenerator{}))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(ctx) })

	status := a.Controller.Status()
	require.Equal(t, reconcile.ModeCloud, status.Mode)
	require.Equal(t, "fam", status.ProjectID)
	require.True(t, a.Assistant.HasAPIKey())
}

func TestNew_BadFallbackDescriptorStaysLocal(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.Remote.Descriptor = `not json`

	a, err := app.New(ctx, cfg, nil, app.WithGenerator(echoGenerator{}))
	require.NoError(t, err)
	t.Cleanup(func() { a.Close(ctx) })
	require.Equal(t, reconcile.ModeLocalOnly, a.Controller.Status().Mode)
}

func TestNew_StatePersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	a, err := app.New(ctx, cfg, nil, app.WithGenerator(echoGenerator{}))
	require.NoError(t, err)
	require.NoError(t, a.Trips.DeleteTrip(ctx, "t-paris-2025"))
	require.NoError(t, a.Assistant.SaveAPIKey(ctx, "saved-key"))
	_, err = a.Controller.Connect(ctx, `{"projectId":"fam","uri":"memory://fam"}`)
	require.NoError(t, err)
	require.NoError(t, a.Close(ctx))

	b, err := app.New(ctx, cfg, nil, app.WithGenerator(echoGenerator{}))
	require.NoError(t, err)
	require.Equal(t, reconcile.ModeCloud, b.Controller.Status().Mode)
	require.True(t, b.Assistant.HasAPIKey())
	require.NoError(t, b.Controller.Disconnect(ctx))
	require.NoError(t, b.Close(ctx))

	c, err := app.New(ctx, cfg, nil, app.WithGenerator(echoGenerator{}))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close(ctx) })
	require.Equal(t, reconcile.ModeLocalOnly, c.Controller.Status().Mode)
	require.Len(t, c.Trips.List(), 1)
	require.Equal(t, "t-trabzon-2025", c.Trips.List()[0].ID)
}
