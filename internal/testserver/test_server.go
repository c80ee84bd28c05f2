// Package testserver runs the full application stack behind httptest for
// end-to-end tests.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpggio/wandernest/internal/app"
	"github.com/rpggio/wandernest/internal/assistant"
	"github.com/rpggio/wandernest/internal/config"
	"github.com/rpggio/wandernest/internal/transport"
	"github.com/stretchr/testify/require"
)

// Clock is the fixed time every test server starts at.
var Clock = time.Date(2025, 11, 20, 9, 30, 0, 0, time.UTC)

type TestServer struct {
	Server    *httptest.Server
	App       *app.App
	SessionID string
}

// Generator answers chat with the user's message and suggestions with
// the prompt it was given.
type Generator struct{}

func (Generator) Chat(_ context.Context, _ string, req assistant.ChatRequest) (string, error) {
	return "echo: " + req.Message, nil
}

func (Generator) Generate(_ context.Context, _, _, prompt string) (string, error) {
	return prompt, nil
}

// New starts an application on a temporary database.
func New(t *testing.T) *TestServer {
	t.Helper()
	ctx := context.Background()

	cfg := config.Default()
	cfg.DB.Path = filepath.Join(t.TempDir(), "data", "wandernest.db")

	a, err := app.New(ctx, cfg, nil,
		app.WithGenerator(Generator{}),
		app.WithClock(func() time.Time { return Clock }),
	)
	require.NoError(t, err)

	server := httptest.NewServer(a.Handler())
	t.Cleanup(func() {
		server.Close()
		_ = a.Close(ctx)
	})

	return &TestServer{Server: server, App: a, SessionID: "test-session"}
}

// Do sends a JSON request with the test session header and decodes the
// response into out when out is non-nil.
func (ts *TestServer) Do(t *testing.T, method, path string, body, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.Server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(transport.SessionHeader, ts.SessionID)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if out != nil && len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, out), "body: %s", data)
	}
	return resp.StatusCode
}
