package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"support-desk/config"
	"support-desk/internal/repository/bolt"
	"support-desk/internal/usecase"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type pingStub struct{ err error }

func (p pingStub) OnStart(context.Context) error { return nil }
func (p pingStub) OnStop(context.Context) error  { return nil }
func (p pingStub) Ping(context.Context) error    { return p.err }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server:  config.ServerConfig{Host: "127.0.0.1", Port: 0, ShutdownTimeout: time.Second},
		HTTP:    config.HTTPConfig{RequestTimeout: time.Second, MaxUploadBytes: 1 << 20},
		Session: config.SessionConfig{CookieName: "sid", TTL: time.Hour},
		Storage: config.StorageConfig{Backend: config.BackendBolt},
		Bolt:    config.BoltConfig{Path: filepath.Join(t.TempDir(), "desk.db"), Timeout: time.Second},
	}
}

func TestHealthz(t *testing.T) {
	cfg := testConfig(t)
	log := zap.NewNop().Sugar()
	ctx := context.Background()

	repo := bolt.New(log, cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })
	uc := usecase.New(log, ctx, repo, cfg)

	resp, err := newServer(log, cfg, repo, uc).Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = newServer(log, cfg, pingStub{err: errors.New("down")}, uc).Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestServerRegistersAPIAndPages(t *testing.T) {
	cfg := testConfig(t)
	log := zap.NewNop().Sugar()
	ctx := context.Background()

	repo := bolt.New(log, cfg)
	require.NoError(t, repo.OnStart(ctx))
	t.Cleanup(func() { _ = repo.OnStop(ctx) })
	app := newServer(log, cfg, repo, usecase.New(log, ctx, repo, cfg))

	body := `{"email":"dana@example.com","username":"dana","password":"password1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/projects", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestBodyLimit(t *testing.T) {
	require.Equal(t, 4*1024*1024, bodyLimit(0))
	require.Greater(t, bodyLimit(3<<20), 4<<20)
}

type sweepStub struct {
	usecase.AuthUsecaseInterface
	calls chan struct{}
}

func (s *sweepStub) SweepSessions(context.Context) (int, error) {
	s.calls <- struct{}{}
	return 1, nil
}

func TestSweepSessionsStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stub := &sweepStub{calls: make(chan struct{}, 16)}

	done := make(chan struct{})
	go func() {
		sweepSessions(ctx, zap.NewNop().Sugar(), stub, 5*time.Millisecond)
		close(done)
	}()

	select {
	case <-stub.calls:
	case <-time.After(time.Second):
		t.Fatal("sweeper never ran")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}
