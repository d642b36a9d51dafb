package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coderhack/internal/entrypoint/httpapi"
	"coderhack/internal/infrastructure/repository/memrepo"
	"coderhack/internal/logging"
	"coderhack/internal/usecase"
)

func TestEnsureUser_AgainstServer(t *testing.T) {
	log := logging.Discard()
	uc := usecase.New(memrepo.New(), log)
	ts := httptest.NewServer(httpapi.New(uc, log))
	defer ts.Close()

	cfg := config{BaseURL: ts.URL, UserID: "seed01", Username: "Seeder", Score: 30, WaitLimit: 5 * time.Second}
	ctx := context.Background()

	require.NoError(t, waitForServer(ctx, cfg.BaseURL))
	require.NoError(t, ensureUser(ctx, cfg))
	// rerun hits "already exists" and still succeeds
	require.NoError(t, ensureUser(ctx, cfg))

	u, err := uc.GetUser(ctx, "seed01")
	require.NoError(t, err)
	assert.Equal(t, 30, u.Score)
	assert.Equal(t, []string{"CODE_CHAMP"}, u.Badges.Names())
}

func TestEnsureUser_RejectedScore(t *testing.T) {
	log := logging.Discard()
	ts := httptest.NewServer(httpapi.New(usecase.New(memrepo.New(), log), log))
	defer ts.Close()

	cfg := config{BaseURL: ts.URL, UserID: "seed01", Username: "Seeder", Score: 150}
	err := ensureUser(context.Background(), cfg)
	assert.ErrorContains(t, err, "400")
}

func TestWaitForServer_Timeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 700*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, waitForServer(ctx, ts.URL), context.DeadlineExceeded)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api:8080/")
	t.Setenv("SEED_SCORE", "77")
	t.Setenv("SEED_USER_ID", "")

	cfg := loadConfig()
	assert.Equal(t, "http://api:8080", cfg.BaseURL)
	assert.Equal(t, 77, cfg.Score)
	assert.Equal(t, defaultUserID, cfg.UserID)
}
