package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"coderhack/internal/logging"
)

const (
	defaultBaseURL   = "http://localhost:8080"
	defaultUserID    = "user123"
	defaultUsername  = "John Doe"
	defaultScore     = 45
	defaultWaitLimit = 30 * time.Second
)

type config struct {
	BaseURL   string
	UserID    string
	Username  string
	Score     int
	WaitLimit time.Duration
}

func main() {
	log := logging.New("info")
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.WaitLimit)
	defer cancel()

	if err := waitForServer(ctx, cfg.BaseURL); err != nil {
		log.Fatalf("server is not ready: %v", err)
	}

	if err := ensureUser(ctx, cfg); err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}

	log.WithField("user_id", cfg.UserID).WithField("score", cfg.Score).Info("seed completed")
}

func loadConfig() config {
	cfg := config{
		BaseURL:   defaultBaseURL,
		UserID:    defaultUserID,
		Username:  defaultUsername,
		Score:     defaultScore,
		WaitLimit: defaultWaitLimit,
	}

	if v, ok := lookupEnv("API_BASE_URL"); ok {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v, ok := lookupEnv("SEED_USER_ID"); ok {
		cfg.UserID = v
	}
	if v, ok := lookupEnv("SEED_USERNAME"); ok {
		cfg.Username = v
	}
	if v, ok := lookupEnv("SEED_SCORE"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Score = n
		}
	}
	if v, ok := lookupEnv("SEED_WAIT_LIMIT"); ok {
		d, err := time.ParseDuration(v)
		if err == nil && d > 0 {
			cfg.WaitLimit = d
		}
	}

	return cfg
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

func waitForServer(ctx context.Context, baseURL string) error {
	client := &http.Client{Timeout: 2 * time.Second}
	url := fmt.Sprintf("%s/healthz", strings.TrimRight(baseURL, "/"))
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := client.Do(req)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func ensureUser(ctx context.Context, cfg config) error {
	client := &http.Client{Timeout: 5 * time.Second}

	if err := registerUser(ctx, client, cfg); err != nil {
		return errors.Wrap(err, "register")
	}
	if err := updateScore(ctx, client, cfg); err != nil {
		return errors.Wrap(err, "update score")
	}
	return nil
}

// registerUser treats "already exists" as success so the seed can be rerun.
func registerUser(ctx context.Context, client *http.Client, cfg config) error {
	endpoint := fmt.Sprintf("%s/users", strings.TrimRight(cfg.BaseURL, "/"))
	body := struct {
		UserID   string `json:"userId"`
		Username string `json:"username"`
	}{cfg.UserID, cfg.Username}

	buf, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated:
		return nil
	case http.StatusBadRequest:
		var msg string
		if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
			return errors.New("unexpected registration failure with status 400")
		}
		if strings.HasSuffix(msg, "already exists") {
			return nil
		}
		return errors.Errorf("registration failed: %s", msg)
	default:
		return unexpectedStatus(resp)
	}
}

func updateScore(ctx context.Context, client *http.Client, cfg config) error {
	endpoint := fmt.Sprintf("%s/users/%s?score=%d", strings.TrimRight(cfg.BaseURL, "/"), url.PathEscape(cfg.UserID), cfg.Score)

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return nil
	}
	return unexpectedStatus(resp)
}

func unexpectedStatus(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return errors.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
}
