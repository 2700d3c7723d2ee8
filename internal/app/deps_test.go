package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/aora/backend/internal/config"
)

type fakePool struct{}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (fakePool) Close() {}

func TestBuildDependencies(t *testing.T) {
	cfg := config.Config{
		ObjectStore: config.ObjectStoreConfig{
			Bucket:        "test-bucket",
			Endpoint:      "http://localhost:9000",
			Region:        "us-east-1",
			PublicBaseURL: "http://localhost:9000/test-bucket",
		},
		Auth: config.AuthConfig{
			AccessSecret: "test-secret",
			AccessTTL:    time.Minute,
			RefreshTTL:   time.Hour,
		},
	}

	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	deps, err := buildDependencies(context.Background(), fakePool{}, cfg, prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deps.Accounts == nil {
		t.Fatal("expected account repository to be configured")
	}
	if deps.Profiles == nil {
		t.Fatal("expected profile repository to be configured")
	}
	if deps.Sessions == nil {
		t.Fatal("expected session manager to be configured")
	}
	if deps.Videos == nil {
		t.Fatal("expected video repository to be configured")
	}
	if deps.Storage == nil {
		t.Fatal("expected asset storage to be configured")
	}
	if deps.Verifier == nil {
		t.Fatal("expected token verifier to be configured")
	}
	if deps.Limiter == nil {
		t.Fatal("expected rate limiter to be configured")
	}
	if deps.Metrics == nil {
		t.Fatal("expected metrics to be configured")
	}
}
