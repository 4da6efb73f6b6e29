package db

import (
	"context"
	"testing"
)

func TestNewPostgresPool_RejectsMalformedURL(t *testing.T) {
	_, err := NewPostgresPool(context.Background(),
		"postgres://localhost:5432/jobs?sslmode=bogus")
	if err == nil {
		t.Fatal("expected config parse error")
	}
}

func TestNewRedisClient_RejectsMalformedURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), "not-a-redis-url")
	if err == nil {
		t.Fatal("expected URL parse error")
	}
}
