package database

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestConnectRequiresURL(t *testing.T) {
	_, err := Connect(context.Background(), Config{URL: "  "})
	if !errors.Is(err, ErrMissingDSN) {
		t.Fatalf("expected ErrMissingDSN, got %v", err)
	}
}

func TestConnectRejectsMalformedURL(t *testing.T) {
	_, err := Connect(context.Background(), Config{URL: "postgres://%zz"})
	if err == nil || !strings.Contains(err.Error(), "parse database url") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestSchemaStatementsAreIdempotent(t *testing.T) {
	for _, stmt := range schemaStatements {
		sql := strings.ToUpper(stmt.sql)
		if !strings.Contains(sql, "IF NOT EXISTS") && !strings.Contains(sql, "ON CONFLICT") {
			t.Fatalf("statement %s is not safe to rerun", stmt.name)
		}
	}
}

func TestConnectIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	pool, err := Connect(context.Background(), Config{URL: dsn})
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()
	if err := EnsureSchema(context.Background(), pool); err != nil {
		t.Fatalf("second schema pass: %v", err)
	}
}
