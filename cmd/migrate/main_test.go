package main

import (
	"strings"
	"testing"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		t.Fatalf("unexpected error loading embedded migrations: %v", err)
	}
	if len(migrations) != 2 {
		t.Fatalf("expected 2 migrations, got %d", len(migrations))
	}
	if migrations[0].Version != 1 || migrations[0].Name != "create_trade_logs" {
		t.Fatalf("unexpected first migration: %+v", migrations[0])
	}
	if migrations[1].Version != 2 || migrations[1].Name != "create_agent_memory" {
		t.Fatalf("unexpected second migration: %+v", migrations[1])
	}
	if migrations[0].UpSQL == "" || migrations[0].DownSQL == "" {
		t.Fatal("expected non-empty up/down sql for first migration")
	}
	if !strings.Contains(migrations[1].UpSQL, "VECTOR(384)") {
		t.Fatal("agent_memory migration must declare the 384-dim vector column")
	}
	if !strings.Contains(migrations[1].UpSQL, "CREATE EXTENSION IF NOT EXISTS vector") {
		t.Fatal("agent_memory migration must enable the vector extension")
	}
}
