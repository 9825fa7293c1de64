package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"juros/internal/config"
	"juros/internal/rates"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{RatesBackend: "sqlite", SQLiteDBPath: "x.db", RatesCacheTTL: time.Minute}
	got, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if got.Type != SQLiteBackend || got.SQLiteDBPath != "x.db" || got.CacheTTL != time.Minute {
		t.Errorf("FromAppConfig() = %+v", got)
	}

	if _, err := FromAppConfig(&config.Config{RatesBackend: "sheets"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
}

func TestCreateBackend(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	tests := []struct {
		name       string
		config     Config
		wantCached bool
		wantPing   bool
	}{
		{name: "memory", config: Config{Type: MemoryBackend}},
		{name: "memory cached", config: Config{Type: MemoryBackend, CacheTTL: time.Minute}, wantCached: true},
		{
			name:     "sqlite",
			config:   Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(t.TempDir(), "juros.db")},
			wantPing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.CreateBackend(ctx, tt.config)
			if err != nil {
				t.Fatalf("CreateBackend() error = %v", err)
			}
			if res.Cleanup != nil {
				defer res.Cleanup()
			}

			_, cached := res.Catalog.(*rates.CachedCatalog)
			if cached != tt.wantCached {
				t.Errorf("cached = %v, want %v", cached, tt.wantCached)
			}
			if (res.Ping != nil) != tt.wantPing {
				t.Errorf("ping set = %v, want %v", res.Ping != nil, tt.wantPing)
			}

			list, err := res.Catalog.List(ctx)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if len(list) != 4 {
				t.Errorf("List() returned %d rates, want 4", len(list))
			}
		})
	}
}

func TestCreateBackend_InvalidConfig(t *testing.T) {
	f := NewFactory(nil)
	if _, err := f.CreateBackend(context.Background(), Config{Type: SQLiteBackend}); err == nil {
		t.Error("expected error for sqlite without path")
	}
	if _, err := f.CreateBackend(context.Background(), Config{Type: "sheets"}); err == nil {
		t.Error("expected error for unknown type")
	}
}
