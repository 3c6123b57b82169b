package main

import (
	"context"
	"fmt"

	"github.com/rivermin01/personal-study-guide/internal/config"
	"github.com/rivermin01/personal-study-guide/internal/repository"
	"github.com/rivermin01/personal-study-guide/pkg/supabase"
)

// newSessionStore opens the session store selected by store.driver
func newSessionStore(ctx context.Context, cfg config.StoreConfig) (repository.SessionStore, error) {
	switch cfg.Driver {
	case "", "memory":
		return repository.NewMemorySessionStore(), nil
	case "sqlite":
		store, err := repository.NewSQLiteSessionStore(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "supabase":
		client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
		return repository.NewSupabaseSessionStore(client, cfg.Supabase.Table), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
