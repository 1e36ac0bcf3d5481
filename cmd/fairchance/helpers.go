package main

import (
	"context"
	"fmt"
	"os"

	"github.com/kingrea/fair-chance/internal/config"
	"github.com/kingrea/fair-chance/internal/logbook"
	"github.com/kingrea/fair-chance/internal/store"
)

func projectDir(flags *rootFlags) (string, error) {
	if flags.dir != "" {
		return flags.dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}

// session is an opened case outside the TUI.
type session struct {
	cfg     *config.Config
	backend store.Backend
	forms   *store.FormStore
	log     *logbook.Logbook
}

func openSession(ctx context.Context, flags *rootFlags) (*session, error) {
	dir, err := projectDir(flags)
	if err != nil {
		return nil, err
	}
	if err := config.InitFairChanceDir(dir); err != nil {
		return nil, fmt.Errorf("initialize .fairchance directory: %w", err)
	}
	cfg, err := config.NewConfig(dir)
	if err != nil {
		return nil, err
	}
	backend, err := store.Open(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, err
	}

	s := &session{cfg: cfg, backend: backend}
	var storeLog logbook.Logger = logbook.Discard
	if lb, err := logbook.New(cfg.LogPath()); err == nil {
		s.log = lb
		storeLog = lb.Scope("cli")
	}
	caseID := flags.caseID
	if caseID == "" {
		caseID = cfg.CaseID()
	}
	s.forms = store.NewFormStore(backend, caseID, store.WithLogger(storeLog))
	return s, nil
}

func (s *session) Close() error {
	return s.backend.Close()
}
