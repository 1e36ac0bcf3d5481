package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/kingrea/fair-chance/internal/store"
)

func newTestConfig(t *testing.T, configYAML string) *Config {
	t.Helper()
	projectDir := t.TempDir()
	root := filepath.Join(projectDir, FairChanceDir)
	if err := os.MkdirAll(root, 0755); err != nil {
		t.Fatal(err)
	}
	if configYAML != "" {
		if err := os.WriteFile(filepath.Join(root, "config.yaml"), []byte(strings.TrimSpace(configYAML)), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return &Config{ProjectDir: projectDir, FairChanceProjectDir: root, Project: defaultProjectConfig()}
}

func TestLoadProjectConfigDefaultsWhenMissing(t *testing.T) {
	c := newTestConfig(t, "")
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.Project.Version != 1 || c.CaseID() != store.DefaultCaseID {
		t.Fatalf("unexpected defaults %+v", c.Project)
	}
	opts := c.StoreOptions()
	if opts.Kind != store.KindFile || opts.Path != c.StateDir() {
		t.Fatalf("expected file backend in state dir, got %+v", opts)
	}
	if c.Project.Notice.SendDelay != 1500*time.Millisecond || c.Project.Notice.ResponseDelay != 5*time.Second {
		t.Fatalf("unexpected delays %+v", c.Project.Notice)
	}
}

func TestInitFairChanceDirWritesParseableConfig(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitFairChanceDir(projectDir); err != nil {
		t.Fatalf("init: %v", err)
	}
	for _, dir := range []string{"logs", "state", "print"} {
		if info, err := os.Stat(filepath.Join(projectDir, FairChanceDir, dir)); err != nil || !info.IsDir() {
			t.Fatalf("missing %s dir: %v", dir, err)
		}
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.FlowDefaults().ResponseDays != 5 {
		t.Fatalf("response days = %d", cfg.FlowDefaults().ResponseDays)
	}
}

func TestLoadProjectConfigParsesYaml(t *testing.T) {
	c := newTestConfig(t, `
version: 1
case_id: jordan-reyes
store:
  backend: SQLite
  path: data/cases.db
notice:
  response_days: 7
  send_delay: 250ms
  response_delay: 2s
employer:
  company: Harbor Logistics
  signer: Pat Lee
  address: 400 Harbor Dr
  phone: 619-555-0100
`)
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("loadProjectConfig returned error: %v", err)
	}
	if c.CaseID() != "jordan-reyes" {
		t.Fatalf("case id = %q", c.CaseID())
	}
	opts := c.StoreOptions()
	if opts.Kind != store.KindSQLite || opts.Path != filepath.Join(c.ProjectDir, "data", "cases.db") {
		t.Fatalf("unexpected store options %+v", opts)
	}
	if c.Project.Notice.SendDelay != 250*time.Millisecond {
		t.Fatalf("send delay = %v", c.Project.Notice.SendDelay)
	}
	d := c.FlowDefaults()
	if d.ResponseDays != 7 || d.EmployerName != "Harbor Logistics" || d.AssessmentPerformer != "Pat Lee" || d.EmployerPhone != "619-555-0100" {
		t.Fatalf("unexpected flow defaults %+v", d)
	}
}

func TestSQLitePathDefaultsIntoStateDir(t *testing.T) {
	c := newTestConfig(t, "store:\n  backend: sqlite\n")
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := c.StoreOptions().Path; got != filepath.Join(c.StateDir(), "fairchance.db") {
		t.Fatalf("sqlite path = %s", got)
	}
}

func TestEnvOverridesBackend(t *testing.T) {
	t.Setenv(EnvStoreBackend, "redis")
	c := newTestConfig(t, "store:\n  backend: file\n  redis_url: redis://localhost:6379/0\n")
	if err := c.loadProjectConfig(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.StoreOptions().Kind != store.KindRedis {
		t.Fatalf("env override ignored: %+v", c.StoreOptions())
	}
}

func TestLoadProjectConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"unknown backend", "store:\n  backend: mongo\n"},
		{"redis without url", "store:\n  backend: redis\n"},
		{"short deadline", "notice:\n  response_days: 3\n"},
		{"negative delay", "notice:\n  send_delay: -1s\n"},
	}
	for _, tc := range cases {
		c := newTestConfig(t, tc.yaml)
		if err := c.loadProjectConfig(); err == nil {
			t.Fatalf("%s: expected validation error but got none", tc.name)
		}
	}
}

func TestSetCaseIDPersists(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitFairChanceDir(projectDir); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewConfig(projectDir)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.SetCaseID("  "); err == nil {
		t.Fatalf("expected error for blank case id")
	}
	if err := cfg.SetCaseID("case-42"); err != nil {
		t.Fatalf("set case id: %v", err)
	}
	reloaded, err := NewConfig(projectDir)
	if err != nil {
		t.Fatal(err)
	}
	if reloaded.CaseID() != "case-42" {
		t.Fatalf("case id not persisted, got %q", reloaded.CaseID())
	}
}
