// internal/config/config.go
//
// This package handles configuration and the .fairchance directory structure.
// Every project that uses fairchance gets a .fairchance/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kingrea/fair-chance/internal/flow"
	"github.com/kingrea/fair-chance/internal/record"
	"github.com/kingrea/fair-chance/internal/store"
)

const (
	// FairChanceDir is the name of the directory we create in each project
	FairChanceDir = ".fairchance"

	// EnvStoreBackend overrides store.backend from config.yaml.
	EnvStoreBackend = "FAIRCHANCE_STORE_BACKEND"

	defaultResponseDays  = record.MinResponseDays
	defaultSendDelay     = 1500 * time.Millisecond
	defaultResponseDelay = 5 * time.Second
	sqliteFileName       = "fairchance.db"
)

const defaultProjectConfigYAML = `# fairchance project configuration
version: 1

# Case to open when no --case flag is given.
case_id: default

# Where the case record is kept. backend is one of file, sqlite or redis.
store:
  backend: file
  # path: .fairchance/state/fairchance.db
  # redis_url: redis://localhost:6379/0

notice:
  response_days: 5
  send_delay: 1.5s
  response_delay: 5s

# Prefills the employer fields of the assessment and final notice.
employer:
  company: ""
  signer: ""
  address: ""
  phone: ""

print:
  # chrome_path: /usr/bin/chromium
`

// StoreConfig selects the case record backend.
type StoreConfig struct {
	Backend  string `yaml:"backend"`
	Path     string `yaml:"path,omitempty"`
	RedisURL string `yaml:"redis_url,omitempty"`
}

// NoticeConfig tunes notice delivery.
type NoticeConfig struct {
	ResponseDays  int           `yaml:"response_days"`
	SendDelay     time.Duration `yaml:"send_delay"`
	ResponseDelay time.Duration `yaml:"response_delay"`
}

// EmployerConfig holds employer details used as form defaults.
type EmployerConfig struct {
	Company string `yaml:"company"`
	Signer  string `yaml:"signer"`
	Address string `yaml:"address"`
	Phone   string `yaml:"phone"`
}

// PrintConfig configures PDF rendering.
type PrintConfig struct {
	ChromePath string `yaml:"chrome_path,omitempty"`
}

// ProjectConfig models .fairchance/config.yaml.
type ProjectConfig struct {
	Version  int            `yaml:"version"`
	CaseID   string         `yaml:"case_id"`
	Store    StoreConfig    `yaml:"store"`
	Notice   NoticeConfig   `yaml:"notice"`
	Employer EmployerConfig `yaml:"employer"`
	Print    PrintConfig    `yaml:"print"`
}

// Config holds the runtime configuration for fairchance.
type Config struct {
	// ProjectDir is the directory where the user ran `fairchance` from
	ProjectDir string

	// FairChanceProjectDir is ProjectDir/.fairchance
	FairChanceProjectDir string

	Project ProjectConfig
}

// InitFairChanceDir creates the .fairchance directory structure in the given
// project directory. This is called before any command runs.
//
// Structure created:
// .fairchance/
// ├── config.yaml
// ├── logs/    <- journey.log
// ├── state/   <- case records for the file and sqlite backends
// └── print/   <- letters written by the print action
func InitFairChanceDir(projectDir string) error {
	root := filepath.Join(projectDir, FairChanceDir)
	for _, dir := range []string{
		filepath.Join(root, "logs"),
		filepath.Join(root, "state"),
		filepath.Join(root, "print"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("config: ensure %s: %w", dir, err)
		}
	}
	return ensureProjectConfig(filepath.Join(root, "config.yaml"))
}

// NewConfig creates a new Config instance populated with project settings.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:           projectDir,
		FairChanceProjectDir: filepath.Join(projectDir, FairChanceDir),
		Project:              defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.FairChanceProjectDir, "logs")
}

// LogPath returns the journey log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "journey.log")
}

// StateDir returns the path to the state directory
func (c *Config) StateDir() string {
	return filepath.Join(c.FairChanceProjectDir, "state")
}

// PrintDir returns the directory printed letters are written to.
func (c *Config) PrintDir() string {
	return filepath.Join(c.FairChanceProjectDir, "print")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.FairChanceProjectDir, "config.yaml")
}

// CaseID returns the active case identifier.
func (c *Config) CaseID() string {
	return c.Project.CaseID
}

// SetCaseID switches the active case and persists the value back to
// .fairchance/config.yaml.
func (c *Config) SetCaseID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("config: case id is required")
	}
	c.Project.CaseID = id
	return c.saveProjectConfig()
}

// StoreOptions returns the backend selection for store.Open.
func (c *Config) StoreOptions() store.Options {
	return store.Options{
		Kind:     store.Kind(c.Project.Store.Backend),
		Path:     c.Project.Store.Path,
		RedisURL: c.Project.Store.RedisURL,
	}
}

// FlowDefaults returns the form defaults for the workflow.
func (c *Config) FlowDefaults() flow.Defaults {
	return flow.Defaults{
		ResponseDays:        c.Project.Notice.ResponseDays,
		EmployerName:        c.Project.Employer.Company,
		AssessmentPerformer: c.Project.Employer.Signer,
		EmployerAddress:     c.Project.Employer.Address,
		EmployerPhone:       c.Project.Employer.Phone,
	}
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed := defaultProjectConfig()
	if err == nil {
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	if backend := os.Getenv(EnvStoreBackend); backend != "" {
		parsed.Store.Backend = backend
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir, c.StateDir())
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		CaseID:  store.DefaultCaseID,
		Store:   StoreConfig{Backend: string(store.KindFile)},
		Notice: NoticeConfig{
			ResponseDays:  defaultResponseDays,
			SendDelay:     defaultSendDelay,
			ResponseDelay: defaultResponseDelay,
		},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
	if strings.TrimSpace(pc.CaseID) == "" {
		pc.CaseID = store.DefaultCaseID
	}
	if strings.TrimSpace(pc.Store.Backend) == "" {
		pc.Store.Backend = string(store.KindFile)
	}
	if pc.Notice.ResponseDays == 0 {
		pc.Notice.ResponseDays = defaultResponseDays
	}
	if pc.Notice.SendDelay == 0 {
		pc.Notice.SendDelay = defaultSendDelay
	}
	if pc.Notice.ResponseDelay == 0 {
		pc.Notice.ResponseDelay = defaultResponseDelay
	}
}

func (pc *ProjectConfig) normalize(base, stateDir string) {
	pc.CaseID = strings.TrimSpace(pc.CaseID)
	pc.Store.Backend = strings.ToLower(strings.TrimSpace(pc.Store.Backend))
	pc.Store.RedisURL = strings.TrimSpace(pc.Store.RedisURL)
	pc.Store.Path = resolvePath(base, pc.Store.Path)
	if pc.Store.Path == "" {
		switch store.Kind(pc.Store.Backend) {
		case store.KindFile:
			pc.Store.Path = stateDir
		case store.KindSQLite:
			pc.Store.Path = filepath.Join(stateDir, sqliteFileName)
		}
	}
	pc.Employer.Company = strings.TrimSpace(pc.Employer.Company)
	pc.Employer.Signer = strings.TrimSpace(pc.Employer.Signer)
	pc.Employer.Address = strings.TrimSpace(pc.Employer.Address)
	pc.Employer.Phone = strings.TrimSpace(pc.Employer.Phone)
	pc.Print.ChromePath = resolvePath(base, pc.Print.ChromePath)
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if pc.CaseID == "" {
		return fmt.Errorf("case_id is required")
	}
	switch store.Kind(pc.Store.Backend) {
	case store.KindFile, store.KindSQLite:
	case store.KindRedis:
		if pc.Store.RedisURL == "" {
			return fmt.Errorf("store.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("store.backend must be 'file', 'sqlite' or 'redis'")
	}
	if pc.Notice.ResponseDays < record.MinResponseDays {
		return fmt.Errorf("notice.response_days must be >= %d", record.MinResponseDays)
	}
	if pc.Notice.SendDelay < 0 || pc.Notice.ResponseDelay < 0 {
		return fmt.Errorf("notice delays must not be negative")
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize(c.ProjectDir, c.StateDir())
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.FairChanceProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure fairchance dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}
