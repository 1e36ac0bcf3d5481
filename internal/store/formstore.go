package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/kingrea/fair-chance/internal/logbook"
	"github.com/kingrea/fair-chance/internal/record"
)

// StorageKey is the key of the default case.
const StorageKey = "fair-chance-assessment-data"

// DefaultCaseID names the case used when none is configured.
const DefaultCaseID = "default"

// Key returns the storage key for caseID.
func Key(caseID string) string {
	if caseID == "" || caseID == DefaultCaseID {
		return StorageKey
	}
	return StorageKey + "/" + caseID
}

// FormStore is the single-slot case record store for one case. It never
// returns errors: failures are logged and degrade to "no data".
type FormStore struct {
	backend Backend
	caseID  string
	log     logbook.Logger
	clock   func() time.Time
}

// Option configures a FormStore.
type Option func(*FormStore)

// WithLogger routes storage failures to log.
func WithLogger(log logbook.Logger) Option {
	return func(s *FormStore) {
		if log != nil {
			s.log = log
		}
	}
}

// WithClock sets the clock used for schema validation on read.
func WithClock(clock func() time.Time) Option {
	return func(s *FormStore) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewFormStore binds backend to caseID.
func NewFormStore(backend Backend, caseID string, opts ...Option) *FormStore {
	if caseID == "" {
		caseID = DefaultCaseID
	}
	s := &FormStore{
		backend: backend,
		caseID:  caseID,
		log:     logbook.Discard,
		clock:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// CaseID returns the case this store is bound to.
func (s *FormStore) CaseID() string {
	return s.caseID
}

// Save overwrites the stored record with rec.
func (s *FormStore) Save(ctx context.Context, rec record.CaseRecord) {
	data, err := json.Marshal(rec)
	if err != nil {
		s.log.Error("encode case %s: %v", s.caseID, err)
		return
	}
	if err := s.backend.Put(ctx, Key(s.caseID), data); err != nil {
		s.log.Error("save case %s: %v", s.caseID, err)
		return
	}
	s.log.Info("saved case %s", s.caseID)
}

// Load returns the stored record, or nil when it is absent, unreadable or
// fails schema validation.
func (s *FormStore) Load(ctx context.Context) *record.CaseRecord {
	data, err := s.backend.Get(ctx, Key(s.caseID))
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		s.log.Error("load case %s: %v", s.caseID, err)
		return nil
	}
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		s.log.Warn("discarding case %s: stored value is not an object", s.caseID)
		return nil
	}
	var rec record.CaseRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		s.log.Warn("discarding case %s: %v", s.caseID, err)
		return nil
	}
	if err := rec.Validate(s.clock()); err != nil {
		s.log.Warn("discarding case %s: %v", s.caseID, err)
		return nil
	}
	return &rec
}

// Clear removes the stored record.
func (s *FormStore) Clear(ctx context.Context) {
	if err := s.backend.Delete(ctx, Key(s.caseID)); err != nil {
		s.log.Error("clear case %s: %v", s.caseID, err)
		return
	}
	s.log.Info("cleared case %s", s.caseID)
}
