package runstore

import (
	"sync"

	"github.com/google/uuid"
)

// Store keeps run records in memory. It is safe for concurrent use: runs
// append incrementally from their own goroutines while status pollers read.
type Store struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{records: make(map[string]*Record)}
}

// Create allocates a fresh run record for graphID in StatusRunning and
// returns a copy of it. Run IDs are collision-free within process lifetime.
func (s *Store) Create(graphID string) Record {
	rec := &Record{
		RunID:   uuid.NewString(),
		GraphID: graphID,
		Status:  StatusRunning,
	}

	s.mu.Lock()
	s.records[rec.RunID] = rec
	s.mu.Unlock()

	return rec.clone()
}

// Append adds a log entry to a running record. Appending to an unknown run
// returns *RunNotFoundError; appending to a sealed run returns
// *AlreadySealedError.
func (s *Store) Append(runID string, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[runID]
	if !ok {
		return &RunNotFoundError{RunID: runID}
	}
	if rec.Status != StatusRunning {
		return &AlreadySealedError{RunID: runID}
	}
	entry.Snapshot = entry.Snapshot.Clone()
	rec.Log = append(rec.Log, entry)
	return nil
}

// Seal sets the terminal status and final state or fault exactly once.
// Sealing twice is a programming error and returns *AlreadySealedError.
func (s *Store) Seal(runID string, outcome Outcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[runID]
	if !ok {
		return &RunNotFoundError{RunID: runID}
	}
	if rec.Status != StatusRunning {
		return &AlreadySealedError{RunID: runID}
	}
	rec.Status = outcome.Status
	if outcome.FinalState != nil {
		rec.FinalState = outcome.FinalState.Clone()
	}
	rec.Fault = outcome.Fault
	return nil
}

// Get returns a deep copy of the record for runID, which may still be
// running. Unknown IDs return *RunNotFoundError.
func (s *Store) Get(runID string) (Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[runID]
	if !ok {
		return Record{}, &RunNotFoundError{RunID: runID}
	}
	return rec.clone(), nil
}
