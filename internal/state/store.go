package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// Store loads and saves the state document
type Store struct {
	path   string
	logger *zap.Logger
	mu     sync.Mutex
}

// NewStore creates a store backed by the file at path
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Path returns the backing file path
func (s *Store) Path() string {
	return s.path
}

// Load reads the state. A missing file yields Default().
func (s *Store) Load() (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// Save writes the state atomically
func (s *Store) Save(st *State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.save(st)
}

// Update loads the state, applies fn and saves the result.
// Nothing is written when fn returns an error.
func (s *Store) Update(fn func(*State) error) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load()
	if err != nil {
		return nil, err
	}
	if err := fn(st); err != nil {
		return nil, err
	}
	if err := s.save(st); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Store) load() (*State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// Created on first save
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	st := Default()
	if err := json.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	if st.Version > CurrentVersion {
		return nil, fmt.Errorf("unsupported state version %d", st.Version)
	}

	s.logger.Debug("State loaded",
		zap.String("path", s.path),
		zap.Int("folders", len(st.Notepad.Folders)),
		zap.Int("notes", len(st.Notepad.Notes)),
		zap.Int("overrides", len(st.Calculator.Overrides)))

	return st, nil
}

func (s *Store) save(st *State) error {
	st.Version = CurrentVersion
	st.UpdatedAt = nowFunc().UTC()

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	if err := atomicWrite(s.path, data); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	s.logger.Info("State saved", zap.String("path", s.path))
	return nil
}
