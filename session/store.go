// Copyright 2026 The PkgDB Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/packagedb/pkgdb-go/lib/secret"
)

// ErrNotFound reports that a store holds no credential for the requested
// username. A missing credential is a normal outcome — the client starts
// unauthenticated — but it is distinct from a read failure, which the
// client logs before degrading to the same state.
var ErrNotFound = errors.New("session: no stored credential")

// Store persists session credentials between invocations, keyed by
// username. Load returns ErrNotFound when no credential exists for the
// username; any other error means the record could not be read. The
// client treats every Store failure as non-fatal, so implementations
// should return errors rather than log them.
type Store interface {
	Load(username string) (*Credential, error)
	Save(username string, credential *Credential) error
}

// FileStore keeps the credentials of all usernames in a single JSON record
// file with owner-only permissions. Each save rewrites the whole record,
// preserving entries for other usernames; a record that cannot be read at
// save time starts over empty rather than failing the save.
//
// The record file is shared, unsynchronized state: concurrent processes
// writing it race and the last writer wins. Callers needing stronger
// guarantees must serialize access themselves.
type FileStore struct {
	path string
}

// NewFileStore returns a store backed by the record file at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultStorePath returns the session record path used when nothing more
// specific is configured. Checks the PKGDB_SESSION_FILE environment
// variable first, then falls back to ~/.config/pkgdb/session.json
// (honoring XDG_CONFIG_HOME).
func DefaultStorePath() string {
	if envPath := os.Getenv("PKGDB_SESSION_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			// Fallback — this should rarely happen.
			return filepath.Join("/tmp", "pkgdb-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "pkgdb", "session.json")
}

// Path returns the record file path the store was created with.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements Store.
func (s *FileStore) Load(username string) (*Credential, error) {
	record, err := s.readRecord()
	if err != nil {
		return nil, err
	}
	credential, ok := record[username]
	if !ok || credential.Empty() {
		return nil, ErrNotFound
	}
	return credential.Clone(), nil
}

// Save implements Store. The parent directory is created with mode 0700 if
// it does not exist; the record file is written with mode 0600, re-applied
// on every save so a pre-existing wider mode gets tightened.
func (s *FileStore) Save(username string, credential *Credential) error {
	record, err := s.readRecord()
	if err != nil {
		// Unreadable or absent record: start a fresh one. Sessions for
		// other usernames in a corrupt record are already lost.
		record = make(map[string]*Credential)
	}
	record[username] = credential.Clone()
	return s.writeRecord(record)
}

// Delete removes the username's entry from the record, leaving other
// entries in place. Deleting an entry that does not exist is not an error.
// Not part of the Store interface — the client never deletes; only the
// CLI's logout path does.
func (s *FileStore) Delete(username string) error {
	record, err := s.readRecord()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}
	if _, ok := record[username]; !ok {
		return nil
	}
	delete(record, username)
	return s.writeRecord(record)
}

// readRecord parses the whole record file. Returns ErrNotFound when the
// file does not exist.
func (s *FileStore) readRecord() (map[string]*Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: reading record file %s: %w", s.path, err)
	}

	record := make(map[string]*Credential)
	parseError := json.Unmarshal(data, &record)
	secret.Zero(data)
	if parseError != nil {
		return nil, fmt.Errorf("session: parsing record file %s: %w", s.path, parseError)
	}
	return record, nil
}

func (s *FileStore) writeRecord(record map[string]*Credential) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("session: encoding session record: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(s.path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		secret.Zero(data)
		return fmt.Errorf("session: creating record directory %s: %w", directory, err)
	}

	writeError := os.WriteFile(s.path, data, 0600)
	secret.Zero(data)
	if writeError != nil {
		return fmt.Errorf("session: writing record file %s: %w", s.path, writeError)
	}

	// WriteFile's mode applies only when it creates the file.
	if err := os.Chmod(s.path, 0600); err != nil {
		return fmt.Errorf("session: restricting record file %s: %w", s.path, err)
	}
	return nil
}

// MemoryStore is an in-memory Store for tests and for clients that must
// not touch the filesystem. The zero value is ready to use. Unlike the
// client itself, a MemoryStore is safe for concurrent use, so one store
// can back several clients.
type MemoryStore struct {
	mu          sync.Mutex
	credentials map[string]*Credential
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load implements Store.
func (s *MemoryStore) Load(username string) (*Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	credential, ok := s.credentials[username]
	if !ok || credential.Empty() {
		return nil, ErrNotFound
	}
	return credential.Clone(), nil
}

// Save implements Store.
func (s *MemoryStore) Save(username string, credential *Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.credentials == nil {
		s.credentials = make(map[string]*Credential)
	}
	s.credentials[username] = credential.Clone()
	return nil
}

// Delete removes the username's entry. Absent entries are not an error.
func (s *MemoryStore) Delete(username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.credentials, username)
	return nil
}
