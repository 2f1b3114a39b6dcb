package badger

import (
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/jobmatch/core"
	"github.com/poiesic/jobmatch/storage"
)

// SessionStore implements storage.SessionStore for BadgerDB.
type SessionStore struct {
	backend *Backend
}

var _ storage.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a new SessionStore.
func NewSessionStore(backend *Backend) (*SessionStore, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &SessionStore{backend: backend}, nil
}

// LoadSession retrieves a session by ID.
func (s *SessionStore) LoadSession(ctx context.Context, id string) (*core.Session, error) {
	if id == "" {
		return nil, core.ErrEmptySessionID
	}
	var session *core.Session
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSessionKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			session, unmarshalErr = storage.UnmarshalSession(val)
			return unmarshalErr
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// SaveSession validates and persists a session, stamping UpdatedAt.
func (s *SessionStore) SaveSession(ctx context.Context, session *core.Session) error {
	if err := core.ValidateSession(session); err != nil {
		return err
	}
	return s.backend.WithTx(func(tx *badger.Txn) error {
		session.UpdatedAt = time.Now().UTC()
		if err := tx.Set(makeSessionKey(session.ID), storage.MarshalSession(session)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// DeleteSession removes a session.
func (s *SessionStore) DeleteSession(ctx context.Context, id string) error {
	return s.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSessionKey(id)
		if _, err := tx.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
