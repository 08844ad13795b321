package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"taskdeck-cli/internal/model"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

const (
	keyToken  = "userToken"
	keyUserID = "userId"
)

var ErrInvalidSession = errors.New("session requires both token and user id")

// SessionStore persists the authenticated session in a small SQLite key-value table.
//
// It is the only component that reads or writes the session keys.
type SessionStore struct {
	store Store
	log   zerolog.Logger
}

func (s Store) Sessions(log zerolog.Logger) *SessionStore {
	return &SessionStore{store: s, log: log.With().Str("component", "session").Logger()}
}

func (s *SessionStore) open(ctx context.Context) (*sql.DB, error) {
	if err := s.store.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.store.sessionPath())
	if err != nil {
		return nil, err
	}
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS kv (
		k TEXT PRIMARY KEY,
		v TEXT NOT NULL
	);`); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Load returns the persisted session. Any storage failure is treated as "no session":
// the caller routes to the login screen instead of failing.
func (s *SessionStore) Load(ctx context.Context) (model.Session, bool) {
	db, err := s.open(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("session store unavailable; treating as signed out")
		return model.Session{}, false
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT k, v FROM kv WHERE k IN (?, ?)`, keyToken, keyUserID)
	if err != nil {
		s.log.Warn().Err(err).Msg("session read failed; treating as signed out")
		return model.Session{}, false
	}
	defer rows.Close()

	var sess model.Session
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			s.log.Warn().Err(err).Msg("session row unreadable; treating as signed out")
			return model.Session{}, false
		}
		switch k {
		case keyToken:
			sess.Token = v
		case keyUserID:
			sess.UserID = v
		}
	}
	if err := rows.Err(); err != nil {
		s.log.Warn().Err(err).Msg("session read failed; treating as signed out")
		return model.Session{}, false
	}
	if !sess.Valid() {
		return model.Session{}, false
	}
	return sess, true
}

// Save writes token and user id in one transaction so readers never observe half a session.
func (s *SessionStore) Save(ctx context.Context, sess model.Session) error {
	sess.Token = strings.TrimSpace(sess.Token)
	sess.UserID = strings.TrimSpace(sess.UserID)
	if sess.Token == "" || sess.UserID == "" {
		return ErrInvalidSession
	}

	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, kv := range [][2]string{{keyToken, sess.Token}, {keyUserID, sess.UserID}} {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO kv(k, v) VALUES(?, ?)`, kv[0], kv[1]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debug().Str("userId", sess.UserID).Msg("session saved")
	return nil
}

// Clear removes the session so that a subsequent Load reports absent.
func (s *SessionStore) Clear(ctx context.Context) error {
	db, err := s.open(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE k IN (?, ?)`, keyToken, keyUserID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.Debug().Msg("session cleared")
	return nil
}
