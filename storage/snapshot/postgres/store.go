package pgstore

import (
	"database/sql"
	"encoding/json"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/fabiopossato/F-bio/core"
	snapshotdb "github.com/fabiopossato/F-bio/storage/snapshot"
)

// Store persists the whole snapshot as a single jsonb row keyed by
// snapshotdb.StorageKey. Writes replace the row; the last writer wins.
type Store struct {
	db *sqlx.DB
}

var _ snapshotdb.Store = (*Store)(nil)

func open(conf *core.Config) (*sqlx.DB, error) {
	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     url.UserPassword(conf.Database.User, conf.Database.Password),
		Host:     conf.DatabaseAddress(),
		Path:     conf.Database.Name,
		RawQuery: q.Encode(),
	}
	return sqlx.Open(conf.Database.Engine, u.String())
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(time.Duration(attempts) * 100 * time.Millisecond)
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func Open(conf *core.Config) (*Store, error) {
	db, err := open(conf)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	if err = ping(db); err != nil {
		return nil, errors.Wrap(err, "pinging database")
	}
	s := &Store{db: db}
	if err = s.bootstrap(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) bootstrap() error {
	q := `
CREATE TABLE IF NOT EXISTS snapshots (
    key        text PRIMARY KEY,
    data       jsonb NOT NULL,
    updated_at timestamptz NOT NULL DEFAULT now()
)`
	if _, err := s.db.Exec(q); err != nil {
		return errors.Wrap(err, "creating snapshots table")
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Load() (snapshotdb.Snapshot, error) {
	var raw []byte
	err := s.db.Get(&raw, "SELECT data FROM snapshots WHERE key = $1", snapshotdb.StorageKey)
	if err == sql.ErrNoRows {
		snap := snapshotdb.Seed(time.Now())
		if err = s.Save(snap); err != nil {
			return snapshotdb.Snapshot{}, err
		}
		return snap, nil
	}
	if err != nil {
		return snapshotdb.Snapshot{}, errors.Wrap(err, "loading snapshot")
	}

	var snap snapshotdb.Snapshot
	if err = json.Unmarshal(raw, &snap); err != nil {
		return snapshotdb.Snapshot{}, errors.Wrap(err, "decoding snapshot")
	}
	snapshotdb.Backfill(&snap, time.Now())
	return snap, nil
}

func (s *Store) Save(snap snapshotdb.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "encoding snapshot")
	}
	q := `
INSERT INTO snapshots (key, data, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET data = EXCLUDED.data, updated_at = now()`
	if _, err = s.db.Exec(q, snapshotdb.StorageKey, raw); err != nil {
		return errors.Wrap(err, "saving snapshot")
	}
	return nil
}
