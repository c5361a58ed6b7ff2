package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/readkeeper/internal/client/models"
	"github.com/dmitrijs2005/readkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/readkeeper/internal/dbx"
	"github.com/dmitrijs2005/readkeeper/internal/logging"
)

// DB is what the store needs from *sql.DB.
type DB interface {
	dbx.DBTX
	dbx.TxBeginner
}

// Store is the typed view over the metadata table.
type Store struct {
	db  DB
	log logging.Logger

	// newRepo binds a repository to a connection or a transaction.
	newRepo func(dbx.DBTX) metadata.Repository

	mu sync.Mutex
}

func NewStore(db DB, log logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		db:  db,
		log: log,
		newRepo: func(q dbx.DBTX) metadata.Repository {
			return metadata.NewSQLiteRepository(q)
		},
	}
}

// Load reads the current snapshot.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, s.newRepo(s.db))
}

// Update loads the snapshot, applies fn and persists the result in one
// transaction. Nothing is written when fn returns an error.
func (s *Store) Update(ctx context.Context, fn func(*Snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)
		snap, err := s.load(ctx, repo)
		if err != nil {
			return err
		}
		if err := fn(snap); err != nil {
			return err
		}
		return s.save(ctx, repo, snap)
	})
}

// Value returns a single raw value.
func (s *Store) Value(ctx context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newRepo(s.db).Get(ctx, key)
}

// SetValues writes several raw values atomically.
func (s *Store) SetValues(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)
		for k, v := range values {
			if err := repo.Set(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteValues removes keys atomically.
func (s *Store) DeleteValues(ctx context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.newRepo(tx)
		for _, k := range keys {
			if err := repo.Delete(ctx, k); err != nil {
				return err
			}
		}
		return nil
	})
}

// Clear wipes every key: cached collections, session and settings.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newRepo(s.db).Clear(ctx)
}

func (s *Store) load(ctx context.Context, repo metadata.Repository) (*Snapshot, error) {
	all, err := repo.List(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{}
	for _, c := range models.Collections {
		st := snap.state(c)
		st.Since = all[sinceKey(c)]

		if raw, ok := all[itemsKey(c)]; ok && raw != "" {
			if err := json.Unmarshal([]byte(raw), &st.Items); err != nil {
				// Without a cursor the next sync of c is a full one.
				s.log.Warn(ctx, "dropping unreadable cached collection", "collection", c, "err", err)
				st.Items = nil
				st.Since = ""
			}
		}

		if raw, ok := all[countKey(c)]; ok && raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				s.log.Warn(ctx, "ignoring unreadable count", "collection", c, "value", raw)
			} else {
				st.Count = n
			}
		}
	}

	if raw, ok := all[KeyTags]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &snap.Tags); err != nil {
			s.log.Warn(ctx, "ignoring unreadable tag index", "err", err)
			snap.Tags = nil
		}
	}
	return snap, nil
}

func (s *Store) save(ctx context.Context, repo metadata.Repository, snap *Snapshot) error {
	for _, c := range models.Collections {
		st := snap.state(c)

		if st.Since == "" && len(st.Items) == 0 {
			for _, k := range []string{itemsKey(c), sinceKey(c)} {
				if err := repo.Delete(ctx, k); err != nil {
					return err
				}
			}
		} else {
			items := st.Items
			if items == nil {
				items = []models.Item{}
			}
			data, err := json.Marshal(items)
			if err != nil {
				return fmt.Errorf("encode %s: %w", c, err)
			}
			if err := repo.Set(ctx, itemsKey(c), string(data)); err != nil {
				return err
			}
			if st.Since == "" {
				if err := repo.Delete(ctx, sinceKey(c)); err != nil {
					return err
				}
			} else if err := repo.Set(ctx, sinceKey(c), st.Since); err != nil {
				return err
			}
		}

		// A collection that was never loaded keeps its count key untouched.
		if st.Since == "" && len(st.Items) == 0 && st.Count == 0 {
			continue
		}
		if err := repo.Set(ctx, countKey(c), strconv.Itoa(st.Count)); err != nil {
			return err
		}
	}

	tags := snap.Tags
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("encode tags: %w", err)
	}
	return repo.Set(ctx, KeyTags, string(data))
}

var _ DB = (*sql.DB)(nil)
