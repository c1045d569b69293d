package subscribers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/buntdb"
)

// listKey is where the locally recorded emails live, as a JSON array.
const listKey = "subscribedEmails"

// Store persists emails whose subscription could not reach the CMS.
type Store struct {
	path string
	db   *buntdb.DB
}

// OpenStore opens (or creates) the buntdb file at path. ":memory:" keeps everything in memory.
func OpenStore(path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		path = ":memory:"
	}
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("subscribers: open %s: %w", path, err)
	}
	s := &Store{path: path, db: db}
	if path != ":memory:" {
		_ = db.Shrink()
	}
	return s, nil
}

// Close releases the underlying file.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// List returns every recorded email in insertion order.
func (s *Store) List() ([]string, error) {
	var emails []string
	err := s.db.View(func(tx *buntdb.Tx) error {
		var err error
		emails, err = readList(tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return emails, nil
}

// Contains reports whether email was recorded, ignoring case.
func (s *Store) Contains(email string) (bool, error) {
	emails, err := s.List()
	if err != nil {
		return false, err
	}
	return containsFold(emails, email), nil
}

// Append records email at the end of the list.
func (s *Store) Append(email string) error {
	return s.db.Update(func(tx *buntdb.Tx) error {
		emails, err := readList(tx)
		if err != nil {
			return err
		}
		emails = append(emails, email)
		jf, err := json.Marshal(emails)
		if err != nil {
			return err
		}
		_, _, err = tx.Set(listKey, string(jf), nil)
		return err
	})
}

func readList(tx *buntdb.Tx) ([]string, error) {
	val, err := tx.Get(listKey)
	if errors.Is(err, buntdb.ErrNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	emails := []string{}
	if err := json.Unmarshal([]byte(val), &emails); err != nil {
		return nil, fmt.Errorf("subscribers: decode %s: %w", listKey, err)
	}
	return emails, nil
}

func containsFold(list []string, email string) bool {
	for _, e := range list {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}
