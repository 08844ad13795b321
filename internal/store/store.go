package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Store is the client's local data directory (by default ~/.taskdeck).
type Store struct {
	Dir string
}

// Open resolves the config dir and returns a Store rooted there.
func Open() (Store, error) {
	dir, err := ConfigDir()
	if err != nil {
		return Store{}, err
	}
	return Store{Dir: dir}, nil
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store: missing dir")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sessionPath() string {
	return filepath.Join(s.Dir, "session.sqlite")
}
