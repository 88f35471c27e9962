// Package database persists finished scan snapshots to sqlite. It is
// an export target alongside the text reports, not resumable scan
// state: each run writes its outcome once.
package database

import (
	"github.com/pkg/errors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const InMemory = ":memory:"

type Store struct {
	db *gorm.DB
}

func Open(fpath string) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(fpath), &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database %s", fpath)
	}

	if err := db.AutoMigrate(&Run{}, &HostResult{}); err != nil {
		return nil, errors.Wrap(err, "failed to migrate result models")
	}
	return &Store{db: db}, nil
}

// WithTransaction runs fn inside a single transaction.
func (s *Store) WithTransaction(fn func(tx *gorm.DB) error) error {
	return s.db.Transaction(fn)
}
