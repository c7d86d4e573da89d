package storage

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/logging"
)

// RecoveryStatus represents the result of a database health check.
type RecoveryStatus struct {
	Healthy    bool      `json:"healthy"`
	LastCheck  time.Time `json:"last_check"`
	Checked    int       `json:"checked"`
	ErrorCount int       `json:"error_count"`
	Errors     []string  `json:"errors,omitempty"`
}

// maxIntegritySample bounds how many values CheckIntegrity reads.
const maxIntegritySample = 100

// CheckIntegrity reads a sample of stored values. It reports the first
// failure as ErrDatabaseCorrupted.
func (d *DB) CheckIntegrity() error {
	status := CheckDatabaseIntegrity(d)
	if status.Healthy {
		return nil
	}
	return errors.NewSystemErrorWithOp("integrity check", status.Errors[0], errors.ErrDatabaseCorrupted)
}

// CheckDatabaseIntegrity performs a basic integrity check on the database.
func CheckDatabaseIntegrity(db *DB) *RecoveryStatus {
	status := &RecoveryStatus{
		LastCheck: time.Now(),
		Healthy:   true,
	}

	if db == nil || db.db == nil {
		status.Healthy = false
		status.Errors = append(status.Errors, "database not initialized")
		return status
	}

	err := db.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 10
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid() && status.Checked < maxIntegritySample; it.Next() {
			item := it.Item()
			if err := item.Value(func([]byte) error { return nil }); err != nil {
				status.Errors = append(status.Errors, fmt.Sprintf("corrupted value at key: %s", item.Key()))
				status.ErrorCount++
			}
			status.Checked++
		}
		return nil
	})
	if err != nil {
		status.Errors = append(status.Errors, fmt.Sprintf("iteration error: %v", err))
		status.ErrorCount++
	}

	if status.ErrorCount > 0 {
		status.Healthy = false
		logging.Warn("database integrity check failed", logging.KeyCount, status.ErrorCount)
	}
	return status
}

// OpenWithIntegrityCheck opens the database and verifies it can be read.
func OpenWithIntegrityCheck(opts Options) (*DB, error) {
	db, err := Open(opts)
	if err != nil {
		return nil, err
	}
	if err := db.CheckIntegrity(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// IsDatabaseCorrupted checks if the given error indicates database corruption.
func IsDatabaseCorrupted(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, errors.ErrDatabaseCorrupted) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{
		"checksum mismatch",
		"corrupt",
		"unexpected eof",
		"bad magic",
		"truncated",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
