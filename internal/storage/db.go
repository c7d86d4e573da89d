// Package storage provides the database layer for mapundo.
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	badger "github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/logging"
)

const (
	// AppName is the application name used for data directories.
	AppName = "mapundo"
)

// DB wraps a Badger database connection.
type DB struct {
	db   *badger.DB
	path string
}

// Options configures the database connection.
type Options struct {
	// Path is the database directory path. Empty string uses in-memory mode.
	Path string
	// InMemory forces in-memory mode regardless of Path.
	InMemory bool
}

// DefaultPath returns the database path under the XDG data directory.
func DefaultPath() string {
	return filepath.Join(xdg.DataHome, AppName, "db")
}

// Open opens or creates a database at the given path.
func Open(opts Options) (*DB, error) {
	var badgerOpts badger.Options
	path := ""

	if opts.InMemory || opts.Path == "" {
		badgerOpts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, 0755); err != nil {
			return nil, errors.NewSystemErrorWithOp("open", "cannot create database directory", err)
		}
		badgerOpts = badger.DefaultOptions(opts.Path)
		path = opts.Path
	}

	badgerOpts = badgerOpts.WithLogger(badgerLogger{}).WithLoggingLevel(badger.WARNING)

	db, err := badger.Open(badgerOpts)
	if err != nil {
		if IsDatabaseCorrupted(err) {
			return nil, errors.NewSystemErrorWithOp("open", "database is corrupted", fmt.Errorf("%w: %w", errors.ErrDatabaseCorrupted, err))
		}
		return nil, errors.NewSystemErrorWithOp("open", "cannot open database", err)
	}

	return &DB{db: db, path: path}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Path returns the database directory, empty for in-memory databases.
func (d *DB) Path() string {
	return d.path
}

// badgerLogger sends badger's own messages to the package logger.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	logging.Logger().Error(badgerMessage(format, args), "component", "badger")
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	logging.Warn(badgerMessage(format, args), "component", "badger")
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	logging.Info(badgerMessage(format, args), "component", "badger")
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	logging.DebugLog(badgerMessage(format, args), "component", "badger")
}

func badgerMessage(format string, args []interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(format, args...))
}
