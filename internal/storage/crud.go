package storage

import (
	"encoding/json"
	stderrors "errors"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/manav03panchal/mapundo/internal/model"
)

// ErrKeyNotFound is returned when a key is not in the database.
var ErrKeyNotFound = stderrors.New("key not found")

// IsErrKeyNotFound reports whether err means a missing key.
func IsErrKeyNotFound(err error) bool {
	return stderrors.Is(err, ErrKeyNotFound) || stderrors.Is(err, badger.ErrKeyNotFound)
}

// decode unmarshals the value of item into v and stamps v with its key.
func decode(item *badger.Item, v model.Model) error {
	return item.Value(func(val []byte) error {
		if err := json.Unmarshal(val, v); err != nil {
			return err
		}
		v.SetKey(string(item.KeyCopy(nil)))
		return nil
	})
}

// lookup returns the item for key, mapping badger's miss to ErrKeyNotFound.
func lookup(txn *badger.Txn, key string) (*badger.Item, error) {
	item, err := txn.Get([]byte(key))
	if stderrors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrKeyNotFound
	}
	return item, err
}

// Get loads the value stored under key into v.
func (d *DB) Get(key string, v model.Model) error {
	return d.db.View(func(txn *badger.Txn) error {
		item, err := lookup(txn, key)
		if err != nil {
			return err
		}
		return decode(item, v)
	})
}

// Set stores v under its own key.
func (d *DB) Set(v model.Model) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(v.GetKey()), data)
	})
}

// Move stores v under its key and deletes oldKey in one transaction.
// It fails with ErrKeyNotFound if oldKey is missing.
func (d *DB) Move(oldKey string, v model.Model) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return d.db.Update(func(txn *badger.Txn) error {
		if _, err := lookup(txn, oldKey); err != nil {
			return err
		}
		if err := txn.Delete([]byte(oldKey)); err != nil {
			return err
		}
		return txn.Set([]byte(v.GetKey()), data)
	})
}

// Delete removes key. Deleting a missing key is not an error.
func (d *DB) Delete(key string) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// DeleteByPrefix removes every key with prefix and returns how many
// were removed.
func (d *DB) DeleteByPrefix(prefix string) (int, error) {
	keys, err := d.ListByPrefix(prefix)
	if err != nil {
		return 0, err
	}

	wb := d.db.NewWriteBatch()
	for _, k := range keys {
		if err := wb.Delete([]byte(k)); err != nil {
			wb.Cancel()
			return 0, err
		}
	}
	if err := wb.Flush(); err != nil {
		return 0, err
	}
	return len(keys), nil
}

// Exists reports whether key is stored.
func (d *DB) Exists(key string) (bool, error) {
	err := d.db.View(func(txn *badger.Txn) error {
		_, err := lookup(txn, key)
		return err
	})
	if stderrors.Is(err, ErrKeyNotFound) {
		return false, nil
	}
	return err == nil, err
}

// ListByPrefix returns the keys with prefix in key order.
func (d *DB) ListByPrefix(prefix string) ([]string, error) {
	var keys []string
	err := d.scan(prefix, false, func(item *badger.Item) error {
		keys = append(keys, string(item.KeyCopy(nil)))
		return nil
	})
	return keys, err
}

// GetAllByPrefix decodes every value with prefix, in key order.
func GetAllByPrefix[T model.Model](d *DB, prefix string, newFunc func() T) ([]T, error) {
	var results []T
	err := d.scan(prefix, true, func(item *badger.Item) error {
		v := newFunc()
		if err := decode(item, v); err != nil {
			return err
		}
		results = append(results, v)
		return nil
	})
	return results, err
}

// scan calls fn for each item under prefix.
func (d *DB) scan(prefix string, values bool, fn func(*badger.Item) error) error {
	return d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = values
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := fn(it.Item()); err != nil {
				return err
			}
		}
		return nil
	})
}
