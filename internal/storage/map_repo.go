package storage

import (
	"github.com/manav03panchal/mapundo/internal/errors"
	"github.com/manav03panchal/mapundo/internal/model"
	"github.com/manav03panchal/mapundo/internal/validate"
)

// MapRepo stores named scene snapshots.
type MapRepo struct {
	db *DB
}

// NewMapRepo creates a new map repository.
func NewMapRepo(db *DB) *MapRepo {
	return &MapRepo{db: db}
}

// Save stores nodes under name, replacing any map of the same name.
func (r *MapRepo) Save(name string, nodes []model.NodeRecord) (*model.MapDocument, error) {
	if err := validate.MapName(name); err != nil {
		return nil, err
	}
	doc := model.NewMapDocument(name, nodes)
	if err := r.db.Set(doc); err != nil {
		return nil, errors.NewSystemErrorWithOp("save map", "cannot write map", err)
	}
	return doc, nil
}

// Get retrieves a map by name.
func (r *MapRepo) Get(name string) (*model.MapDocument, error) {
	doc := &model.MapDocument{}
	if err := r.db.Get(model.GenerateMapKey(name), doc); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errors.UserErrorFrom(errors.ErrMapNotFound, "name", name)
		}
		return nil, err
	}
	return doc, nil
}

// Delete removes a map by name.
func (r *MapRepo) Delete(name string) error {
	exists, err := r.Exists(name)
	if err != nil {
		return err
	}
	if !exists {
		return errors.UserErrorFrom(errors.ErrMapNotFound, "name", name)
	}
	return r.db.Delete(model.GenerateMapKey(name))
}

// Rename moves the map oldName to newName. newName must not be taken.
func (r *MapRepo) Rename(oldName, newName string) (*model.MapDocument, error) {
	if err := validate.MapName(newName); err != nil {
		return nil, err
	}
	doc, err := r.Get(oldName)
	if err != nil {
		return nil, err
	}
	taken, err := r.Exists(newName)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errors.NewUserErrorWithField("name", newName, "map already exists", "Delete it first or pick another name")
	}

	doc.Name = newName
	doc.SetKey(model.GenerateMapKey(newName))
	if err := r.db.Move(model.GenerateMapKey(oldName), doc); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errors.UserErrorFrom(errors.ErrMapNotFound, "name", oldName)
		}
		return nil, errors.NewSystemErrorWithOp("rename map", "cannot write map", err)
	}
	return doc, nil
}

// DeleteAll removes every stored map and returns how many there were.
func (r *MapRepo) DeleteAll() (int, error) {
	n, err := r.db.DeleteByPrefix(model.PrefixMap + ":")
	if err != nil {
		return 0, errors.NewSystemErrorWithOp("delete maps", "cannot delete maps", err)
	}
	return n, nil
}

// List retrieves all maps in name order.
func (r *MapRepo) List() ([]*model.MapDocument, error) {
	return GetAllByPrefix(r.db, model.PrefixMap+":", func() *model.MapDocument {
		return &model.MapDocument{}
	})
}

// Names returns the names of all stored maps.
func (r *MapRepo) Names() ([]string, error) {
	keys, err := r.db.ListByPrefix(model.PrefixMap + ":")
	if err != nil {
		return nil, err
	}
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = model.MapNameFromKey(k)
	}
	return names, nil
}

// Exists checks if a map exists by name.
func (r *MapRepo) Exists(name string) (bool, error) {
	return r.db.Exists(model.GenerateMapKey(name))
}
