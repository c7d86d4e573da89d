package model

import (
	"strings"
	"time"
)

// NodeRecord is the stored form of one scene node. Records are kept in
// pre-order, so a node's parent always precedes it.
type NodeRecord struct {
	ID        string            `json:"id"`
	Kind      string            `json:"kind"`
	Parent    string            `json:"parent,omitempty"`
	Spawnargs map[string]string `json:"spawnargs,omitempty"`
	Shader    string            `json:"shader,omitempty"`
}

// IsRoot returns true for the worldspawn record.
func (r NodeRecord) IsRoot() bool {
	return r.Parent == ""
}

// MapDocument is a named snapshot of a whole scene. Undo history is not
// part of it.
type MapDocument struct {
	Key     string       `json:"key"`
	Name    string       `json:"name"`
	Nodes   []NodeRecord `json:"nodes"`
	SavedAt time.Time    `json:"saved_at"`
}

// SetKey sets the database key for this map.
func (m *MapDocument) SetKey(key string) {
	m.Key = key
}

// GetKey returns the database key for this map.
func (m *MapDocument) GetKey() string {
	return m.Key
}

// NewMapDocument creates a map document keyed by name.
func NewMapDocument(name string, nodes []NodeRecord) *MapDocument {
	return &MapDocument{
		Key:     GenerateMapKey(name),
		Name:    name,
		Nodes:   nodes,
		SavedAt: time.Now(),
	}
}

// GenerateMapKey creates a database key for a map name.
func GenerateMapKey(name string) string {
	return PrefixMap + ":" + name
}

// MapNameFromKey extracts the map name from a database key.
func MapNameFromKey(key string) string {
	return strings.TrimPrefix(key, PrefixMap+":")
}
