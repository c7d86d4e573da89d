package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewMapDocument(t *testing.T) {
	before := time.Now()
	doc := NewMapDocument("base", []NodeRecord{{ID: "worldspawn", Kind: "entity"}})

	assert.Equal(t, "map:base", doc.Key)
	assert.Equal(t, "base", doc.Name)
	assert.Len(t, doc.Nodes, 1)
	assert.False(t, doc.SavedAt.Before(before))
}

func TestMapDocumentSetGetKey(t *testing.T) {
	doc := &MapDocument{}
	doc.SetKey("map:other")
	assert.Equal(t, "map:other", doc.GetKey())
}

func TestMapKeys(t *testing.T) {
	assert.Equal(t, "map:e1m1", GenerateMapKey("e1m1"))
	assert.Equal(t, "e1m1", MapNameFromKey("map:e1m1"))
	assert.Equal(t, "plain", MapNameFromKey("plain"))
}

func TestNodeRecordIsRoot(t *testing.T) {
	assert.True(t, NodeRecord{ID: "worldspawn"}.IsRoot())
	assert.False(t, NodeRecord{ID: "n1", Parent: "worldspawn"}.IsRoot())
}
