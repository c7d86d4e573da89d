package output

import (
	"sort"

	"github.com/manav03panchal/mapundo/internal/model"
)

// recordDepths returns the depth of every record, keyed by ID. Records are
// in pre-order, so a parent is always seen before its children.
func recordDepths(records []model.NodeRecord) map[string]int {
	depths := make(map[string]int, len(records))
	for _, r := range records {
		if r.IsRoot() {
			depths[r.ID] = 0
			continue
		}
		depths[r.ID] = depths[r.Parent] + 1
	}
	return depths
}

// RecordLabel returns the short description of a record: the classname
// (and name) of an entity, or the shader of a primitive.
func RecordLabel(r model.NodeRecord) string {
	if r.Kind == "entity" {
		label := r.Spawnargs["classname"]
		if name, ok := r.Spawnargs["name"]; ok {
			label += " " + name
		}
		return label
	}
	return r.Shader
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
