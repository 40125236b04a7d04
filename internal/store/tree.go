package store

import (
	"encoding/json"
	"strings"
)

// tree is a mutable JSON document with Realtime Database write semantics:
// put replaces the subtree at a path, patch merges direct children, and
// writing null removes the record and any emptied ancestors.
type tree struct {
	root interface{}
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func (t *tree) put(path string, value interface{}) {
	segs := splitPath(path)
	if len(segs) == 0 {
		t.root = value
		return
	}
	t.root = putAt(t.root, segs, value)
}

func putAt(node interface{}, segs []string, value interface{}) interface{} {
	m, ok := node.(map[string]interface{})
	if !ok {
		m = make(map[string]interface{})
	}
	key := segs[0]
	if len(segs) == 1 {
		if value == nil {
			delete(m, key)
		} else {
			m[key] = value
		}
	} else {
		child := putAt(m[key], segs[1:], value)
		if child == nil {
			delete(m, key)
		} else {
			m[key] = child
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

func (t *tree) patch(path string, fields map[string]interface{}) {
	for k, v := range fields {
		if path == "" {
			t.put(k, v)
		} else {
			t.put(path+"/"+k, v)
		}
	}
}

func (t *tree) get(path string) interface{} {
	node := t.root
	for _, seg := range splitPath(path) {
		m, ok := node.(map[string]interface{})
		if !ok {
			return nil
		}
		node = m[seg]
	}
	return node
}

// marshal renders the subtree at path as JSON. Absent records render as
// null, matching what the backend returns for missing paths.
func (t *tree) marshal(path string) json.RawMessage {
	b, err := json.Marshal(t.get(path))
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}
