package recipe

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// ComponentMap is an ordered mapping from component name to an ordered list
// of display strings. Names keep the order in which they were first added.
type ComponentMap struct {
	names []string
	items map[string][]string
}

// Ensure adds name with no items if it is not present yet.
func (m *ComponentMap) Ensure(name string) {
	if m.items == nil {
		m.items = make(map[string][]string)
	}
	if _, ok := m.items[name]; !ok {
		m.names = append(m.names, name)
		m.items[name] = nil
	}
}

// Append adds items to the end of name's list.
func (m *ComponentMap) Append(name string, items ...string) {
	m.Ensure(name)
	m.items[name] = append(m.items[name], items...)
}

// Set replaces name's list. A name seen before keeps its position.
func (m *ComponentMap) Set(name string, items []string) {
	m.Ensure(name)
	m.items[name] = append([]string(nil), items...)
}

// Reset empties name's list, keeping its position.
func (m *ComponentMap) Reset(name string) {
	m.Set(name, nil)
}

// Compact drops every component without items.
func (m *ComponentMap) Compact() {
	kept := m.names[:0]
	for _, name := range m.names {
		if len(m.items[name]) == 0 {
			delete(m.items, name)
			continue
		}
		kept = append(kept, name)
	}
	m.names = kept
}

// Names returns the component names in order.
func (m ComponentMap) Names() []string {
	return append([]string(nil), m.names...)
}

// Get returns the items of a component.
func (m ComponentMap) Get(name string) []string {
	return m.items[name]
}

// Len is the number of components.
func (m ComponentMap) Len() int {
	return len(m.names)
}

// Count is the total number of items across all components.
func (m ComponentMap) Count() int {
	n := 0
	for _, name := range m.names {
		n += len(m.items[name])
	}
	return n
}

// Each calls fn for every component in order.
func (m ComponentMap) Each(fn func(name string, items []string)) {
	for _, name := range m.names {
		fn(name, m.items[name])
	}
}

// MarshalJSON encodes the map as an object, keys in insertion order.
func (m ComponentMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		items := m.items[name]
		if items == nil {
			items = []string{}
		}
		val, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object of string arrays, preserving key order.
// An empty array is accepted as an empty map.
func (m *ComponentMap) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid component map JSON")
	}
	*m = ComponentMap{}

	res := gjson.ParseBytes(data)
	switch {
	case res.Type == gjson.Null:
		return nil
	case res.IsArray():
		if len(res.Array()) > 0 {
			return fmt.Errorf("component map must be an object")
		}
		return nil
	case !res.IsObject():
		return fmt.Errorf("component map must be an object")
	}

	var err error
	res.ForEach(func(key, value gjson.Result) bool {
		if !value.IsArray() {
			err = fmt.Errorf("component %q must be an array", key.String())
			return false
		}
		m.Ensure(key.String())
		for _, item := range value.Array() {
			m.Append(key.String(), item.String())
		}
		return true
	})
	return err
}
