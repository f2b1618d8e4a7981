package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"

	"mise/internal/recipe"
)

// Map is an ordered mapping from canonical marker to the steps of each
// component at that point of the timeline.
type Map struct {
	markers []string
	steps   map[string]*recipe.ComponentMap
}

// At returns the component map for marker, creating it if needed.
func (m *Map) At(marker string) *recipe.ComponentMap {
	if m.steps == nil {
		m.steps = make(map[string]*recipe.ComponentMap)
	}
	cm, ok := m.steps[marker]
	if !ok {
		cm = &recipe.ComponentMap{}
		m.steps[marker] = cm
		m.markers = append(m.markers, marker)
	}
	return cm
}

// Append adds steps for a component at marker.
func (m *Map) Append(marker, component string, steps ...string) {
	m.At(marker).Append(component, steps...)
}

// Markers returns the markers in insertion order.
func (m Map) Markers() []string {
	return append([]string(nil), m.markers...)
}

// Get returns the components at marker.
func (m Map) Get(marker string) recipe.ComponentMap {
	if cm, ok := m.steps[marker]; ok {
		return *cm
	}
	return recipe.ComponentMap{}
}

// Len is the number of markers.
func (m Map) Len() int {
	return len(m.markers)
}

// Count is the total number of steps.
func (m Map) Count() int {
	n := 0
	for _, marker := range m.markers {
		n += m.steps[marker].Count()
	}
	return n
}

// Compact drops components without steps, then markers without components.
func (m *Map) Compact() {
	kept := m.markers[:0]
	for _, marker := range m.markers {
		cm := m.steps[marker]
		cm.Compact()
		if cm.Len() == 0 {
			delete(m.steps, marker)
			continue
		}
		kept = append(kept, marker)
	}
	m.markers = kept
}

// MarshalJSON encodes the timeline as a two-level object in insertion order.
func (m Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, marker := range m.markers {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(marker)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(m.steps[marker])
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

// UnmarshalJSON decodes a timeline object, preserving marker order.
func (m *Map) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("invalid timeline JSON")
	}
	*m = Map{}

	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null || (res.IsArray() && len(res.Array()) == 0) {
		return nil
	}
	if !res.IsObject() {
		return fmt.Errorf("timeline must be an object")
	}

	var err error
	res.ForEach(func(key, value gjson.Result) bool {
		if err = m.At(key.String()).UnmarshalJSON([]byte(value.Raw)); err != nil {
			err = fmt.Errorf("marker %q: %w", key.String(), err)
			return false
		}
		return true
	})
	return err
}
