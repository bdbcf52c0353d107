// SPDX-FileCopyrightText: 2025 SAP SE or an SAP affiliate company and Gardener contributors
//
// SPDX-License-Identifier: Apache-2.0

package awsprice

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
)

// OrderedMap is a JSON object with string keys that remembers the order in which its keys were
// decoded or set. A nil *OrderedMap behaves like an empty map for reads.
type OrderedMap[V any] struct {
	values map[string]V
	keys   []string
}

// NewOrderedMap returns an OrderedMap holding the given key/value pairs in argument order.
// It panics if kvs does not alternate string keys and V values.
func NewOrderedMap[V any](kvs ...any) *OrderedMap[V] {
	m := &OrderedMap[V]{}
	for i := 0; i+1 < len(kvs); i += 2 {
		m.Set(kvs[i].(string), kvs[i+1].(V))
	}
	return m
}

// Len returns the number of entries.
func (m *OrderedMap[V]) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Keys returns the keys in order.
func (m *OrderedMap[V]) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// Get returns the value stored under key.
func (m *OrderedMap[V]) Get(key string) (v V, ok bool) {
	if m == nil {
		return
	}
	v, ok = m.values[key]
	return
}

// At returns the i-th entry. It panics if i is out of range.
func (m *OrderedMap[V]) At(i int) (string, V) {
	k := m.keys[i]
	return k, m.values[k]
}

// Set stores v under key. A new key is appended to the key order, an existing key keeps its position.
func (m *OrderedMap[V]) Set(key string, v V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// All iterates over the entries in order.
func (m *OrderedMap[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m == nil {
			return
		}
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// Values returns the values in order.
func (m *OrderedMap[V]) Values() []V {
	values := make([]V, 0, m.Len())
	for _, v := range m.All() {
		values = append(values, v)
	}
	return values
}

// UnmarshalJSON decodes a JSON object keeping the order of its keys. JSON null leaves an empty map.
func (m *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	m.keys = nil
	m.values = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	m.values = make(map[string]V)
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var v V
		if err = dec.Decode(&v); err != nil {
			return fmt.Errorf("cannot decode value of %q: %w", key, err)
		}
		m.Set(key, v)
	}
	_, err = dec.Token()
	return err
}

// MarshalJSON encodes the map as a JSON object with keys in order.
func (m OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
