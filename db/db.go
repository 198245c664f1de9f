package db

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"sync"
)

// Collection names used across the service.
const (
	Gyms      = "gyms"
	Trainings = "trainings"
	Customers = "customers"
	Purchases = "purchases"
)

// Document is a loosely typed record. Shape is validated at the operation
// boundary (the mutation resolvers), never here.
type Document map[string]any

// Store is an embedded document database backed by a single JSON file.
// The file holds one object per table, keyed by stringified doc id:
//
//	{"gyms": {"1": {...}, "2": {...}}, "trainings": {...}}
//
// All access is serialized through one mutex, so the atomic primitives
// (Insert, Update, Increment, Append, Remove) cannot lose updates when
// handlers race on the same record.
type Store struct {
	path   string
	mu     sync.Mutex
	tables map[string]*Table
}

// Table is a handle to one named collection inside a Store.
type Table struct {
	store  *Store
	name   string
	docs   map[int]Document
	order  []int // insertion order
	nextID int   // never reused, even after Remove
}

// Open loads the database file at path, creating it on first use.
func Open(path string) (*Store, error) {
	s := &Store{path: path, tables: make(map[string]*Table)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("db: read %s: %w", path, err)
	}
	if len(raw) == 0 {
		return s, nil
	}

	var onDisk map[string]map[string]Document
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		return nil, fmt.Errorf("db: parse %s: %w", path, err)
	}

	for name, docs := range onDisk {
		t := s.newTable(name)
		ids := make([]int, 0, len(docs))
		for key, doc := range docs {
			id, err := strconv.Atoi(key)
			if err != nil {
				return nil, fmt.Errorf("db: table %s has bad doc id %q", name, key)
			}
			t.docs[id] = doc
			ids = append(ids, id)
		}
		// Ids increment monotonically, so ascending id order is
		// insertion order.
		sort.Ints(ids)
		t.order = ids
		if len(ids) > 0 {
			t.nextID = ids[len(ids)-1] + 1
		}
	}
	return s, nil
}

func (s *Store) newTable(name string) *Table {
	t := &Table{store: s, name: name, docs: make(map[int]Document), nextID: 1}
	s.tables[name] = t
	return t
}

// Table returns the named collection, creating it empty if needed.
func (s *Store) Table(name string) *Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t, ok := s.tables[name]; ok {
		return t
	}
	return s.newTable(name)
}

// flushLocked rewrites the whole file. Caller holds s.mu.
func (s *Store) flushLocked() error {
	onDisk := make(map[string]map[string]Document, len(s.tables))
	for name, t := range s.tables {
		docs := make(map[string]Document, len(t.docs))
		for id, doc := range t.docs {
			docs[strconv.Itoa(id)] = doc
		}
		onDisk[name] = docs
	}
	raw, err := json.Marshal(onDisk)
	if err != nil {
		return fmt.Errorf("db: encode: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0644); err != nil {
		return fmt.Errorf("db: write %s: %w", s.path, err)
	}
	return nil
}

// Insert stores doc under a fresh id and returns the id.
func (t *Table) Insert(doc Document) (int, error) {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	id := t.nextID
	t.nextID++
	t.docs[id] = copyDoc(doc)
	t.order = append(t.order, id)
	if err := t.store.flushLocked(); err != nil {
		return 0, err
	}
	return id, nil
}

// Get returns a copy of the record, with its id under the "id" key,
// or nil when no record exists for that id.
func (t *Table) Get(id int) Document {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	doc, ok := t.docs[id]
	if !ok {
		return nil
	}
	out := copyDoc(doc)
	out["id"] = id
	return out
}

// Update merges the supplied fields into the record. Fields not supplied
// keep their prior values. Missing id is a silent no-op.
func (t *Table) Update(id int, fields Document) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	doc, ok := t.docs[id]
	if !ok {
		return nil
	}
	for k, v := range fields {
		doc[k] = copyValue(v)
	}
	return t.store.flushLocked()
}

// Remove deletes the record. Missing id is a silent no-op.
func (t *Table) Remove(id int) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if _, ok := t.docs[id]; !ok {
		return nil
	}
	delete(t.docs, id)
	for i, existing := range t.order {
		if existing == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return t.store.flushLocked()
}

// All returns every record in insertion order.
func (t *Table) All() []Document {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	out := make([]Document, 0, len(t.order))
	for _, id := range t.order {
		doc := copyDoc(t.docs[id])
		doc["id"] = id
		out = append(out, doc)
	}
	return out
}

// Search returns the records matching pred, in insertion order.
func (t *Table) Search(pred func(Document) bool) []Document {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	out := []Document{}
	for _, id := range t.order {
		doc := copyDoc(t.docs[id])
		doc["id"] = id
		if pred(doc) {
			out = append(out, doc)
		}
	}
	return out
}

// Increment adds delta to a numeric field. Negative delta decrements.
// Missing id is a silent no-op; a missing field starts from zero.
func (t *Table) Increment(id int, field string, delta float64) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	doc, ok := t.docs[id]
	if !ok {
		return nil
	}
	doc[field] = toFloat(doc[field]) + delta
	return t.store.flushLocked()
}

// Append adds value to the end of a list field, creating the list if the
// field is absent. Missing id is a silent no-op.
func (t *Table) Append(id int, field string, value any) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	doc, ok := t.docs[id]
	if !ok {
		return nil
	}
	list, _ := doc[field].([]any)
	doc[field] = append(list, copyValue(value))
	return t.store.flushLocked()
}

// toFloat coerces the numeric types that survive a JSON round trip.
func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func copyDoc(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v any) any {
	switch val := v.(type) {
	case Document:
		return copyDoc(val)
	case map[string]any:
		return copyDoc(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
