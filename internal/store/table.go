// Package store provides the column-oriented entity store for political actors.
// Each attribute group lives in its own ordered table keyed by actor id; every
// mutation returns a new snapshot and leaves earlier snapshots untouched.
package store

// Row is one keyed entry of a table.
type Row[T any] struct {
	ID    string `json:"id"`
	Value T      `json:"value"`
}

// Table is an immutable ordered mapping from actor id to one attribute group.
// Iteration follows first-insertion order.
type Table[T any] struct {
	ids  []string
	rows map[string]T
}

func newTable[T any]() *Table[T] {
	return &Table[T]{rows: map[string]T{}}
}

// Get returns the value for id. Values share memory with the snapshot and must be
// treated as read-only.
func (t *Table[T]) Get(id string) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

// Has reports whether id has an entry.
func (t *Table[T]) Has(id string) bool {
	_, ok := t.rows[id]
	return ok
}

// Len returns the number of entries.
func (t *Table[T]) Len() int {
	return len(t.ids)
}

// IDs returns the ids in insertion order.
func (t *Table[T]) IDs() []string {
	return append([]string(nil), t.ids...)
}

// Each visits entries in order until fn returns false.
func (t *Table[T]) Each(fn func(id string, v T) bool) {
	for _, id := range t.ids {
		if !fn(id, t.rows[id]) {
			return
		}
	}
}

// Rows returns the entries in order.
func (t *Table[T]) Rows() []Row[T] {
	out := make([]Row[T], 0, len(t.ids))
	for _, id := range t.ids {
		out = append(out, Row[T]{ID: id, Value: t.rows[id]})
	}
	return out
}

// withUpserted returns a copy with rows written over it. Existing ids keep their
// position; new ids are appended.
func (t *Table[T]) withUpserted(rows []Row[T]) *Table[T] {
	out := &Table[T]{
		ids:  make([]string, len(t.ids), len(t.ids)+len(rows)),
		rows: make(map[string]T, len(t.rows)+len(rows)),
	}
	copy(out.ids, t.ids)
	for id, v := range t.rows {
		out.rows[id] = v
	}
	for _, r := range rows {
		if _, exists := out.rows[r.ID]; !exists {
			out.ids = append(out.ids, r.ID)
		}
		out.rows[r.ID] = r.Value
	}
	return out
}

// withRemoved returns a copy without the given ids.
func (t *Table[T]) withRemoved(ids map[string]struct{}) *Table[T] {
	out := &Table[T]{
		ids:  make([]string, 0, len(t.ids)),
		rows: make(map[string]T, len(t.rows)),
	}
	for _, id := range t.ids {
		if _, drop := ids[id]; drop {
			continue
		}
		out.ids = append(out.ids, id)
		out.rows[id] = t.rows[id]
	}
	return out
}

func tableFromRows[T any](rows []Row[T]) *Table[T] {
	return newTable[T]().withUpserted(rows)
}
