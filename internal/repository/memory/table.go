package memory

// table keeps rows by id in insertion order
type table[T any] struct {
	rows  map[string]T
	order []string
	clone func(T) T
}

func newTable[T any](clone func(T) T) *table[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	return &table[T]{rows: make(map[string]T), clone: clone}
}

func (t *table[T]) get(id string) (T, bool) {
	v, ok := t.rows[id]
	if !ok {
		return v, false
	}
	return t.clone(v), true
}

func (t *table[T]) list() []T {
	out := make([]T, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.clone(t.rows[id]))
	}
	return out
}

// overlay stages writes against a table until commit
type overlay[T any] struct {
	base   *table[T]
	staged map[string]T
	added  []string
}

func newOverlay[T any](base *table[T]) *overlay[T] {
	return &overlay[T]{base: base, staged: make(map[string]T)}
}

func (o *overlay[T]) get(id string) (T, bool) {
	if v, ok := o.staged[id]; ok {
		return o.base.clone(v), true
	}
	return o.base.get(id)
}

func (o *overlay[T]) put(id string, v T) {
	if _, staged := o.staged[id]; !staged {
		if _, exists := o.base.rows[id]; !exists {
			o.added = append(o.added, id)
		}
	}
	o.staged[id] = o.base.clone(v)
}

func (o *overlay[T]) list() []T {
	out := make([]T, 0, len(o.base.order)+len(o.added))
	for _, id := range o.base.order {
		v, _ := o.get(id)
		out = append(out, v)
	}
	for _, id := range o.added {
		v, _ := o.get(id)
		out = append(out, v)
	}
	return out
}

func (o *overlay[T]) commit() {
	o.base.order = append(o.base.order, o.added...)
	for id, v := range o.staged {
		o.base.rows[id] = v
	}
}
