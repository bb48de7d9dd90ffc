package component

import (
	"strings"
	"sync"
)

// OnSetFunc is invoked after an effective write to a Store.
type OnSetFunc func(key, value string)

// OnDeleteFunc is invoked after an effective delete from a Store.
type OnDeleteFunc func(key string)

// Store is an ordered string->string map with versioning and callbacks,
// used for both the props and style bags of a Component (spec.md §4.1).
// Keys are normalized (trim + lowercase) at write time. Setting a key to
// its current value is a no-op: no version bump, no callback.
//
// All bulk helpers (Update, SetDefault, Pop, PopItem) route through Set/Delete
// so that callbacks and versioning stay consistent no matter which entry
// point is used (spec.md Testable Property #3).
type Store struct {
	mu       sync.RWMutex
	keys     []string
	values   map[string]string
	version  uint64
	onSet    OnSetFunc
	onDelete OnDeleteFunc
	frozen   bool
}

// NewStore creates an empty, unfrozen Store.
func NewStore() *Store {
	return &Store{values: make(map[string]string)}
}

// OnMutate registers the callbacks fired on effective set/delete. Either
// argument may be nil.
func (s *Store) OnMutate(onSet OnSetFunc, onDelete OnDeleteFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onSet = onSet
	s.onDelete = onDelete
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Version returns the store's current mutation version.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Get returns the value for key and whether it is present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[normalizeKey(key)]
	return v, ok
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.keys)
}

// Set writes key=value, normalizing the key. It is the instrumented write
// path that Update and SetDefault funnel through (removals go through
// Delete). Returns ErrEmptyKey if the normalized key is empty, ErrFrozen if the
// store is frozen.
func (s *Store) Set(key, value string) error {
	return s.set(key, value, true)
}

// SetSilent writes key=value without firing the on-set callback. Used by
// the runtime to inject data-uid/data-events/data-validate without
// triggering a mutation cascade (spec.md §4.1).
func (s *Store) SetSilent(key, value string) error {
	return s.set(key, value, false)
}

func (s *Store) set(key, value string, callHook bool) error {
	k := normalizeKey(key)
	if k == "" {
		return ErrEmptyKey
	}

	s.mu.Lock()
	if s.frozen {
		s.mu.Unlock()
		return ErrFrozen
	}
	if old, ok := s.values[k]; ok && old == value {
		s.mu.Unlock()
		return nil
	}
	_, existed := s.values[k]
	s.values[k] = value
	if !existed {
		s.keys = append(s.keys, k)
	}
	s.version++
	hook := s.onSet
	s.mu.Unlock()

	if callHook && hook != nil {
		hook(k, value)
	}
	return nil
}

// Delete removes key if present, firing the on-delete callback.
func (s *Store) Delete(key string) error {
	return s.delete(key, true)
}

// DeleteSilent removes key without firing the on-delete callback.
func (s *Store) DeleteSilent(key string) error {
	return s.delete(key, false)
}

func (s *Store) delete(key string, callHook bool) error {
	k := normalizeKey(key)

	s.mu.Lock()
	if s.frozen {
		s.mu.Unlock()
		return ErrFrozen
	}
	if _, ok := s.values[k]; !ok {
		s.mu.Unlock()
		return nil
	}
	delete(s.values, k)
	for i, existing := range s.keys {
		if existing == k {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	s.version++
	hook := s.onDelete
	s.mu.Unlock()

	if callHook && hook != nil {
		hook(k)
	}
	return nil
}

// Update bulk-writes from data in iteration order, through Set so that
// callbacks remain consistent. If silent is true, on-set callbacks are
// suppressed for every entry (used when injecting reserved data-* keys).
func (s *Store) Update(data map[string]string, silent bool) error {
	for k, v := range data {
		var err error
		if silent {
			err = s.SetSilent(k, v)
		} else {
			err = s.Set(k, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// UpdateOrdered behaves like Update but preserves the given key order,
// which matters for deterministic rendering of newly introduced keys.
func (s *Store) UpdateOrdered(keys []string, data map[string]string, silent bool) error {
	for _, k := range keys {
		v := data[k]
		var err error
		if silent {
			err = s.SetSilent(k, v)
		} else {
			err = s.Set(k, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// SetDefault inserts key=defaultValue if key is absent, returning the
// resulting value either way.
func (s *Store) SetDefault(key, defaultValue string) (string, error) {
	if v, ok := s.Get(key); ok {
		return v, nil
	}
	if err := s.Set(key, defaultValue); err != nil {
		return "", err
	}
	return defaultValue, nil
}

// Pop removes key and returns its prior value, or ok=false if absent.
func (s *Store) Pop(key string) (string, bool, error) {
	v, ok := s.Get(key)
	if !ok {
		return "", false, nil
	}
	if err := s.Delete(key); err != nil {
		return "", false, err
	}
	return v, true, nil
}

// PopItem removes and returns the most recently inserted (key, value) pair
// in LIFO order, or ok=false if the store is empty.
func (s *Store) PopItem() (string, string, bool, error) {
	s.mu.RLock()
	if len(s.keys) == 0 {
		s.mu.RUnlock()
		return "", "", false, nil
	}
	k := s.keys[len(s.keys)-1]
	v := s.values[k]
	s.mu.RUnlock()

	if err := s.Delete(k); err != nil {
		return "", "", false, err
	}
	return k, v, true, nil
}

// Keys returns a copy of the keys in insertion order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Snapshot returns an ordered copy of (key, value) pairs, suitable for
// freezing or VDOM serialization.
func (s *Store) Snapshot() []KV {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]KV, len(s.keys))
	for i, k := range s.keys {
		out[i] = KV{Key: k, Value: s.values[k]}
	}
	return out
}

// Map returns a plain map copy, convenient for equality checks and
// serialization where order does not matter.
func (s *Store) Map() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// freeze marks the store read-only; subsequent Set/Delete calls return
// ErrFrozen.
func (s *Store) freeze() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frozen = true
}

// KV is an ordered key/value pair.
type KV struct {
	Key   string
	Value string
}
