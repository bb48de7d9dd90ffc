package component

import (
	"container/list"
	"fmt"
	"sync"
)

// DefaultRegistryCapacity is the default bound on a root's component
// registry (spec.md §3 Registry).
const DefaultRegistryCapacity = 100_000

// MaxBindingDepth is the nesting depth beyond which a component carrying
// event bindings triggers a diagnostic during UID assignment (spec.md
// §4.4).
const MaxBindingDepth = 9

// Registry is a fixed-capacity LRU mapping UID -> Component, owned by a
// root component. Eviction is permitted; transport tolerates missing
// entries by emitting COMPONENT_UNKNOWN (spec.md §3, §4.9).
type Registry struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	order    *list.List // front = most recently used
	onEvict  func(uid string)
}

type registryEntry struct {
	uid       string
	component Component
}

// NewRegistry creates a Registry bounded at capacity entries.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultRegistryCapacity
	}
	return &Registry{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// OnEvict registers a callback fired with the UID of every entry the LRU
// evicts to make room.
func (r *Registry) OnEvict(fn func(uid string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEvict = fn
}

// Put inserts or refreshes uid -> c, evicting the least-recently-used entry
// if the registry is at capacity.
func (r *Registry) Put(uid string, c Component) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if el, ok := r.items[uid]; ok {
		el.Value.(*registryEntry).component = c
		r.order.MoveToFront(el)
		return
	}

	el := r.order.PushFront(&registryEntry{uid: uid, component: c})
	r.items[uid] = el

	for r.order.Len() > r.capacity {
		oldest := r.order.Back()
		if oldest == nil {
			break
		}
		entry := oldest.Value.(*registryEntry)
		r.order.Remove(oldest)
		delete(r.items, entry.uid)
		if r.onEvict != nil {
			r.onEvict(entry.uid)
		}
	}
}

// Get looks up uid, promoting it to most-recently-used on hit.
func (r *Registry) Get(uid string) (Component, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	el, ok := r.items[uid]
	if !ok {
		return nil, false
	}
	r.order.MoveToFront(el)
	return el.Value.(*registryEntry).component, true
}

// Delete removes uid unconditionally (used when a component is destroyed).
func (r *Registry) Delete(uid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if el, ok := r.items[uid]; ok {
		r.order.Remove(el)
		delete(r.items, uid)
	}
}

// Len returns the current number of registered entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.order.Len()
}

// AssignUIDs performs a non-recursive BFS over root's subtree, assigning
// dotted-path UIDs and inserting every node into root's registry
// (spec.md §4.4). base is the path segment used for the root's own
// children (default "0"); passing the same base and root.UID() on a
// subsequent call with no structural change is a no-op unless force is
// true.
func AssignUIDs(root Component, base string, force bool) []Diagnostic {
	if base == "" {
		base = "0"
	}
	rb := root.base()

	rb.mu.RLock()
	lastBase, lastUID := rb.lastAssignBase, rb.lastAssignUID
	lastStructVer := rb.lastAssignStructVer
	curStructVer := rb.structureVersion
	curUID := rb.uid
	rb.mu.RUnlock()

	if !force && lastBase == base && lastUID == curUID && lastStructVer == curStructVer && curUID != "" {
		return nil
	}

	var diagnostics []Diagnostic
	registry := root.Registry()

	root.setUID(curUID) // keep whatever UID the root already carries
	if root.UID() == "" {
		root.setUID(GenerateRootUID())
	}
	registry.Put(root.UID(), root)
	_ = root.base().props.SetSilent("data-uid", root.UID())

	type queued struct {
		c     Component
		uid   string
		depth int
	}

	queue := []queued{}
	if cl := root.ChildrenList(); cl != nil {
		for i, child := range cl.All() {
			queue = append(queue, queued{c: child, uid: fmt.Sprintf("%s.%d", base, i), depth: 1})
		}
	}

	for len(queue) > 0 {
		head := queue[0]
		queue = queue[1:]

		head.c.setUID(head.uid)
		registry.Put(head.uid, head.c)
		_ = head.c.base().props.SetSilent("data-uid", head.uid)

		hb := head.c.base()
		hb.mu.Lock()
		alreadyFinalized := hb.rootFinalized
		hb.rootFinalized = true
		hb.mu.Unlock()
		if !alreadyFinalized {
			head.c.OnRootFinalized()
		}

		if head.depth > MaxBindingDepth && head.c.base().hasBindings() {
			diagnostics = append(diagnostics, Diagnostic{
				UID:     head.uid,
				Message: fmt.Sprintf("component %s has event bindings nested %d levels deep (beyond %d)", head.uid, head.depth, MaxBindingDepth),
			})
		}

		if cl := head.c.ChildrenList(); cl != nil {
			for i, child := range cl.All() {
				queue = append(queue, queued{c: child, uid: fmt.Sprintf("%s.%d", head.uid, i), depth: head.depth + 1})
			}
		}
	}

	rb.mu.Lock()
	rb.lastAssignBase = base
	rb.lastAssignUID = root.UID()
	rb.lastAssignStructVer = curStructVer
	rb.mu.Unlock()

	return diagnostics
}

// Diagnostic is a non-fatal assignment-time warning (spec.md §4.4,
// §8 Boundaries).
type Diagnostic struct {
	UID     string
	Message string
}

func (b *Base) hasBindings() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.bindings) > 0
}
