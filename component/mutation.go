package component

// MutationCode enumerates the kinds of mutation a component can undergo
// (spec.md §4.3), mirrored from original_source's MutationCode enum.
type MutationCode int

const (
	SetInnerHTML MutationCode = iota - 1 // -1, matches the original's "global mutation" sentinel
	DeleteChild
	InsertChild
	DeleteProp
	SetProp
	DeleteStyle
	SetStyle
)

// Mutation describes a single change to a component, passed up the
// ancestor chain so every ancestor's mutation counters stay coherent.
type Mutation struct {
	Target  Component
	Code    MutationCode
	Payload map[string]any
}

// propagate fires onMutation for target, then walks every ancestor up to
// and including the root, bumping their mutation counters. Structural
// counters (StructureVersion) are bumped only on the immediate parent of an
// insert/delete, never on further ancestors — spec.md §4.3 step 1.
func propagate(target Component, m Mutation) {
	b := target.base()
	if b.frozen {
		return
	}

	structural := m.Code == InsertChild || m.Code == DeleteChild
	b.mu.Lock()
	b.mutationVersion++
	if structural {
		b.structureVersion++
	}
	b.mu.Unlock()

	if target.IsRoot() {
		return
	}

	cur := target.Parent()
	for cur != nil {
		cb := cur.base()
		cb.mu.Lock()
		cb.mutationVersion++
		cb.mu.Unlock()
		if cb.IsRoot() {
			break
		}
		cur = cur.Parent()
	}
}

func (b *Base) onPropSet(key, value string) {
	propagate(b.self, Mutation{Target: b.self, Code: SetProp, Payload: map[string]any{"key": key, "value": value}})
}

func (b *Base) onPropDelete(key string) {
	propagate(b.self, Mutation{Target: b.self, Code: DeleteProp, Payload: map[string]any{"key": key}})
}

func (b *Base) onStyleSet(key, value string) {
	propagate(b.self, Mutation{Target: b.self, Code: SetStyle, Payload: map[string]any{"key": key, "value": value}})
}

func (b *Base) onStyleDelete(key string) {
	propagate(b.self, Mutation{Target: b.self, Code: DeleteStyle, Payload: map[string]any{"key": key}})
}

// CachedHTML returns the memoized render output if it is still valid
// against the component's current mutation version.
func (b *Base) CachedHTML() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.renderCache.valid && b.renderCache.mutationVersion == b.mutationVersion {
		return b.renderCache.html, true
	}
	return "", false
}

// SetCachedHTML stores html as the memoized render output for the
// component's current mutation version.
func (b *Base) SetCachedHTML(html string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.renderCache = renderCacheEntry{valid: true, mutationVersion: b.mutationVersion, html: html}
}

// CachedVDOM returns the memoized VDOM snapshot if valid against the
// current mutation version and UID (a cache hit with a stale key, e.g.
// after a UID reassignment, is treated as a miss per spec.md §4.5).
func (b *Base) CachedVDOM() (node interface{}, ok bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.vdomCache.valid && b.vdomCache.mutationVersion == b.mutationVersion && b.vdomCache.key == b.uid {
		return b.vdomCache.node, true
	}
	return nil, false
}

// SetCachedVDOM stores node as the memoized VDOM snapshot for the
// component's current mutation version and UID.
func (b *Base) SetCachedVDOM(node interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.vdomCache = vdomCacheEntry{valid: true, mutationVersion: b.mutationVersion, key: b.uid, node: node}
}
