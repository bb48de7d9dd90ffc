package component

// Freeze converts c's props, style, and children into permanently
// read-only form (spec.md §4.8). Subsequent writes to those attributes
// return ErrFrozen; render and VDOM caches become effectively permanent
// because nothing else can invalidate them. If deep is true, every child in
// the subtree is frozen too. responsible is recorded for diagnostics only
// and may be nil.
func (b *Base) Freeze(responsible Component, deep bool) error {
	b.props.freeze()
	b.style.freeze()

	b.mu.Lock()
	b.frozen = true
	b.textFrozen = true
	b.mu.Unlock()

	if b.children != nil {
		b.children.mu.Lock()
		items := make([]Component, len(b.children.items))
		copy(items, b.children.items)
		b.children.frozen = true
		b.children.mu.Unlock()

		if deep {
			for _, child := range items {
				if err := child.Freeze(responsible, true); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// frozen on ChildrenList blocks further structural mutation once its owner
// is frozen; checked by every mutator below.
func (c *ChildrenList) checkMutable() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.frozen {
		return ErrFrozen
	}
	return nil
}
