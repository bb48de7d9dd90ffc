package component

import "sync"

// ChildrenList is an observable, ordered sequence of child components. It
// enforces the parent/root invariants from spec.md §4.2: a component may
// have at most one parent, and every descendant's Root() tracks its
// subtree's root even after repeated re-parenting.
type ChildrenList struct {
	mu     sync.RWMutex
	parent Component
	items  []Component
	frozen bool
}

func newChildrenList(parent Component) *ChildrenList {
	return &ChildrenList{parent: parent}
}

// Len returns the number of children.
func (c *ChildrenList) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// At returns the child at index i.
func (c *ChildrenList) At(i int) Component {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.items[i]
}

// All returns a copy of the children in order.
func (c *ChildrenList) All() []Component {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Component, len(c.items))
	copy(out, c.items)
	return out
}

// Append adds child to the end of the list.
func (c *ChildrenList) Append(child Component) error {
	return c.Insert(c.Len(), child)
}

// Extend appends every child in children, stopping (and reporting) at the
// first failure; children added before the failing one remain attached.
func (c *ChildrenList) Extend(children ...Component) error {
	for _, ch := range children {
		if err := c.Append(ch); err != nil {
			return err
		}
	}
	return nil
}

// Insert adds child at index i, validating and mounting it first.
func (c *ChildrenList) Insert(i int, child Component) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	if err := c.attach(child); err != nil {
		return err
	}

	c.mu.Lock()
	if i < 0 {
		i = 0
	}
	if i > len(c.items) {
		i = len(c.items)
	}
	c.items = append(c.items, nil)
	copy(c.items[i+1:], c.items[i:])
	c.items[i] = child
	c.mu.Unlock()

	propagate(c.parent, Mutation{Target: c.parent, Code: InsertChild, Payload: map[string]any{"index": i}})
	child.OnParent(c.parent)
	return nil
}

// attach validates and wires parent/root for child but does not insert it
// into the slice; callers insert then propagate.
func (c *ChildrenList) attach(child Component) error {
	if child.Parent() != nil {
		return ErrAlreadyParented
	}

	child.setUID("")
	child.setParent(c.parent)

	newRoot := c.parent.Root()
	if child.Root() != newRoot {
		child.setRoot(newRoot)
		if cl := child.ChildrenList(); cl != nil && cl.Len() > 0 {
			refreshRootsIterative(child, newRoot)
		}
	}
	return nil
}

// refreshRootsIterative walks the subtree rooted at node with an explicit
// stack (no recursion) fixing any stale Root() pointers, matching
// original_source's ChildrenList._update_root_iterative.
func refreshRootsIterative(node Component, newRoot Component) {
	stack := []Component{node}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cl := cur.ChildrenList()
		if cl == nil {
			continue
		}
		for _, sub := range cl.All() {
			if sub.Root() != newRoot {
				sub.setRoot(newRoot)
				if subCl := sub.ChildrenList(); subCl != nil && subCl.Len() > 0 {
					stack = append(stack, sub)
				}
			}
		}
	}
}

// Pop removes and returns the child at index i (default: the last child).
func (c *ChildrenList) Pop(i int) (Component, error) {
	if err := c.checkMutable(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	if i < 0 {
		i = len(c.items) - 1
	}
	if i < 0 || i >= len(c.items) {
		c.mu.Unlock()
		return nil, ErrNotAChild
	}
	child := c.items[i]
	c.items = append(c.items[:i], c.items[i+1:]...)
	c.mu.Unlock()

	c.detach(child)
	propagate(c.parent, Mutation{Target: c.parent, Code: DeleteChild, Payload: map[string]any{"index": i}})
	return child, nil
}

// Remove removes the first occurrence of child.
func (c *ChildrenList) Remove(child Component) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.mu.Lock()
	idx := -1
	for i, item := range c.items {
		if item == child {
			idx = i
			break
		}
	}
	if idx == -1 {
		c.mu.Unlock()
		return ErrNotAChild
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.mu.Unlock()

	c.detach(child)
	propagate(c.parent, Mutation{Target: c.parent, Code: DeleteChild, Payload: map[string]any{"index": idx}})
	return nil
}

// Clear removes every child.
func (c *ChildrenList) Clear() error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.mu.Lock()
	items := c.items
	c.items = nil
	c.mu.Unlock()

	for _, child := range items {
		c.detach(child)
	}
	if len(items) > 0 {
		propagate(c.parent, Mutation{Target: c.parent, Code: DeleteChild, Payload: map[string]any{"count": len(items)}})
	}
	return nil
}

// Set replaces the child at index i with replacement (a "slice assignment"
// in spec.md terms): the old child is detached and the new one mounted,
// firing both on_delete_child and on_new_child.
func (c *ChildrenList) Set(i int, replacement Component) error {
	if err := c.checkMutable(); err != nil {
		return err
	}
	c.mu.RLock()
	if i < 0 || i >= len(c.items) {
		c.mu.RUnlock()
		return ErrNotAChild
	}
	old := c.items[i]
	c.mu.RUnlock()

	if err := c.attach(replacement); err != nil {
		return err
	}
	c.detach(old)

	c.mu.Lock()
	c.items[i] = replacement
	c.mu.Unlock()

	propagate(c.parent, Mutation{Target: c.parent, Code: DeleteChild, Payload: map[string]any{"index": i}})
	propagate(c.parent, Mutation{Target: c.parent, Code: InsertChild, Payload: map[string]any{"index": i}})
	replacement.OnParent(c.parent)
	return nil
}

// detach clears a removed child's parent/root/uid.
func (c *ChildrenList) detach(child Component) {
	child.setParent(nil)
	child.setRoot(nil)
	child.setUID("")
}
