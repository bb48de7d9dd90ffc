// Package component implements the Lively component model: versioned
// property/style stores, a children list with parent/root invariants,
// mutation propagation, UID assignment against a per-root LRU registry, and
// a freeze protocol for permanent render/VDOM caching.
//
// Dynamic dispatch (on_create/on_parent/on_root_finalized/get_element in the
// original system) is modeled as the Hooks interface implemented by
// concrete component types that embed *Base.
package component

import (
	"regexp"
	"sync"
)

var tagPattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

const maxTagLength = 24

// Hooks are the virtual lifecycle methods a concrete component may override.
// Base provides no-op defaults so embedders only implement what they need.
type Hooks interface {
	OnCreate()
	OnParent(parent Component)
	OnRootFinalized()
}

// Component is the trait every node in the tree satisfies. Concrete types
// embed *Base, which implements every method below, and override Hooks
// methods as needed.
type Component interface {
	Hooks

	UID() string
	setUID(string)

	Tag() string
	Props() *Store
	Style() *Store

	IsInner() bool
	AcceptsInnerHTML() bool
	InnerText() (string, bool)
	SetInnerText(text string) error

	ChildrenList() *ChildrenList // nil for leaf components

	Parent() Component
	setParent(Component)
	Root() Component
	setRoot(Component)
	IsRoot() bool

	MutationVersion() uint64
	StructureVersion() uint64

	Frozen() bool
	Freeze(responsible Component, deep bool) error

	CachedVDOM() (interface{}, bool)
	SetCachedVDOM(node interface{})

	base() *Base
}

// Base is the concrete state shared by every component. It implements
// Component; embedders get the full trait for free and override Hooks
// selectively.
type Base struct {
	mu sync.RWMutex

	self Component // set by Init; used to call overridden hooks

	uid    string
	tag    string
	props  *Store
	style  *Store

	inner           bool
	acceptInnerHTML bool
	innerText       string
	hasInnerText    bool

	children *ChildrenList

	parent Component
	root   Component

	mutationVersion   uint64
	structureVersion  uint64

	frozen     bool
	textFrozen bool

	bindings            map[string]*EventBinding
	eventBindingsChanged bool
	rootFinalized        bool

	registry *Registry // only populated lazily when this Base is a root

	lastAssignBase      string
	lastAssignUID        string
	lastAssignStructVer  uint64

	renderCache renderCacheEntry
	vdomCache   vdomCacheEntry
}

// Init must be called once by a concrete constructor before the component
// is used: self is the outer value embedding this Base (so hooks dispatch
// virtually), tag is the element name, inner controls whether Children is
// populated, and acceptInnerHTML controls whether SetInnerText is legal.
func Init(self Component, tag string, inner bool, acceptInnerHTML bool) (*Base, error) {
	if !tagPattern.MatchString(tag) {
		return nil, ErrInvalidTag
	}
	if len(tag) >= maxTagLength {
		return nil, ErrTagTooLong
	}

	b := &Base{
		self:            self,
		tag:             tag,
		props:           NewStore(),
		style:           NewStore(),
		inner:           inner,
		acceptInnerHTML: acceptInnerHTML,
		bindings:        make(map[string]*EventBinding),
	}
	b.props.OnMutate(b.onPropSet, b.onPropDelete)
	b.style.OnMutate(b.onStyleSet, b.onStyleDelete)
	if inner {
		b.children = newChildrenList(self)
	}
	return b, nil
}

func (b *Base) base() *Base { return b }

func (b *Base) UID() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.uid
}

func (b *Base) setUID(uid string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uid = uid
}

func (b *Base) Tag() string { return b.tag }

func (b *Base) Props() *Store { return b.props }
func (b *Base) Style() *Store { return b.style }

func (b *Base) IsInner() bool           { return b.inner }
func (b *Base) AcceptsInnerHTML() bool  { return b.acceptInnerHTML }

func (b *Base) InnerText() (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.innerText, b.hasInnerText
}

// SetInnerText sets the node's inner text, bumping the mutation version and
// propagating to ancestors. Returns ErrNoInnerText if the component was
// constructed without accept_inner_html, ErrFrozen if frozen.
func (b *Base) SetInnerText(text string) error {
	if !b.acceptInnerHTML {
		return ErrNoInnerText
	}
	b.mu.Lock()
	if b.frozen || b.textFrozen {
		b.mu.Unlock()
		return ErrFrozen
	}
	if b.hasInnerText && b.innerText == text {
		b.mu.Unlock()
		return nil
	}
	b.innerText = text
	b.hasInnerText = true
	b.mu.Unlock()

	propagate(b.self, Mutation{Target: b.self, Code: SetInnerHTML, Payload: map[string]any{"text": text}})
	return nil
}

func (b *Base) ChildrenList() *ChildrenList {
	if !b.inner {
		return nil
	}
	return b.children
}

func (b *Base) Parent() Component {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.parent
}

func (b *Base) setParent(p Component) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.parent = p
}

func (b *Base) Root() Component {
	b.mu.RLock()
	r := b.root
	p := b.parent
	b.mu.RUnlock()
	if p == nil {
		return b.self
	}
	if r != nil {
		return r
	}
	return b.self
}

func (b *Base) setRoot(r Component) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.root = r
}

func (b *Base) IsRoot() bool {
	return b.Parent() == nil
}

func (b *Base) MutationVersion() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mutationVersion
}

func (b *Base) StructureVersion() uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.structureVersion
}

func (b *Base) Frozen() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.frozen
}

// Registry returns this component's root registry, creating it lazily the
// first time a root is asked for it. Calling Registry on a non-root returns
// its root's registry.
func (b *Base) Registry() *Registry {
	root := b.Root()
	rb := root.base()
	rb.mu.Lock()
	defer rb.mu.Unlock()
	if rb.registry == nil {
		rb.registry = NewRegistry(DefaultRegistryCapacity)
	}
	return rb.registry
}

// Default Hooks implementations: no-ops, overridden selectively.
func (b *Base) OnCreate()             {}
func (b *Base) OnParent(Component)    {}
func (b *Base) OnRootFinalized()      {}

// renderCacheEntry / vdomCacheEntry are the memoization caches described in
// spec.md §4.5; they are plain fields (not store-gated) so they remain
// writable even on a frozen component — freezing makes them permanent in
// practice because nothing else can change the underlying state anymore.
type renderCacheEntry struct {
	valid           bool
	mutationVersion uint64
	html            string
}

type vdomCacheEntry struct {
	valid           bool
	mutationVersion uint64
	key             string
	node            interface{} // *vdom.VNode; declared as interface{} to avoid an import cycle
}
