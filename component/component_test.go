package component

// testNode is a minimal concrete Component used across this package's
// tests, standing in for a real widget (Label, Button, ...).
type testNode struct {
	*Base
	created   int
	parented  int
	finalized int
}

func newLeaf(tag string) *testNode {
	n := &testNode{}
	b, err := Init(n, tag, false, false)
	if err != nil {
		panic(err)
	}
	n.Base = b
	return n
}

func newInner(tag string, acceptInnerHTML bool) *testNode {
	n := &testNode{}
	b, err := Init(n, tag, true, acceptInnerHTML)
	if err != nil {
		panic(err)
	}
	n.Base = b
	return n
}

func (n *testNode) OnCreate()          { n.created++ }
func (n *testNode) OnParent(Component) { n.parented++ }
func (n *testNode) OnRootFinalized()   { n.finalized++ }

func mustAppend(t interface {
	Fatalf(format string, args ...interface{})
}, parent *testNode, child Component) {
	if err := parent.ChildrenList().Append(child); err != nil {
		t.Fatalf("append failed: %v", err)
	}
}
