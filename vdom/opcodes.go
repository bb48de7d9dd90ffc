package vdom

// PatchCode enumerates the VDOM patch operations the client applies, in
// wire order (spec.md §4.6): [opcode, key, payload...].
type PatchCode int

const (
	ReplaceNode  PatchCode = 0
	RemoveNode   PatchCode = 1
	InsertNode   PatchCode = 2
	AlterText    PatchCode = 3
	ReplaceProps PatchCode = 4
	ReplaceStyle PatchCode = 5
)

// Patch is one compact VDOM mutation, keyed by the target component's UID.
// Payload's shape depends on Code:
//
//	ReplaceNode / InsertNode: []interface{} from VNode.ToList (InsertNode
//	    additionally wraps it as [index, nodeList])
//	RemoveNode:   nil
//	AlterText:    string (or nil for "no text")
//	ReplaceProps: map[string]string
//	ReplaceStyle: map[string]string
type Patch struct {
	Code    PatchCode
	Key     string
	Payload interface{}
}

// ToWire renders p as the positional list the transport layer encodes with
// MessagePack: [opcode, key, payload...]. RemoveNode carries no payload
// element.
func (p Patch) ToWire() []interface{} {
	if p.Code == RemoveNode {
		return []interface{}{int(p.Code), p.Key}
	}
	return []interface{}{int(p.Code), p.Key, p.Payload}
}
