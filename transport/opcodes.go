// Package transport implements the wire protocol between the Lively
// runtime and the browser: MessagePack-encoded opcode messages carried
// over wsframe connections, component event dispatch, JS execution
// futures, and navigation (spec.md §5).
package transport

// EventOpCode is the top-level message discriminator, matching
// original_source's EventOpCode exactly (spec.md §5.1).
type EventOpCode int

const (
	ApplyPatch             EventOpCode = 1
	DispatchComponentEvent EventOpCode = 100
	ExecuteJS              EventOpCode = 101
	ComponentUnknown       EventOpCode = 102
	JSExecutionResult      EventOpCode = 111
	NavigateTo             EventOpCode = 120
	NavigationResult       EventOpCode = 121
)
