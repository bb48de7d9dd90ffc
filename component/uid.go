package component

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

var rootSeq uint64

// GenerateRootUID returns a process-local root UID, stable only for the
// life of the process (spec.md §9 Design Notes, Open Question #3: "Root
// UID generation uses process identity; stability across restarts is not
// required").
func GenerateRootUID() string {
	n := atomic.AddUint64(&rootSeq, 1)
	return fmt.Sprintf("root-%d-%s", n, uuid.NewString()[:8])
}
