package utils

import (
	"fmt"
	"sync/atomic"
	"time"
)

var idSeq uint64

// GenID returns a suggestion id built from the current UTC millisecond
// timestamp and a process-local sequence number, so ids stay unique even
// when several suggestions land in the same millisecond. Ids are never
// reused.
func GenID() string {
	ms := time.Now().UTC().UnixMilli()
	s := atomic.AddUint64(&idSeq, 1)
	return fmt.Sprintf("%d-%d", ms, s)
}
