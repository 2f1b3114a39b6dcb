package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/jobmatch/core"
)

// Key prefixes for different data types
const (
	documentPrefix   = "jobdoc"
	sessionPrefix    = "jobses"
	checkpointPrefix = "ingchk"
)

// makeDocumentKey generates a key for an indexed listing document.
// Format: prefix:id, with the ID in BigEndian so scans follow ID order.
func makeDocumentKey(id core.ID) []byte {
	prefix := documentPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeSessionKey generates a key for a session by ID.
func makeSessionKey(id string) []byte {
	return []byte(fmt.Sprintf("%s:%s", sessionPrefix, id))
}

// makeCheckpointKey generates a key for an ingest source checkpoint.
func makeCheckpointKey(source string) []byte {
	return []byte(fmt.Sprintf("%s:%s", checkpointPrefix, source))
}
