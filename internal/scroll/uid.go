package scroll

import "sync"

// uids is the process-wide record identifier source.
var uids struct {
	mu   sync.Mutex
	last uint32
}

// NextUID returns a fresh record identifier. Identifiers start at 1, strictly
// increase and are never reused within the process.
func NextUID() uint32 {
	uids.mu.Lock()
	defer uids.mu.Unlock()
	uids.last++
	return uids.last
}
