package finder

import "sync"

// pathPool is the shared stack of paths still waiting for a worker.
// Pop takes from the end, so claims happen in reverse submission order.
type pathPool struct {
	mu    sync.Mutex
	paths []string
}

func newPathPool(paths []string) *pathPool {
	owned := make([]string, len(paths))
	copy(owned, paths)
	return &pathPool{paths: owned}
}

// Pop removes and returns the last path. ok is false once the pool is empty.
func (p *pathPool) Pop() (path string, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := len(p.paths)
	if n == 0 {
		return "", false
	}
	path = p.paths[n-1]
	p.paths = p.paths[:n-1]
	return path, true
}

// Len returns the number of unclaimed paths.
func (p *pathPool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.paths)
}
