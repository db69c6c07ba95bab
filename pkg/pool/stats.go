package pool

import "sync/atomic"

// PoolStats defines basic statistics for a pool
type PoolStats struct {
	// Size is the fixed number of slots
	Size int

	// Submitted is the total number of submissions
	Submitted int64

	// Rejected is the number of tasks rejected by a worker exit
	Rejected int64

	// Replacements is the number of in-place slot repairs
	Replacements int64

	// Workers describes the current occupant of every slot
	Workers []WorkerInfo
}

// WorkerInfo describes one slot's current worker instance
type WorkerInfo struct {
	Slot  int
	ID    string
	State WorkerState
}

// Stats gets basic pool statistics
func (p *Pool) Stats() PoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	workers := make([]WorkerInfo, 0, len(p.slots))
	for i, w := range p.slots {
		if w == nil {
			continue
		}
		workers = append(workers, WorkerInfo{
			Slot:  i,
			ID:    w.id,
			State: w.State(),
		})
	}

	return PoolStats{
		Size:         p.config.Size,
		Submitted:    atomic.LoadInt64(&p.submitted),
		Rejected:     atomic.LoadInt64(&p.rejected),
		Replacements: atomic.LoadInt64(&p.replacements),
		Workers:      workers,
	}
}
