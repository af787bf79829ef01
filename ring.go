package cotask

// idRing is a fixed-capacity circular FIFO of TaskID, used as the
// scheduler's ready queue. Unlike the pack's catrate/ring.go (which grows
// on overflow and requires a power-of-2 size for its mask trick), this
// ring never grows past its configured capacity — the scheduler's
// allocation policy (spec.md §5) requires ready to be bounded by
// max_task_count, not elastic — and indexes with modulo so capacity need
// not be a power of 2.
type idRing struct {
	buf  []TaskID
	r, w int
	full bool
}

// newIDRing constructs a ring of the given fixed capacity.
func newIDRing(capacity int) *idRing {
	return &idRing{buf: make([]TaskID, capacity)}
}

// Len returns the number of entries currently queued.
func (q *idRing) Len() int {
	if len(q.buf) == 0 {
		return 0
	}
	if q.full {
		return len(q.buf)
	}
	if q.w >= q.r {
		return q.w - q.r
	}
	return len(q.buf) - q.r + q.w
}

// Cap returns the ring's fixed capacity.
func (q *idRing) Cap() int {
	return len(q.buf)
}

// Contains reports whether id is currently queued.
func (q *idRing) Contains(id TaskID) bool {
	n := q.Len()
	for i := 0; i < n; i++ {
		if q.buf[(q.r+i)%len(q.buf)] == id {
			return true
		}
	}
	return false
}

// PushBack appends id to the tail of the queue. It reports false, leaving
// the queue unmodified, if the queue is already at capacity.
func (q *idRing) PushBack(id TaskID) bool {
	if len(q.buf) == 0 || q.Len() >= len(q.buf) {
		return false
	}
	q.buf[q.w] = id
	q.w = (q.w + 1) % len(q.buf)
	if q.w == q.r {
		q.full = true
	}
	return true
}

// PopFront removes and returns the id at the head of the queue.
func (q *idRing) PopFront() (TaskID, bool) {
	if q.Len() == 0 {
		return TaskID{}, false
	}
	id := q.buf[q.r]
	q.r = (q.r + 1) % len(q.buf)
	q.full = false
	return id, true
}

// Remove drops the first occurrence of id from the queue, preserving the
// relative order of the remaining entries. It reports whether id was
// found. This is an O(n) operation used only from Scheduler.UnregisterTask,
// not from any steady-state path.
func (q *idRing) Remove(id TaskID) bool {
	n := q.Len()
	if n == 0 {
		return false
	}
	found := false
	kept := make([]TaskID, 0, n-1)
	for i := 0; i < n; i++ {
		v := q.buf[(q.r+i)%len(q.buf)]
		if !found && v == id {
			found = true
			continue
		}
		kept = append(kept, v)
	}
	if !found {
		return false
	}
	q.r, q.w, q.full = 0, 0, false
	for _, v := range kept {
		q.PushBack(v)
	}
	return true
}
