package reconciler

// Queue is a single-threaded cooperative feedback task queue: the client
// owns one animation frame loop, and the queue hands it exactly one
// FeedbackEvent at a time via Pop. The server's next-turn broadcast can
// arrive before the client finishes animating the previous turn's
// combat, so end-of-turn transitions that land mid-animation are
// deferred until the queue drains rather than interrupting it (§4.11).
type Queue struct {
	pending         []FeedbackEvent
	busy            bool
	deferredEndTurn bool
}

// NewQueue returns an empty, idle queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends events to play, in arrival order.
func (q *Queue) Enqueue(events ...FeedbackEvent) {
	q.pending = append(q.pending, events...)
}

// DeferEndTurn records that an end-of-turn transition arrived while the
// queue was still draining animation. Flush it via Done once the queue
// empties.
func (q *Queue) DeferEndTurn() {
	q.deferredEndTurn = true
}

// Pop returns the next event to animate and marks the queue busy until
// the caller reports completion via Done. ok is false if nothing is
// queued.
func (q *Queue) Pop() (event FeedbackEvent, ok bool) {
	if len(q.pending) == 0 {
		return FeedbackEvent{}, false
	}
	event = q.pending[0]
	q.pending = q.pending[1:]
	q.busy = true
	return event, true
}

// Done marks the most recently popped event as finished animating.
// flushEndTurn is true when the queue has fully drained and an
// end-of-turn transition was waiting on it — the caller should apply
// that transition now.
func (q *Queue) Done() (flushEndTurn bool) {
	q.busy = false
	if len(q.pending) == 0 && q.deferredEndTurn {
		q.deferredEndTurn = false
		return true
	}
	return false
}

// Busy reports whether an animation is currently in flight.
func (q *Queue) Busy() bool { return q.busy }

// Idle reports whether the queue has nothing pending and is not
// animating.
func (q *Queue) Idle() bool { return !q.busy && len(q.pending) == 0 }
