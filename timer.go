package replay

import (
	"sort"

	"github.com/google/uuid"
)

// TimerID identifies a timer started through Device.Timer.
type TimerID string

// Timer schedules callbacks against simulated time. Callbacks run at a frame
// boundary, on the first frame whose accumulated time reaches the delay.
type Timer interface {
	// Start schedules callback after delayMS simulated milliseconds.
	Start(callback func(), delayMS float64) TimerID
	// Pause stops the timer accumulating time. No-op for unknown IDs.
	Pause(id TimerID)
	// Resume continues a paused timer. No-op for unknown IDs.
	Resume(id TimerID)
	// Cancel removes the timer; its callback never fires. No-op once fired.
	Cancel(id TimerID)
}

// timerEpsilon absorbs float drift from summing fractional frame durations,
// so a 50ms timer fires on the third 1000/60ms frame.
const timerEpsilon = 1e-6

type pendingTimer struct {
	id        TimerID
	seq       uint64
	callback  func()
	remaining float64
	paused    bool
	cancelled bool
	fired     bool
}

// timerQueue is the engine-owned Timer. It is only touched on the frame
// goroutine.
type timerQueue struct {
	timers []*pendingTimer
	// firing holds the batch being run by fire, so callbacks can still
	// pause or cancel timers due on the same boundary.
	firing []*pendingTimer
	seq    uint64
	newID  func() TimerID
}

// randomTimerID is the default TimerID source.
func randomTimerID() TimerID { return TimerID(uuid.NewString()) }

func newTimerQueue(newID func() TimerID) *timerQueue {
	if newID == nil {
		newID = randomTimerID
	}
	return &timerQueue{newID: newID}
}

func (q *timerQueue) Start(callback func(), delayMS float64) TimerID {
	q.seq++
	t := &pendingTimer{
		id:        q.newID(),
		seq:       q.seq,
		callback:  callback,
		remaining: delayMS,
	}
	q.timers = append(q.timers, t)
	return t.id
}

func (q *timerQueue) find(id TimerID) *pendingTimer {
	for _, t := range q.timers {
		if t.id == id {
			return t
		}
	}
	for _, t := range q.firing {
		if t.id == id && !t.fired {
			return t
		}
	}
	return nil
}

func (q *timerQueue) Pause(id TimerID) {
	if t := q.find(id); t != nil {
		t.paused = true
	}
}

func (q *timerQueue) Resume(id TimerID) {
	if t := q.find(id); t != nil {
		t.paused = false
	}
}

func (q *timerQueue) Cancel(id TimerID) {
	if t := q.find(id); t != nil {
		t.cancelled = true
	}
	for i, t := range q.timers {
		if t.id == id {
			copy(q.timers[i:], q.timers[i+1:])
			q.timers[len(q.timers)-1] = nil
			q.timers = q.timers[:len(q.timers)-1]
			return
		}
	}
}

// advance subtracts deltaMS from every running timer and removes and returns
// the ones that are due, most overdue first, then in start order.
func (q *timerQueue) advance(deltaMS float64) []*pendingTimer {
	var due []*pendingTimer
	kept := q.timers[:0]
	for _, t := range q.timers {
		if !t.paused {
			t.remaining -= deltaMS
		}
		if !t.paused && t.remaining <= timerEpsilon {
			due = append(due, t)
			continue
		}
		kept = append(kept, t)
	}
	for i := len(kept); i < len(q.timers); i++ {
		q.timers[i] = nil
	}
	q.timers = kept
	sort.SliceStable(due, func(i, j int) bool {
		if due[i].remaining != due[j].remaining {
			return due[i].remaining < due[j].remaining
		}
		return due[i].seq < due[j].seq
	})
	return due
}

// fire advances every timer by deltaMS and runs the due callbacks in order.
// A due timer paused by an earlier callback in the batch goes back to the
// queue and fires on the first boundary after it is resumed; a cancelled one
// is dropped.
func (q *timerQueue) fire(deltaMS float64) {
	q.firing = q.advance(deltaMS)
	defer func() { q.firing = nil }()
	for _, t := range q.firing {
		switch {
		case t.cancelled:
		case t.paused:
			q.timers = append(q.timers, t)
		default:
			t.fired = true
			t.callback()
		}
	}
}

// len reports the number of pending timers.
func (q *timerQueue) len() int {
	return len(q.timers)
}
