package tcp

import "time"

// DeadlineTimer cancels a Connection's pending read after N seconds. It is
// a thin, explicit wrapper around net.Conn's own deadline mechanism: arming
// sets a read deadline in the future, and a read blocked past that point
// returns a net.Error with Timeout() == true, which is this package's
// "cancellation causes the pending read to complete with a timeout error
// code" from the spec, realized using the runtime's network poller instead
// of a hand-rolled timer goroutine.
type DeadlineTimer struct {
	conn *Connection
}

// NewDeadlineTimer binds a timer to a connection. The timer does nothing
// until Arm is called.
func NewDeadlineTimer(conn *Connection) *DeadlineTimer {
	return &DeadlineTimer{conn: conn}
}

// Arm schedules the next ReadSome on this connection to fail with a timeout
// error if it has not completed within d. Re-arming before expiry resets
// the deadline, matching the spec.
func (t *DeadlineTimer) Arm(d time.Duration) {
	deadliner, ok := t.conn.Raw().(interface{ SetReadDeadline(time.Time) error })
	if !ok {
		return
	}
	_ = deadliner.SetReadDeadline(time.Now().Add(d))
}

// Cancel removes any pending deadline. A firing timer with no read pending,
// or cancelling with no timer armed, are both no-ops by construction here:
// clearing an unset deadline is harmless.
func (t *DeadlineTimer) Cancel() {
	deadliner, ok := t.conn.Raw().(interface{ SetReadDeadline(time.Time) error })
	if !ok {
		return
	}
	_ = deadliner.SetReadDeadline(time.Time{})
}
