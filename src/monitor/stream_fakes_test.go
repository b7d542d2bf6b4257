package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jhchoi91066/system-trading-sub000/src/interfaces"
)

// -----------------------------------------------------------------------------
// Fake clock: timers and tickers fire when the test advances time.
// -----------------------------------------------------------------------------

type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*fakeTimer
	tickers []*fakeTicker
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1700000000, 0)}
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) NewTimer(d time.Duration) interfaces.ITimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{ch: make(chan time.Time, 1), deadline: f.now.Add(d), delay: d}
	f.timers = append(f.timers, t)
	return t
}

func (f *fakeClock) NewTicker(d time.Duration) interfaces.ITicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	tk := &fakeTicker{ch: make(chan time.Time, 1), period: d, next: f.now.Add(d)}
	f.tickers = append(f.tickers, tk)
	return tk
}

// Advance moves the clock and fires everything that came due.
func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)

	for _, t := range f.timers {
		t.fireAt(f.now)
	}
	for _, tk := range f.tickers {
		tk.fireAt(f.now)
	}
}

func (f *fakeClock) timerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.timers)
}

func (f *fakeClock) timerDelays() []time.Duration {
	f.mu.Lock()
	defer f.mu.Unlock()
	delays := make([]time.Duration, len(f.timers))
	for i, t := range f.timers {
		delays[i] = t.delay
	}
	return delays
}

func (f *fakeClock) lastTimer() *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.timers) == 0 {
		return nil
	}
	return f.timers[len(f.timers)-1]
}

// -----------------------------------------------------------------------------

type fakeTimer struct {
	mu       sync.Mutex
	ch       chan time.Time
	deadline time.Time
	delay    time.Duration
	fired    bool
	stopped  bool
}

func (t *fakeTimer) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	pending := !t.fired && !t.stopped
	t.stopped = true
	return pending
}

func (t *fakeTimer) fireAt(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.fired || t.stopped || now.Before(t.deadline) {
		return
	}
	t.fired = true
	select {
	case t.ch <- now:
	default:
	}
}

func (t *fakeTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// -----------------------------------------------------------------------------

type fakeTicker struct {
	mu      sync.Mutex
	ch      chan time.Time
	period  time.Duration
	next    time.Time
	stopped bool
}

func (t *fakeTicker) C() <-chan time.Time {
	return t.ch
}

func (t *fakeTicker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
}

func (t *fakeTicker) fireAt(now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	for !now.Before(t.next) {
		select {
		case t.ch <- now:
		default:
		}
		t.next = t.next.Add(t.period)
	}
}

// -----------------------------------------------------------------------------
// Fake transport: a scripted dialer handing out scripted connections.
// -----------------------------------------------------------------------------

type readResult struct {
	data []byte
	err  error
}

type fakeConn struct {
	mu       sync.Mutex
	inbound  chan readResult
	writes   []interface{}
	writeErr error
	closed   bool
	closeCh  chan struct{}
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		inbound: make(chan readResult, 16),
		closeCh: make(chan struct{}),
	}
}

func (fc *fakeConn) ReadMessage() ([]byte, error) {
	select {
	case r := <-fc.inbound:
		return r.data, r.err
	case <-fc.closeCh:
		return nil, errors.New("use of closed connection")
	}
}

func (fc *fakeConn) WriteJSON(v interface{}) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.closed {
		return errors.New("use of closed connection")
	}
	if fc.writeErr != nil {
		return fc.writeErr
	}
	fc.writes = append(fc.writes, v)
	return nil
}

func (fc *fakeConn) Close() error {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if !fc.closed {
		fc.closed = true
		close(fc.closeCh)
	}
	return nil
}

// push delivers one inbound frame to the reader.
func (fc *fakeConn) push(frame string) {
	fc.inbound <- readResult{data: []byte(frame)}
}

// failRead delivers a transport error to the reader.
func (fc *fakeConn) failRead(err error) {
	fc.inbound <- readResult{err: err}
}

func (fc *fakeConn) setWriteErr(err error) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	fc.writeErr = err
}

func (fc *fakeConn) writeCount() int {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return len(fc.writes)
}

func (fc *fakeConn) writesSnapshot() []interface{} {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	return append([]interface{}(nil), fc.writes...)
}

// -----------------------------------------------------------------------------

type dialOutcome struct {
	conn *fakeConn
	err  error
}

type fakeDialer struct {
	mu     sync.Mutex
	script []dialOutcome
	urls   []string
}

func newFakeDialer(script ...dialOutcome) *fakeDialer {
	return &fakeDialer{script: script}
}

func (fd *fakeDialer) Dial(ctx context.Context, url string) (interfaces.IStreamConn, error) {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	fd.urls = append(fd.urls, url)
	if len(fd.script) == 0 {
		return nil, errors.New("connection refused")
	}
	out := fd.script[0]
	fd.script = fd.script[1:]
	if out.err != nil {
		return nil, out.err
	}
	return out.conn, nil
}

func (fd *fakeDialer) enqueue(out dialOutcome) {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	fd.script = append(fd.script, out)
}

func (fd *fakeDialer) dialCount() int {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	return len(fd.urls)
}

func (fd *fakeDialer) lastURL() string {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	if len(fd.urls) == 0 {
		return ""
	}
	return fd.urls[len(fd.urls)-1]
}

// -----------------------------------------------------------------------------
// Fake token provider
// -----------------------------------------------------------------------------

type fakeTokens struct {
	token string
	err   error
}

func (ft *fakeTokens) Token(ctx context.Context) (string, error) {
	if ft.err != nil {
		return "", ft.err
	}
	return ft.token, nil
}
