package bleadv

import "time"

// fakeAlarmService is a manually-fired AlarmService for tests that
// need to control exactly when a timeout or RPA-rotation timer
// expires, rather than racing a real time.Timer.
type fakeAlarmService struct {
	alarms []*fakeAlarm
}

func newFakeAlarmService() *fakeAlarmService { return &fakeAlarmService{} }

func (s *fakeAlarmService) NewAlarm(name string) Alarm {
	a := &fakeAlarm{name: name}
	s.alarms = append(s.alarms, a)
	return a
}

func (s *fakeAlarmService) NewPeriodicAlarm(name string) Alarm {
	return s.NewAlarm(name)
}

// FireAll fires every currently-armed alarm's callback once, on the
// caller's goroutine (tests typically pair this with a syncQueue so
// the callback runs inline).
func (s *fakeAlarmService) FireAll() {
	for _, a := range s.alarms {
		a.Fire()
	}
}

// fakeAlarm is one fake timer. Armed reports whether SetOnQueue has
// been called since the last Cancel/Fire.
type fakeAlarm struct {
	name  string
	armed bool
	queue Queue
	cb    func()
	freed bool
}

func (a *fakeAlarm) SetOnQueue(delay time.Duration, queue Queue, cb func()) {
	a.armed = true
	a.queue = queue
	a.cb = cb
}

func (a *fakeAlarm) Cancel() {
	a.armed = false
	a.cb = nil
}

func (a *fakeAlarm) Free() {
	a.freed = true
	a.Cancel()
}

// Fire runs the armed callback (posted through the alarm's queue, so
// production-style Post semantics still apply) and clears armed state,
// matching a real one-shot timer's post-fire state; periodic alarms
// are expected to immediately rearm from within cb, same as the real
// timeAlarm-backed rotation loop does.
func (a *fakeAlarm) Fire() {
	if !a.armed || a.cb == nil {
		return
	}
	cb := a.cb
	q := a.queue
	a.armed = false
	if q != nil {
		q.Post(cb)
	} else {
		cb()
	}
}

func (a *fakeAlarm) Armed() bool { return a.armed }
