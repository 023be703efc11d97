// Package fakealarm is a manually-fired bleadv.AlarmService for tests
// that need to control exactly when a timeout or RPA-rotation timer
// expires, rather than racing a real time.Timer.
package fakealarm

import (
	"time"

	"github.com/rigado/bleadv"
)

// Service hands out Alarms that only fire when the test calls FireAll
// or Fire; it never schedules real time.
type Service struct {
	alarms []*Alarm
}

func New() *Service { return &Service{} }

func (s *Service) NewAlarm(name string) bleadv.Alarm {
	a := &Alarm{name: name}
	s.alarms = append(s.alarms, a)
	return a
}

func (s *Service) NewPeriodicAlarm(name string) bleadv.Alarm {
	return s.NewAlarm(name)
}

// FireAll fires every currently-armed alarm's callback once, on the
// caller's goroutine (tests typically pair this with a syncQueue so
// the callback runs inline).
func (s *Service) FireAll() {
	for _, a := range s.alarms {
		a.Fire()
	}
}

// Alarm is one fake timer. Armed reports whether SetOnQueue has been
// called since the last Cancel/Fire.
type Alarm struct {
	name  string
	armed bool
	queue bleadv.Queue
	cb    func()
	freed bool
}

func (a *Alarm) SetOnQueue(delay time.Duration, queue bleadv.Queue, cb func()) {
	a.armed = true
	a.queue = queue
	a.cb = cb
}

func (a *Alarm) Cancel() {
	a.armed = false
	a.cb = nil
}

func (a *Alarm) Free() {
	a.freed = true
	a.Cancel()
}

// Fire runs the armed callback (posted through the alarm's queue, so
// production-style Post semantics still apply) and clears armed state,
// matching a real one-shot timer's post-fire state; periodic alarms
// are expected to immediately rearm from within cb, same as the real
// timeAlarm-backed rotation loop does.
func (a *Alarm) Fire() {
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

func (a *Alarm) Armed() bool { return a.armed }
