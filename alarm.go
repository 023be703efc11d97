package bleadv

import "time"

// AlarmService is the platform timer/alarm-queue collaborator this
// package consumes from the system. It owns alarm allocation;
// Alarm owns arming, rearming, and cancellation of one timer.
type AlarmService interface {
	// NewAlarm allocates a one-shot alarm, freed by the caller.
	NewAlarm(name string) Alarm
	// NewPeriodicAlarm allocates an alarm meant to be rearmed
	// repeatedly (the RPA rotation timer lives for the life of its
	// instance and is rearmed on every fire).
	NewPeriodicAlarm(name string) Alarm
}

// Alarm is a single timer. SetOnQueue arms (or rearms) it; Cancel
// stops a pending fire without freeing the alarm; Free releases the
// underlying resource and must not be called while still armed on a
// live queue without a prior Cancel.
type Alarm interface {
	SetOnQueue(delay time.Duration, queue Queue, cb func())
	Cancel()
	Free()
}

// timeAlarmService implements AlarmService with the standard library's
// timer facilities. Nothing in the retrieved corpus provides an
// alarm/task-queue abstraction library — this is the kind of system
// service real BLE stacks get from platform glue (osi/alarm on the
// original stack), so it is grounded on spec.md §6's external
// "alarm service" contract rather than on a teacher file.
type timeAlarmService struct{}

// NewTimeAlarmService returns the default AlarmService, backed by
// time.Timer.
func NewTimeAlarmService() AlarmService { return timeAlarmService{} }

func (timeAlarmService) NewAlarm(name string) Alarm {
	return &timeAlarm{name: name}
}

func (timeAlarmService) NewPeriodicAlarm(name string) Alarm {
	return &timeAlarm{name: name}
}

type timeAlarm struct {
	name  string
	timer *time.Timer
}

func (a *timeAlarm) SetOnQueue(delay time.Duration, queue Queue, cb func()) {
	a.Cancel()
	a.timer = time.AfterFunc(delay, func() {
		queue.Post(cb)
	})
}

func (a *timeAlarm) Cancel() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *timeAlarm) Free() {
	a.Cancel()
}
