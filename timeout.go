package bleadv

import "time"

func secondsToDuration(s int) time.Duration {
	return time.Duration(s) * time.Second
}

// Enable is the general form of component C6 plus the plain HCI
// enable/disable client operation from spec.md §6. When timeoutS is 0
// this is a bare Enable(enable) call. When enable is true and
// timeoutS > 0, the Timeout Controller (C6) takes over: it issues the
// HCI enable, reports status to cb, then arms a one-shot timer that
// disables the set on expiry and reports through timeoutCb.
//
// Enable preserves the original's bad-instance-id quirk (log, return,
// never invoke cb) and reports StatusFailure to cb (never log-and-
// silent) when instID is valid but the instance is not in_use — see
// DESIGN.md Open Question 1.
func (m *Manager) Enable(instID uint8, enable bool, timeoutS int, timeoutCb func(status Status), cb func(status Status)) {
	m.queue.Post(func() {
		if !m.validInstanceID(instID) {
			m.logger.Errorf("bleadv: bad instance id %d", instID)
			return
		}

		inst := m.instances[instID]
		if !inst.inUse {
			m.logger.Error("bleadv: invalid or no active instance")
			cb(StatusFailure)
			return
		}

		if enable && timeoutS > 0 {
			m.hci.Enable(true, instID, 0x0000, 0x00, func(status Status) {
				m.queue.Post(func() {
					m.armTimeout(inst, status, timeoutS, timeoutCb, cb)
				})
			})
			return
		}

		m.cancelTimeout(inst)
		m.hci.Enable(enable, instID, 0x0000, 0x00, func(status Status) {
			m.queue.Post(func() { cb(status) })
		})
	})
}

// armTimeout implements EnableWithTimerCb: the client's enable
// callback runs first (so it observes "enabled" before any timeout
// clock starts, per SPEC_FULL.md §4 item 6), then a one-shot timer is
// armed for timeoutS seconds.
func (m *Manager) armTimeout(inst *instance, status Status, timeoutS int, timeoutCb func(status Status), cb func(status Status)) {
	cb(status)

	inst.timeoutS = timeoutS
	inst.timeoutTimer = m.alarms.NewAlarm("bleadv.adv_timeout")
	inst.timeoutTimer.SetOnQueue(secondsToDuration(timeoutS), m.queue, func() {
		m.onTimeoutExpired(inst, timeoutCb)
	})
}

func (m *Manager) onTimeoutExpired(inst *instance, timeoutCb func(status Status)) {
	m.hci.Enable(false, inst.id, 0x0000, 0x00, func(status Status) {
		m.queue.Post(func() { timeoutCb(status) })
	})
}
