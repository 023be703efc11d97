package bleadv

// SetParameters configures inst_id's advertising parameters and
// stores the properties and (once the completion arrives) the
// controller-accepted tx power on the instance (spec.md §4.5 step 1,
// invariant 8). Per SPEC_FULL.md §4 item 3, advertising_event_properties
// is written before the HCI command is issued, not in the completion,
// so a concurrently-queued SetData sees the properties this call is
// configuring.
func (m *Manager) SetParameters(instID uint8, params AdvParams, cb func(status Status, txPower int8)) {
	m.queue.Post(func() {
		if !m.validInstanceID(instID) {
			m.logger.Errorf("bleadv: bad instance id %d", instID)
			return
		}

		inst := m.instances[instID]
		if !inst.inUse {
			m.logger.Errorf("bleadv: adv instance not in use %d", instID)
			cb(StatusFailure, 0)
			return
		}

		inst.props = params.Props
		inst.txPower = params.TxPower

		var peerAddr Address
		m.hci.SetParameters(instID, params.Props, params.IntervalMin, params.IntervalMax,
			params.ChannelMap, inst.ownAddrType, inst.ownAddr, AddressTypePublic, peerAddr,
			params.FilterPolicy, inst.txPower, params.PrimaryPHY, 0x01, params.SecondaryPHY,
			0x01, params.ScanRequestNotification, func(status Status, txPower int8) {
				m.queue.Post(func() {
					if status.ok() {
						inst.txPower = txPower
					}
					cb(status, txPower)
				})
			})
	})
}

// SetData applies the flags/tx-power rewrites of §4.6, then
// fragments and sends the result as advertising data (isScanRsp=false)
// or scan-response data (isScanRsp=true).
func (m *Manager) SetData(instID uint8, isScanRsp bool, data []byte, cb func(status Status)) {
	m.queue.Post(func() {
		if !m.validInstanceID(instID) {
			m.logger.Errorf("bleadv: bad instance id %d", instID)
			return
		}

		inst := m.instances[instID]
		rewritten := preprocessAdvData(inst, isScanRsp, data)

		send := func(op FragmentOp, length uint8, frag []byte, done func(status Status)) {
			if isScanRsp {
				m.hci.SetScanResponseData(instID, op, 0x01, length, frag, func(status Status) {
					m.queue.Post(func() { done(status) })
				})
			} else {
				m.hci.SetAdvertisingData(instID, op, 0x01, length, frag, func(status Status) {
					m.queue.Post(func() { done(status) })
				})
			}
		}

		fragmentAll(rewritten, send, cb)
	})
}

// SetPeriodicAdvertisingParameters is spec.md §4.5.1's first step.
func (m *Manager) SetPeriodicAdvertisingParameters(instID uint8, params PeriodicAdvParams, cb func(status Status)) {
	m.queue.Post(func() {
		m.hci.SetPeriodicAdvertisingParameters(instID, params.IntervalMin, params.IntervalMax, params.Props, func(status Status) {
			m.queue.Post(func() { cb(status) })
		})
	})
}

// SetPeriodicAdvertisingData fragments and sends periodic advertising
// data (spec.md §4.5.1's second step). Periodic data is not subject
// to the §4.6 flags/tx-power rewrites — those apply only to the
// primary advertising and scan-response payloads.
func (m *Manager) SetPeriodicAdvertisingData(instID uint8, data []byte, cb func(status Status)) {
	m.queue.Post(func() {
		send := func(op FragmentOp, length uint8, frag []byte, done func(status Status)) {
			m.hci.SetPeriodicAdvertisingData(instID, op, length, frag, func(status Status) {
				m.queue.Post(func() { done(status) })
			})
		}
		fragmentAll(data, send, cb)
	})
}

// SetPeriodicAdvertisingEnable is spec.md §4.5.1's third step.
func (m *Manager) SetPeriodicAdvertisingEnable(instID uint8, enable bool, cb func(status Status)) {
	m.queue.Post(func() {
		m.hci.SetPeriodicAdvertisingEnable(enable, instID, func(status Status) {
			m.queue.Post(func() { cb(status) })
		})
	})
}
