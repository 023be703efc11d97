package bleadv

// Sequencer (component C5) drives the ordered HCI chains behind
// StartAdvertising, StartAdvertisingSet, and the periodic-advertising
// add-on. Per spec.md §9's design notes this is written as an
// explicit chain of named continuations over one creatorParams value
// rather than nested nameless closures — Go's garbage collector makes
// the original's unique_ptr-threading unnecessary, but the ordering
// and single-owner discipline are unchanged.

// StartAdvertising drives spec.md §4.5's five-step chain for an
// already-registered instance. On failure at any step the client
// callback fires once with that status and the instance stays
// registered, keeping whatever the completed steps already stored on
// it (such as properties and tx power) — the caller owns registration
// and this function never calls Unregister.
func (m *Manager) StartAdvertising(instID uint8, params AdvParams, advData, scanRspData []byte, timeoutS int, timeoutCb func(status Status), cb func(status Status)) {
	c := &creatorParams{
		instID:           instID,
		params:           params,
		advertiseData:    advData,
		scanResponseData: scanRspData,
		timeoutS:         timeoutS,
		timeoutCb:        timeoutCb,
	}
	m.startAdvertisingSetParams(c, cb)
}

func (m *Manager) startAdvertisingSetParams(c *creatorParams, cb func(status Status)) {
	m.SetParameters(c.instID, c.params, func(status Status, txPower int8) {
		if !status.ok() {
			m.logger.Errorf("bleadv: setting parameters failed, status: %v", status)
			cb(status)
			return
		}
		m.startAdvertisingSetAddr(c, cb)
	})
}

func (m *Manager) startAdvertisingSetAddr(c *creatorParams, cb func(status Status)) {
	inst := m.instances[c.instID]
	m.hci.SetRandomAddress(c.instID, inst.ownAddr, func(status Status) {
		m.queue.Post(func() {
			if !status.ok() {
				m.logger.Errorf("bleadv: setting random address failed, status: %v", status)
				cb(status)
				return
			}
			m.startAdvertisingSetAdvData(c, cb)
		})
	})
}

func (m *Manager) startAdvertisingSetAdvData(c *creatorParams, cb func(status Status)) {
	m.SetData(c.instID, false, c.advertiseData, func(status Status) {
		if !status.ok() {
			m.logger.Errorf("bleadv: setting advertise data failed, status: %v", status)
			cb(status)
			return
		}
		m.startAdvertisingSetScanRsp(c, cb)
	})
}

func (m *Manager) startAdvertisingSetScanRsp(c *creatorParams, cb func(status Status)) {
	m.SetData(c.instID, true, c.scanResponseData, func(status Status) {
		if !status.ok() {
			m.logger.Errorf("bleadv: setting scan response data failed, status: %v", status)
			cb(status)
			return
		}
		m.Enable(c.instID, true, c.timeoutS, c.timeoutCb, cb)
	})
}

// StartAdvertisingSet is the one-shot register+configure+start
// operation of spec.md §4.5: RegisterAdvertiser, the four StartAdvertising
// data-plane steps, the optional periodic sub-chain, then Enable.
// Failure at any step after registration unregisters the allocated
// instance before the client is notified; failure at registration
// itself reports only the status.
func (m *Manager) StartAdvertisingSet(params AdvParams, advData, scanRspData []byte, periodicParams PeriodicAdvParams, periodicData []byte, timeoutS int, timeoutCb func(status Status), cb func(instID uint8, txPower int8, status Status)) {
	c := &creatorParams{
		params:           params,
		advertiseData:    advData,
		scanResponseData: scanRspData,
		periodicParams:   periodicParams,
		periodicData:     periodicData,
		timeoutS:         timeoutS,
		timeoutCb:        timeoutCb,
	}

	m.RegisterAdvertiser(func(instID uint8, status Status) {
		if !status.ok() {
			m.logger.Errorf("bleadv: registering advertiser failed, status: %v", status)
			cb(0, 0, status)
			return
		}
		c.instID = instID
		m.setStartAdvertisingSetParams(c, cb)
	})
}

func (m *Manager) setFail(c *creatorParams, status Status, cb func(instID uint8, txPower int8, status Status), what string) {
	m.Unregister(c.instID)
	m.logger.Errorf("bleadv: %s failed, status: %v", what, status)
	cb(0, 0, status)
}

func (m *Manager) setStartAdvertisingSetParams(c *creatorParams, cb func(instID uint8, txPower int8, status Status)) {
	m.SetParameters(c.instID, c.params, func(status Status, txPower int8) {
		if !status.ok() {
			m.setFail(c, status, cb, "setting parameters")
			return
		}
		m.setStartAdvertisingSetAddr(c, cb)
	})
}

func (m *Manager) setStartAdvertisingSetAddr(c *creatorParams, cb func(instID uint8, txPower int8, status Status)) {
	inst := m.instances[c.instID]
	m.hci.SetRandomAddress(c.instID, inst.ownAddr, func(status Status) {
		m.queue.Post(func() {
			if !status.ok() {
				m.setFail(c, status, cb, "setting random address")
				return
			}
			m.setStartAdvertisingSetAdvData(c, cb)
		})
	})
}

func (m *Manager) setStartAdvertisingSetAdvData(c *creatorParams, cb func(instID uint8, txPower int8, status Status)) {
	m.SetData(c.instID, false, c.advertiseData, func(status Status) {
		if !status.ok() {
			m.setFail(c, status, cb, "setting advertise data")
			return
		}
		m.setStartAdvertisingSetScanRsp(c, cb)
	})
}

func (m *Manager) setStartAdvertisingSetScanRsp(c *creatorParams, cb func(instID uint8, txPower int8, status Status)) {
	m.SetData(c.instID, true, c.scanResponseData, func(status Status) {
		if !status.ok() {
			m.setFail(c, status, cb, "setting scan response data")
			return
		}
		if c.periodicParams.Enable {
			m.startAdvertisingSetPeriodicPart(c, cb)
		} else {
			m.setStartAdvertisingSetFinish(c, cb)
		}
	})
}

func (m *Manager) setStartAdvertisingSetFinish(c *creatorParams, cb func(instID uint8, txPower int8, status Status)) {
	m.Enable(c.instID, true, c.timeoutS, c.timeoutCb, func(status Status) {
		if !status.ok() {
			m.setFail(c, status, cb, "enabling advertiser")
			return
		}
		inst := m.instances[c.instID]
		cb(c.instID, inst.txPower, StatusSuccess)
	})
}

// startAdvertisingSetPeriodicPart drives spec.md §4.5.1: parameters,
// data, enable, then falls through to the shared finish/enable step.
func (m *Manager) startAdvertisingSetPeriodicPart(c *creatorParams, cb func(instID uint8, txPower int8, status Status)) {
	m.SetPeriodicAdvertisingParameters(c.instID, c.periodicParams, func(status Status) {
		if !status.ok() {
			m.setFail(c, status, cb, "setting periodic parameters")
			return
		}
		m.SetPeriodicAdvertisingData(c.instID, c.periodicData, func(status Status) {
			if !status.ok() {
				m.setFail(c, status, cb, "setting periodic data")
				return
			}
			m.SetPeriodicAdvertisingEnable(c.instID, true, func(status Status) {
				if !status.ok() {
					m.setFail(c, status, cb, "enabling periodic advertising")
					return
				}
				m.setStartAdvertisingSetFinish(c, cb)
			})
		})
	})
}
