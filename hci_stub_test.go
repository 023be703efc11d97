package bleadv

// stubHCI is a minimal in-package HCIInterface double for white-box
// tests that only care about one or two methods; every method not
// overridden via the matching field is a no-op that reports success.
type stubHCI struct {
	onReadInstanceCount      func(cb func(count uint8))
	onSetParameters          func(instID uint8, props AdvertisingEventProperties, intMin, intMax uint16, channelMap uint8, ownAddrType AddressType, ownAddr Address, peerAddrType AddressType, peerAddr Address, filterPolicy uint8, txPower int8, primaryPHY uint8, secondaryMaxSkip uint8, secondaryPHY uint8, sid uint8, scanReqNotif bool, cb func(status Status, txPower int8))
	onSetRandomAddress       func(instID uint8, addr Address, cb func(status Status))
	onSetAdvertisingData     func(instID uint8, op FragmentOp, fragPref uint8, length uint8, data []byte, cb func(status Status))
	onSetScanResponseData    func(instID uint8, op FragmentOp, fragPref uint8, length uint8, data []byte, cb func(status Status))
	onSetPeriodicAdvParams   func(instID uint8, intMin, intMax uint16, props uint16, cb func(status Status))
	onSetPeriodicAdvData     func(instID uint8, op FragmentOp, length uint8, data []byte, cb func(status Status))
	onSetPeriodicAdvEnable   func(enable bool, instID uint8, cb func(status Status))
	onEnable                 func(enable bool, instID uint8, duration uint16, maxEvents uint8, cb func(status Status))
	quirkZeroHandle          bool
	terminatedObserver       func(status Status, handle uint8, connHandle uint16, numCompletedExtendedAdvEvents uint8)
}

func (s *stubHCI) ReadInstanceCount(cb func(count uint8)) {
	if s.onReadInstanceCount != nil {
		s.onReadInstanceCount(cb)
		return
	}
	cb(1)
}

func (s *stubHCI) SetParameters(instID uint8, props AdvertisingEventProperties, intMin, intMax uint16,
	channelMap uint8, ownAddrType AddressType, ownAddr Address,
	peerAddrType AddressType, peerAddr Address, filterPolicy uint8,
	txPower int8, primaryPHY uint8, secondaryMaxSkip uint8, secondaryPHY uint8,
	sid uint8, scanReqNotif bool, cb func(status Status, txPower int8)) {
	if s.onSetParameters != nil {
		s.onSetParameters(instID, props, intMin, intMax, channelMap, ownAddrType, ownAddr, peerAddrType, peerAddr, filterPolicy, txPower, primaryPHY, secondaryMaxSkip, secondaryPHY, sid, scanReqNotif, cb)
		return
	}
	cb(StatusSuccess, txPower)
}

func (s *stubHCI) SetRandomAddress(instID uint8, addr Address, cb func(status Status)) {
	if s.onSetRandomAddress != nil {
		s.onSetRandomAddress(instID, addr, cb)
		return
	}
	cb(StatusSuccess)
}

func (s *stubHCI) SetAdvertisingData(instID uint8, op FragmentOp, fragPref uint8, length uint8, data []byte, cb func(status Status)) {
	if s.onSetAdvertisingData != nil {
		s.onSetAdvertisingData(instID, op, fragPref, length, data, cb)
		return
	}
	cb(StatusSuccess)
}

func (s *stubHCI) SetScanResponseData(instID uint8, op FragmentOp, fragPref uint8, length uint8, data []byte, cb func(status Status)) {
	if s.onSetScanResponseData != nil {
		s.onSetScanResponseData(instID, op, fragPref, length, data, cb)
		return
	}
	cb(StatusSuccess)
}

func (s *stubHCI) SetPeriodicAdvertisingParameters(instID uint8, intMin, intMax uint16, props uint16, cb func(status Status)) {
	if s.onSetPeriodicAdvParams != nil {
		s.onSetPeriodicAdvParams(instID, intMin, intMax, props, cb)
		return
	}
	cb(StatusSuccess)
}

func (s *stubHCI) SetPeriodicAdvertisingData(instID uint8, op FragmentOp, length uint8, data []byte, cb func(status Status)) {
	if s.onSetPeriodicAdvData != nil {
		s.onSetPeriodicAdvData(instID, op, length, data, cb)
		return
	}
	cb(StatusSuccess)
}

func (s *stubHCI) SetPeriodicAdvertisingEnable(enable bool, instID uint8, cb func(status Status)) {
	if s.onSetPeriodicAdvEnable != nil {
		s.onSetPeriodicAdvEnable(enable, instID, cb)
		return
	}
	cb(StatusSuccess)
}

func (s *stubHCI) Enable(enable bool, instID uint8, duration uint16, maxExtendedAdvEvents uint8, cb func(status Status)) {
	if s.onEnable != nil {
		s.onEnable(enable, instID, duration, maxExtendedAdvEvents, cb)
		return
	}
	cb(StatusSuccess)
}

func (s *stubHCI) QuirkAdvertiserZeroHandle() bool { return s.quirkZeroHandle }

func (s *stubHCI) SetAdvertisingSetTerminatedObserver(obs func(status Status, handle uint8, connHandle uint16, numCompletedExtendedAdvEvents uint8)) {
	s.terminatedObserver = obs
}

var _ HCIInterface = (*stubHCI)(nil)
