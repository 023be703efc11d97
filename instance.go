package bleadv

// instance is one per controller handle (component C1's element type).
// inst_id is immutable after creation; every other field is mutated
// only from the manager's serial queue.
type instance struct {
	id uint8

	inUse bool

	props   AdvertisingEventProperties
	txPower int8

	ownAddrType AddressType
	ownAddr     Address

	raddrTimer Alarm

	timeoutS     int
	timeoutTimer Alarm
}

func (i *instance) directed() bool { return i.props.directed() }

// creatorParams is the ephemeral per-sequence context described in
// spec.md §3: exclusively owned by one in-flight sequencer chain,
// threaded stage to stage, and dropped on completion.
type creatorParams struct {
	instID uint8

	params AdvParams

	advertiseData    []byte
	scanResponseData []byte

	periodicParams PeriodicAdvParams
	periodicData   []byte

	timeoutS  int
	timeoutCb func(status Status)
}

// AdvParams is the client-supplied advertising configuration for one
// set, corresponding to the standard BLE 5.0 extended-advertising
// parameter set named in spec.md §6.
type AdvParams struct {
	Props AdvertisingEventProperties

	IntervalMin uint16
	IntervalMax uint16
	ChannelMap  uint8

	FilterPolicy uint8
	TxPower      int8

	PrimaryPHY   uint8
	SecondaryPHY uint8

	ScanRequestNotification bool
}

// PeriodicAdvParams configures the optional periodic-advertising
// add-on chain (spec.md §4.5.1).
type PeriodicAdvParams struct {
	Enable bool

	IntervalMin uint16
	IntervalMax uint16
	Props       uint16
}
