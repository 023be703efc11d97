package bleadv

// HCIInterface is the controller collaborator this package consumes
// (component C2). It specifies argument order and completion shape
// only — wire encoding is a concern of whatever concrete
// implementation a caller plugs in (see hciadapter for one grounded
// on a real transport). Every completion callback fires exactly once.
type HCIInterface interface {
	// ReadInstanceCount is issued once, at manager construction.
	ReadInstanceCount(cb func(count uint8))

	// SetParameters configures an advertising set. The completion
	// reports the tx power the controller actually accepted, which
	// may differ from the requested value.
	SetParameters(instID uint8, props AdvertisingEventProperties, intMin, intMax uint16,
		channelMap uint8, ownAddrType AddressType, ownAddr Address,
		peerAddrType AddressType, peerAddr Address, filterPolicy uint8,
		txPower int8, primaryPHY uint8, secondaryMaxSkip uint8, secondaryPHY uint8,
		sid uint8, scanReqNotif bool, cb func(status Status, txPower int8))

	SetRandomAddress(instID uint8, addr Address, cb func(status Status))

	SetAdvertisingData(instID uint8, op FragmentOp, fragPref uint8, length uint8, data []byte, cb func(status Status))

	SetScanResponseData(instID uint8, op FragmentOp, fragPref uint8, length uint8, data []byte, cb func(status Status))

	SetPeriodicAdvertisingParameters(instID uint8, intMin, intMax uint16, props uint16, cb func(status Status))

	SetPeriodicAdvertisingData(instID uint8, op FragmentOp, length uint8, data []byte, cb func(status Status))

	SetPeriodicAdvertisingEnable(enable bool, instID uint8, cb func(status Status))

	Enable(enable bool, instID uint8, duration uint16, maxExtendedAdvEvents uint8, cb func(status Status))

	// QuirkAdvertiserZeroHandle reports whether handle 0 is unusable
	// on this controller and must be permanently reserved.
	QuirkAdvertiserZeroHandle() bool

	// SetAdvertisingSetTerminatedObserver registers the single
	// out-of-band callback for controller-initiated termination
	// events. The manager calls this once, at construction.
	SetAdvertisingSetTerminatedObserver(obs func(status Status, handle uint8, connHandle uint16, numCompletedExtendedAdvEvents uint8))
}

// AdvertisingEventProperties is the 16-bit bitfield described in
// spec.md §3: bit 0 connectable, bits 2-3 directed, bit 4 legacy.
type AdvertisingEventProperties uint16

const (
	AdvPropConnectable AdvertisingEventProperties = 0x0001
	AdvPropDirectedMask AdvertisingEventProperties = 0x000C
	AdvPropLegacy       AdvertisingEventProperties = 0x0010
)

func (p AdvertisingEventProperties) connectable() bool { return p&AdvPropConnectable != 0 }
func (p AdvertisingEventProperties) directed() bool     { return p&AdvPropDirectedMask != 0 }
func (p AdvertisingEventProperties) legacy() bool        { return p&AdvPropLegacy != 0 }

func (p AdvertisingEventProperties) legacyConnectable() bool {
	return p.legacy() && p.connectable()
}
