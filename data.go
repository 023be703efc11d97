package bleadv

// AD structure type values this package rewrites directly. Per
// spec.md §1, the manager does not otherwise interpret advertising
// payload content.
const (
	eirFlagsType        = 0x01
	eirTxPowerLevelType = 0x0A
)

// Discoverability flags values (spec.md §4.6).
const (
	btmLimitedDiscoverable = 0x01
	btmGeneralDiscoverable = 0x02
)

// preprocessAdvData applies the two byte-level rewrites spec.md §4.6
// describes, returning a new slice (the caller's data is never
// mutated in place for the flags-injection case, since that changes
// length).
func preprocessAdvData(inst *instance, isScanRsp bool, data []byte) []byte {
	if !isScanRsp && inst.props.legacyConnectable() {
		flagsVal := byte(btmGeneralDiscoverable)
		if inst.timeoutS != 0 {
			flagsVal = btmLimitedDiscoverable
		}

		withFlags := make([]byte, 0, len(data)+3)
		withFlags = append(withFlags, 0x02, eirFlagsType, flagsVal)
		withFlags = append(withFlags, data...)
		data = withFlags
	}

	patchTxPower(data, inst.txPower)

	return data
}

// patchTxPower walks the AD structures in data ([len][type][value...])
// and overwrites the value byte of any TX-Power-Level structure with
// txPower, in place. A malformed length that would run the walk past
// the end of data stops the walk rather than reading out of bounds —
// the original's i += data[i]+1 walk has no such bound check; spec.md
// §9's open question flags exactly this and DESIGN.md resolves it by
// stopping on the first malformed structure.
func patchTxPower(data []byte, txPower int8) {
	i := 0
	for i < len(data) {
		length := int(data[i])
		if length == 0 || i+1+length > len(data) {
			return
		}
		adType := data[i+1]
		if adType == eirTxPowerLevelType && length >= 2 {
			data[i+2] = byte(txPower)
		}
		i += length + 1
	}
}
