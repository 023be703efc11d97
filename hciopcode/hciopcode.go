// Package hciopcode names the BLE 5 extended-advertising HCI opcodes
// and the byte layout of the commands this module's manager drives,
// along with a matching Command/CommandRP shape. It is grounded on
// the teacher's linux/hci/cmd and linux/hci/evt packages: commands
// expose OpCode/Len/Marshal and completion parameters expose
// Unmarshal. The package defines no event types: it only names the LE
// Meta event code and the Advertising Set Terminated subevent code,
// and hciadapter decodes that subevent's fields itself.
//
// The manager package (bleadv) never imports this package directly —
// HCIInterface is a pure argument-order contract (spec.md §4.2) — but
// a concrete HCIInterface, such as hciadapter, marshals against it.
package hciopcode

// ogfLEController is OGF 0x08, the "LE Controller Commands" group
// every opcode below belongs to.
const ogfLEController = 0x08

func opcode(ocf uint16) uint16 {
	return ogfLEController<<10 | ocf
}

// Opcodes for the extended advertising command set [Core 5.0, Vol 2,
// Part E, 7.8.53 onward].
var (
	OpReadNumberOfSupportedAdvertisingSets = opcode(0x003B)
	OpSetExtendedAdvertisingParameters     = opcode(0x0036)
	OpSetExtendedAdvertisingData           = opcode(0x0037)
	OpSetExtendedScanResponseData          = opcode(0x0038)
	OpSetExtendedAdvertisingEnable         = opcode(0x0039)
	OpSetAdvertisingSetRandomAddress       = opcode(0x0035)
	OpRemoveAdvertisingSet                 = opcode(0x003C)
	OpClearAdvertisingSets                 = opcode(0x003D)
	OpSetPeriodicAdvertisingParameters     = opcode(0x003E)
	OpSetPeriodicAdvertisingData           = opcode(0x003F)
	OpSetPeriodicAdvertisingEnable         = opcode(0x0040)
)

// LEMetaEventCode is the event code every LE subevent (including the
// ones below) arrives wrapped in.
const LEMetaEventCode = 0x3E

// Subevent codes relevant to multi-advertising.
const (
	SubeventAdvertisingSetTerminated = 0x12
)

// Command is the shape every outbound command in this package
// implements — mirrors the teacher's hci.Command interface.
type Command interface {
	OpCode() uint16
	Len() int
	Marshal(b []byte) error
}

// CommandRP is the shape every command-complete return-parameter
// struct implements — mirrors the teacher's hci.CommandRP interface.
type CommandRP interface {
	Unmarshal(b []byte) error
}
