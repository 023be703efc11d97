package bleadv

import "fmt"

// Address is a six byte BLE device address, stored in controller
// (little-endian) byte order: Bytes()[0] is the least-significant byte.
type Address [6]byte

// String renders the address in conventional MSB-first colon-hex form.
func (a Address) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", a[5], a[4], a[3], a[2], a[1], a[0])
}

// Bytes returns the address in controller (little-endian) order.
func (a Address) Bytes() []byte {
	return a[:]
}

// AddressType distinguishes the two own-address-type values the
// controller understands for advertising sets.
type AddressType uint8

const (
	AddressTypePublic AddressType = 0x00
	AddressTypeRandom AddressType = 0x01
)

func (t AddressType) String() string {
	if t == AddressTypeRandom {
		return "random"
	}
	return "public"
}
