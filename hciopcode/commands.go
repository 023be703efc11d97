package hciopcode

import (
	"encoding/binary"
	"fmt"
)

// SetExtendedAdvertisingParameters is LE Set Extended Advertising
// Parameters [Core 5.0, Vol 2, Part E, 7.8.53], the wire form of
// HCIInterface.SetParameters.
type SetExtendedAdvertisingParameters struct {
	AdvertisingHandle       uint8
	AdvertisingEventProperties uint16
	PrimaryIntervalMin      uint32 // 24-bit
	PrimaryIntervalMax      uint32 // 24-bit
	PrimaryChannelMap       uint8
	OwnAddressType          uint8
	PeerAddressType         uint8
	PeerAddress             [6]byte
	FilterPolicy            uint8
	TxPower                 int8
	PrimaryPHY              uint8
	SecondaryMaxSkip        uint8
	SecondaryPHY            uint8
	SID                     uint8
	ScanRequestNotifEnable  uint8
}

func (c *SetExtendedAdvertisingParameters) OpCode() uint16 { return OpSetExtendedAdvertisingParameters }
func (c *SetExtendedAdvertisingParameters) Len() int        { return 25 }

func (c *SetExtendedAdvertisingParameters) Marshal(b []byte) error {
	if len(b) < c.Len() {
		return fmt.Errorf("hciopcode: buffer too small for SetExtendedAdvertisingParameters")
	}
	b[0] = c.AdvertisingHandle
	binary.LittleEndian.PutUint16(b[1:3], c.AdvertisingEventProperties)
	put24(b[3:6], c.PrimaryIntervalMin)
	put24(b[6:9], c.PrimaryIntervalMax)
	b[9] = c.PrimaryChannelMap
	b[10] = c.OwnAddressType
	b[11] = c.PeerAddressType
	copy(b[12:18], c.PeerAddress[:])
	b[18] = c.FilterPolicy
	b[19] = byte(c.TxPower)
	b[20] = c.PrimaryPHY
	b[21] = c.SecondaryMaxSkip
	b[22] = c.SecondaryPHY
	b[23] = c.SID
	b[24] = c.ScanRequestNotifEnable
	return nil
}

// SetExtendedAdvertisingParametersRP is the command-complete return
// parameter: status plus the tx power the controller actually chose.
type SetExtendedAdvertisingParametersRP struct {
	Status  uint8
	TxPower int8
}

func (rp *SetExtendedAdvertisingParametersRP) Unmarshal(b []byte) error {
	if len(b) < 2 {
		return fmt.Errorf("hciopcode: short return parameters")
	}
	rp.Status = b[0]
	rp.TxPower = int8(b[1])
	return nil
}

// SetAdvertisingSetRandomAddress is LE Set Advertising Set Random
// Address [Core 5.0, Vol 2, Part E, 7.8.52].
type SetAdvertisingSetRandomAddress struct {
	AdvertisingHandle uint8
	RandomAddress     [6]byte
}

func (c *SetAdvertisingSetRandomAddress) OpCode() uint16 { return OpSetAdvertisingSetRandomAddress }
func (c *SetAdvertisingSetRandomAddress) Len() int        { return 7 }
func (c *SetAdvertisingSetRandomAddress) Marshal(b []byte) error {
	if len(b) < c.Len() {
		return fmt.Errorf("hciopcode: buffer too small for SetAdvertisingSetRandomAddress")
	}
	b[0] = c.AdvertisingHandle
	copy(b[1:7], c.RandomAddress[:])
	return nil
}

// SetExtendedAdvertisingData is LE Set Extended Advertising Data
// [Core 5.0, Vol 2, Part E, 7.8.54] — the fragment-tagged data command
// the Fragmenter (bleadv.fragmentAll) drives.
type SetExtendedAdvertisingData struct {
	AdvertisingHandle   uint8
	Operation           uint8
	FragmentPreference  uint8
	DataLength          uint8
	Data                []byte
}

func (c *SetExtendedAdvertisingData) OpCode() uint16 { return OpSetExtendedAdvertisingData }
func (c *SetExtendedAdvertisingData) Len() int        { return 4 + int(c.DataLength) }
func (c *SetExtendedAdvertisingData) Marshal(b []byte) error {
	if len(b) < c.Len() {
		return fmt.Errorf("hciopcode: buffer too small for SetExtendedAdvertisingData")
	}
	b[0] = c.AdvertisingHandle
	b[1] = c.Operation
	b[2] = c.FragmentPreference
	b[3] = c.DataLength
	copy(b[4:4+int(c.DataLength)], c.Data)
	return nil
}

// SetExtendedScanResponseData mirrors SetExtendedAdvertisingData for
// scan-response payloads [Core 5.0, Vol 2, Part E, 7.8.55].
type SetExtendedScanResponseData SetExtendedAdvertisingData

func (c *SetExtendedScanResponseData) OpCode() uint16 { return OpSetExtendedScanResponseData }
func (c *SetExtendedScanResponseData) Len() int        { return 4 + int(c.DataLength) }
func (c *SetExtendedScanResponseData) Marshal(b []byte) error {
	return (*SetExtendedAdvertisingData)(c).Marshal(b)
}

// SetExtendedAdvertisingEnable is LE Set Extended Advertising Enable
// [Core 5.0, Vol 2, Part E, 7.8.56], restricted to the single-set form
// this manager needs.
type SetExtendedAdvertisingEnable struct {
	Enable                   uint8
	AdvertisingHandle        uint8
	Duration                 uint16
	MaxExtendedAdvertisingEvents uint8
}

func (c *SetExtendedAdvertisingEnable) OpCode() uint16 { return OpSetExtendedAdvertisingEnable }
func (c *SetExtendedAdvertisingEnable) Len() int        { return 6 }
func (c *SetExtendedAdvertisingEnable) Marshal(b []byte) error {
	if len(b) < c.Len() {
		return fmt.Errorf("hciopcode: buffer too small for SetExtendedAdvertisingEnable")
	}
	b[0] = c.Enable
	b[1] = 0x01 // Num_Sets: always one set in this manager's usage
	b[2] = c.AdvertisingHandle
	binary.LittleEndian.PutUint16(b[3:5], c.Duration)
	b[5] = c.MaxExtendedAdvertisingEvents
	return nil
}

// StatusOnlyRP is the return-parameter shape shared by every command
// whose completion carries nothing but a status byte.
type StatusOnlyRP struct{ Status uint8 }

func (rp *StatusOnlyRP) Unmarshal(b []byte) error {
	if len(b) < 1 {
		return fmt.Errorf("hciopcode: short return parameters")
	}
	rp.Status = b[0]
	return nil
}

func put24(b []byte, v uint32) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
}
