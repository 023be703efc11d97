// Package hciadapter is a concrete bleadv.HCIInterface backed by any
// io.ReadWriteCloser HCI transport (transport/hcisocket,
// transport/uart, or a test double). It is grounded on the teacher's
// linux/hci package: an opcode-keyed "sent" map correlates outbound
// commands with their Command Complete / Command Status completions,
// and a read loop demultiplexes inbound events the same way
// HCI.sktReadLoop/handleEvt/handleLEMeta do.
package hciadapter

import (
	"encoding/binary"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/rigado/bleadv"
	"github.com/rigado/bleadv/hciopcode"
)

const (
	pktTypeCommand = 0x01
	pktTypeEvent   = 0x04

	evtCommandCompleteCode = 0x0E
	evtCommandStatusCode   = 0x0F

	cmdTimeout = 3 * time.Second
)

type pending struct {
	done chan []byte
}

// Adapter implements bleadv.HCIInterface over a raw HCI transport.
type Adapter struct {
	skt io.ReadWriteCloser

	muSent sync.Mutex
	sent   map[uint16]*pending

	terminatedObserver func(status bleadv.Status, handle uint8, connHandle uint16, numCompletedExtendedAdvEvents uint8)

	quirkZeroHandle bool

	logger bleadv.Logger

	done chan struct{}
}

// New wraps a transport in an HCIInterface. quirkZeroHandle is what
// QuirkAdvertiserZeroHandle reports: set it for controllers on which
// advertising handle 0 is unusable, so the manager reserves it.
func New(skt io.ReadWriteCloser, quirkZeroHandle bool) *Adapter {
	a := &Adapter{
		skt:             skt,
		sent:            make(map[uint16]*pending),
		quirkZeroHandle: quirkZeroHandle,
		logger:          bleadv.GetLogger(),
		done:            make(chan struct{}),
	}
	go a.readLoop()
	return a
}

func (a *Adapter) Close() error {
	select {
	case <-a.done:
		return nil
	default:
		close(a.done)
		return errors.Wrap(a.skt.Close(), "hciadapter: close failed")
	}
}

func (a *Adapter) QuirkAdvertiserZeroHandle() bool { return a.quirkZeroHandle }

func (a *Adapter) SetAdvertisingSetTerminatedObserver(obs func(status bleadv.Status, handle uint8, connHandle uint16, numCompletedExtendedAdvEvents uint8)) {
	a.terminatedObserver = obs
}

// readNumSetsCmd is LE Read Number of Supported Advertising Sets
// [Core 5.0, Vol 2, Part E, 7.8.58], a no-argument command whose
// return parameters are status plus a one-byte count.
type readNumSetsCmd struct{}

func (readNumSetsCmd) OpCode() uint16       { return hciopcode.OpReadNumberOfSupportedAdvertisingSets }
func (readNumSetsCmd) Len() int             { return 0 }
func (readNumSetsCmd) Marshal([]byte) error { return nil }

func (a *Adapter) ReadInstanceCount(cb func(count uint8)) {
	go func() {
		b, err := a.roundTrip(readNumSetsCmd{})
		if err != nil || len(b) < 2 || b[0] != 0x00 {
			a.logger.Errorf("hciadapter: read number of supported advertising sets failed: %v", err)
			cb(0)
			return
		}
		cb(b[1])
	}()
}

func (a *Adapter) SetParameters(instID uint8, props bleadv.AdvertisingEventProperties, intMin, intMax uint16,
	channelMap uint8, ownAddrType bleadv.AddressType, ownAddr bleadv.Address,
	peerAddrType bleadv.AddressType, peerAddr bleadv.Address, filterPolicy uint8,
	txPower int8, primaryPHY uint8, secondaryMaxSkip uint8, secondaryPHY uint8,
	sid uint8, scanReqNotif bool, cb func(status bleadv.Status, txPower int8)) {

	notif := uint8(0)
	if scanReqNotif {
		notif = 1
	}
	cmd := &hciopcode.SetExtendedAdvertisingParameters{
		AdvertisingHandle:          instID,
		AdvertisingEventProperties: uint16(props),
		PrimaryIntervalMin:         uint32(intMin),
		PrimaryIntervalMax:         uint32(intMax),
		PrimaryChannelMap:          channelMap,
		OwnAddressType:             uint8(ownAddrType),
		PeerAddressType:            uint8(peerAddrType),
		PeerAddress:                toWireAddr(peerAddr),
		FilterPolicy:               filterPolicy,
		TxPower:                    txPower,
		PrimaryPHY:                 primaryPHY,
		SecondaryMaxSkip:           secondaryMaxSkip,
		SecondaryPHY:               secondaryPHY,
		SID:                        sid,
		ScanRequestNotifEnable:     notif,
	}
	go func() {
		b, err := a.roundTrip(cmd)
		if err != nil {
			cb(bleadv.StatusFailure, 0)
			return
		}
		rp := &hciopcode.SetExtendedAdvertisingParametersRP{}
		if err := rp.Unmarshal(b); err != nil {
			cb(bleadv.StatusFailure, 0)
			return
		}
		cb(bleadv.Status(rp.Status), rp.TxPower)
	}()
}

func (a *Adapter) SetRandomAddress(instID uint8, addr bleadv.Address, cb func(status bleadv.Status)) {
	cmd := &hciopcode.SetAdvertisingSetRandomAddress{
		AdvertisingHandle: instID,
		RandomAddress:     toWireAddr(addr),
	}
	a.simpleStatusCmd(cmd, cb)
}

func (a *Adapter) SetAdvertisingData(instID uint8, op bleadv.FragmentOp, fragPref uint8, length uint8, data []byte, cb func(status bleadv.Status)) {
	cmd := &hciopcode.SetExtendedAdvertisingData{
		AdvertisingHandle:  instID,
		Operation:          uint8(op),
		FragmentPreference: fragPref,
		DataLength:         length,
		Data:               data,
	}
	a.simpleStatusCmd(cmd, cb)
}

func (a *Adapter) SetScanResponseData(instID uint8, op bleadv.FragmentOp, fragPref uint8, length uint8, data []byte, cb func(status bleadv.Status)) {
	cmd := &hciopcode.SetExtendedScanResponseData{
		AdvertisingHandle:  instID,
		Operation:          uint8(op),
		FragmentPreference: fragPref,
		DataLength:         length,
		Data:               data,
	}
	a.simpleStatusCmd(cmd, cb)
}

func (a *Adapter) SetPeriodicAdvertisingParameters(instID uint8, intMin, intMax uint16, props uint16, cb func(status bleadv.Status)) {
	b := make([]byte, 6)
	binary.LittleEndian.PutUint16(b[0:2], intMin)
	binary.LittleEndian.PutUint16(b[2:4], intMax)
	binary.LittleEndian.PutUint16(b[4:6], props)
	a.simpleStatusCmd(&rawCmd{op: hciopcode.OpSetPeriodicAdvertisingParameters, handle: instID, payload: b}, cb)
}

func (a *Adapter) SetPeriodicAdvertisingData(instID uint8, op bleadv.FragmentOp, length uint8, data []byte, cb func(status bleadv.Status)) {
	payload := append([]byte{uint8(op), length}, data...)
	a.simpleStatusCmd(&rawCmd{op: hciopcode.OpSetPeriodicAdvertisingData, handle: instID, payload: payload}, cb)
}

func (a *Adapter) SetPeriodicAdvertisingEnable(enable bool, instID uint8, cb func(status bleadv.Status)) {
	en := uint8(0)
	if enable {
		en = 1
	}
	a.simpleStatusCmd(&rawCmd{op: hciopcode.OpSetPeriodicAdvertisingEnable, handle: instID, payload: []byte{en}}, cb)
}

func (a *Adapter) Enable(enable bool, instID uint8, duration uint16, maxExtendedAdvEvents uint8, cb func(status bleadv.Status)) {
	en := uint8(0)
	if enable {
		en = 1
	}
	cmd := &hciopcode.SetExtendedAdvertisingEnable{
		Enable:                       en,
		AdvertisingHandle:            instID,
		Duration:                     duration,
		MaxExtendedAdvertisingEvents: maxExtendedAdvEvents,
	}
	a.simpleStatusCmd(cmd, cb)
}

func (a *Adapter) simpleStatusCmd(cmd hciopcode.Command, cb func(status bleadv.Status)) {
	go func() {
		b, err := a.roundTrip(cmd)
		if err != nil {
			cb(bleadv.StatusFailure)
			return
		}
		rp := &hciopcode.StatusOnlyRP{}
		if err := rp.Unmarshal(b); err != nil {
			cb(bleadv.StatusFailure)
			return
		}
		cb(bleadv.Status(rp.Status))
	}()
}

// rawCmd is a Command whose payload is already fully encoded, for the
// periodic-advertising commands whose parameter shapes are simple
// enough not to warrant their own type in hciopcode.
type rawCmd struct {
	op      uint16
	handle  uint8
	payload []byte
}

func (c *rawCmd) OpCode() uint16 { return c.op }
func (c *rawCmd) Len() int       { return 1 + len(c.payload) }
func (c *rawCmd) Marshal(b []byte) error {
	if len(b) < c.Len() {
		return fmt.Errorf("hciadapter: buffer too small")
	}
	b[0] = c.handle
	copy(b[1:], c.payload)
	return nil
}

func toWireAddr(a bleadv.Address) [6]byte {
	var w [6]byte
	copy(w[:], a.Bytes())
	return w
}

func (a *Adapter) roundTrip(c hciopcode.Command) ([]byte, error) {
	p := &pending{done: make(chan []byte, 1)}

	a.muSent.Lock()
	if _, busy := a.sent[c.OpCode()]; busy {
		a.muSent.Unlock()
		return nil, fmt.Errorf("hciadapter: command with opcode 0x%04x already pending", c.OpCode())
	}
	a.sent[c.OpCode()] = p
	a.muSent.Unlock()

	defer func() {
		a.muSent.Lock()
		delete(a.sent, c.OpCode())
		a.muSent.Unlock()
	}()

	buf := make([]byte, 4+c.Len())
	buf[0] = pktTypeCommand
	binary.LittleEndian.PutUint16(buf[1:3], c.OpCode())
	buf[3] = byte(c.Len())
	if err := c.Marshal(buf[4:]); err != nil {
		return nil, errors.Wrap(err, "hciadapter: marshal failed")
	}

	if _, err := a.skt.Write(buf); err != nil {
		return nil, errors.Wrap(err, "hciadapter: write failed")
	}

	select {
	case b := <-p.done:
		return b, nil
	case <-a.done:
		return nil, fmt.Errorf("hciadapter: closed")
	case <-time.After(cmdTimeout):
		return nil, fmt.Errorf("hciadapter: no response to opcode 0x%04x", c.OpCode())
	}
}

func (a *Adapter) readLoop() {
	buf := make([]byte, 4096)
	for {
		select {
		case <-a.done:
			return
		default:
		}
		n, err := a.skt.Read(buf)
		if err != nil || n == 0 {
			continue
		}
		a.handlePacket(buf[:n])
	}
}

func (a *Adapter) handlePacket(b []byte) {
	if len(b) < 1 || b[0] != pktTypeEvent {
		return
	}
	b = b[1:]
	if len(b) < 2 {
		return
	}
	code, plen := b[0], int(b[1])
	body := b[2:]
	if plen != len(body) {
		return
	}
	switch code {
	case evtCommandCompleteCode:
		if len(body) < 1 {
			return
		}
		a.dispatchCompletion(body[1:]) // skip Num_HCI_Command_Packets
	case evtCommandStatusCode:
		a.dispatchStatus(body)
	case hciopcode.LEMetaEventCode:
		a.handleLEMeta(body)
	}
}

func (a *Adapter) dispatchCompletion(b []byte) {
	if len(b) < 2 {
		return
	}
	opcode := binary.LittleEndian.Uint16(b[0:2])
	rp := b[2:]

	a.muSent.Lock()
	p, ok := a.sent[opcode]
	a.muSent.Unlock()
	if !ok {
		return
	}
	select {
	case p.done <- rp:
	default:
	}
}

func (a *Adapter) dispatchStatus(b []byte) {
	if len(b) < 4 {
		return
	}
	status := b[0]
	opcode := binary.LittleEndian.Uint16(b[2:4])

	a.muSent.Lock()
	p, ok := a.sent[opcode]
	a.muSent.Unlock()
	if !ok {
		return
	}
	select {
	case p.done <- []byte{status}:
	default:
	}
}

func (a *Adapter) handleLEMeta(b []byte) {
	if len(b) < 1 {
		return
	}
	if b[0] != hciopcode.SubeventAdvertisingSetTerminated {
		return
	}
	if len(b) < 6 || a.terminatedObserver == nil {
		return
	}
	status := bleadv.Status(b[1])
	handle := b[2]
	connHandle := binary.LittleEndian.Uint16(b[3:5])
	numEvents := b[5]
	a.terminatedObserver(status, handle, connHandle, numEvents)
}

var _ bleadv.HCIInterface = (*Adapter)(nil)
