// Package uart provides an H4-over-serial HCI transport, for
// controllers reachable only over a UART rather than a local
// AF_BLUETOOTH socket. It is grounded on the teacher's
// linux/hci/h4 package: same framing state machine (read a 3-byte
// header, then exactly as many payload bytes as the header names),
// rehomed onto github.com/jacobsa/go-serial since that is the serial
// library actually named in the teacher's dependency list.
package uart

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/jacobsa/go-serial/serial"
	"github.com/pkg/errors"
)

// Packet type octets [Core 5.0, Vol 4, Part A, 2].
const (
	PacketTypeCommand = 0x01
	PacketTypeEvent   = 0x04
)

// eventHeaderLen and eventLenOffset describe the 3-byte HCI event
// header (packet type, event code, parameter length); this manager
// only ever reads events off the wire, matching h4.go's own
// BT_H4_EVT_PKT-only assumption.
const (
	eventHeaderLen  = 3
	eventLenOffset  = 2
)

const (
	rxQueueSize    = 64
	frameStaleness = 500 * time.Millisecond
)

// Transport is an H4-framed io.ReadWriteCloser over a serial port. It
// reassembles inbound bytes into whole HCI packets (type octet
// included) before handing them to Read, and writes outbound packets
// unframed-through, since the caller (hciadapter) already prefixes
// the packet type octet per Core spec.
type Transport struct {
	sp io.ReadWriteCloser

	wmu sync.Mutex

	frame        []byte
	frameStarted time.Time

	rxQueue chan []byte
	done    chan struct{}
	cmu     sync.Mutex
}

// Open opens the named serial port at the given baud rate, with the
// byte framing fixed at 8 data bits and 1 stop bit, and starts the H4
// reassembly loop.
func Open(portName string, baudRate uint) (*Transport, error) {
	opts := serial.OpenOptions{
		PortName:              portName,
		BaudRate:              baudRate,
		DataBits:              8,
		StopBits:              1,
		MinimumReadSize:       0,
		InterCharacterTimeout: 100,
	}
	sp, err := serial.Open(opts)
	if err != nil {
		return nil, errors.Wrap(err, "uart: can't open serial port")
	}

	t := &Transport{
		sp:      sp,
		rxQueue: make(chan []byte, rxQueueSize),
		done:    make(chan struct{}),
	}
	go t.rxLoop()
	return t, nil
}

func (t *Transport) Read(p []byte) (int, error) {
	if !t.isOpen() {
		return 0, io.EOF
	}
	select {
	case pkt := <-t.rxQueue:
		if len(p) < len(pkt) {
			return 0, fmt.Errorf("uart: read buffer too small for %d-byte packet", len(pkt))
		}
		return copy(p, pkt), nil
	case <-t.done:
		return 0, io.EOF
	case <-time.After(time.Second):
		return 0, nil
	}
}

func (t *Transport) Write(p []byte) (int, error) {
	if !t.isOpen() {
		return 0, io.EOF
	}
	t.wmu.Lock()
	defer t.wmu.Unlock()
	n, err := t.sp.Write(p)
	return n, errors.Wrap(err, "uart: write failed")
}

func (t *Transport) Close() error {
	t.cmu.Lock()
	defer t.cmu.Unlock()
	select {
	case <-t.done:
		return nil
	default:
		close(t.done)
		return errors.Wrap(t.sp.Close(), "uart: close failed")
	}
}

func (t *Transport) isOpen() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

func (t *Transport) rxLoop() {
	tmp := make([]byte, 512)
	for {
		select {
		case <-t.done:
			return
		default:
		}
		n, err := t.sp.Read(tmp)
		if err != nil || n == 0 {
			continue
		}
		t.assemble(tmp[:n])
	}
}

// assemble is the h4.go frameAssemble state machine: read the 3-byte
// event header, then exactly as many payload bytes as it names.
func (t *Transport) assemble(b []byte) {
	if len(b) == 0 {
		return
	}
	if t.frame == nil || time.Now().After(t.frameStarted.Add(frameStaleness)) {
		t.resetFrame()
	}

	start := 0
	if len(t.frame) == 0 {
		if b[0] != PacketTypeEvent || len(b) < eventHeaderLen {
			return
		}
		t.frame = append(t.frame, b[:eventHeaderLen]...)
		start = eventHeaderLen
	}

	expected := int(t.frame[eventLenOffset])
	rem := b[start:]
	remaining := expected - (len(t.frame) - eventHeaderLen)

	var done, more []byte
	switch {
	case len(rem) < remaining:
		t.frame = append(t.frame, rem...)
	case len(rem) == remaining:
		done = append(t.frame, rem...)
	default:
		done = append(t.frame, rem[:remaining]...)
		more = rem[remaining:]
	}

	if done != nil {
		t.rxQueue <- done
		t.resetFrame()
	}
	if len(more) != 0 {
		t.assemble(more)
	}
}

func (t *Transport) resetFrame() {
	t.frame = nil
	t.frameStarted = time.Now()
}

var _ io.ReadWriteCloser = (*Transport)(nil)
