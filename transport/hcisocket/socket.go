// +build linux

// Package hcisocket opens a raw HCI user-channel socket to a local
// Bluetooth controller, for use as the transport underneath
// hciadapter. It is grounded on the teacher's linux/hci/socket package,
// trimmed to the single-device open path this manager needs (no
// device-list enumeration, since bleadvctl always names a device).
package hcisocket

import (
	"io"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const (
	ioctlSize      = 4
	typHCI         = 72 // 'H'
	readTimeoutMS  = 1000
	unixPollErrors = int16(unix.POLLHUP | unix.POLLNVAL | unix.POLLERR)
	unixPollDataIn = int16(unix.POLLIN)
)

func ioW(t, nr, size uintptr) uintptr {
	return (1 << 30) | (t << 8) | nr | (size << 16)
}

var hciDownDevice = ioW(typHCI, 202, ioctlSize) // HCIDEVDOWN

func ioctl(fd, op, arg uintptr) error {
	if _, _, ep := unix.Syscall(unix.SYS_IOCTL, fd, op, arg); ep != 0 {
		return ep
	}
	return nil
}

// Socket is a raw AF_BLUETOOTH/BTPROTO_HCI user-channel connection to
// one controller, implementing io.ReadWriteCloser.
type Socket struct {
	fd   int
	rmu  sync.Mutex
	wmu  sync.Mutex
	cmu  sync.Mutex
	done chan struct{}
}

// Open binds a HCI_CHANNEL_USER socket to the controller at the given
// HCI device id (e.g. 0 for hci0). Open brings the device down itself
// before binding; the user channel requires exclusive access, so no
// other user may hold the device.
func Open(devID int) (*Socket, error) {
	fd, err := unix.Socket(unix.AF_BLUETOOTH, unix.SOCK_RAW, unix.BTPROTO_HCI)
	if err != nil {
		return nil, errors.Wrap(err, "hcisocket: can't create socket")
	}

	if err := ioctl(uintptr(fd), hciDownDevice, uintptr(devID)); err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, "hcisocket: can't down device")
	}

	sa := unix.SockaddrHCI{Dev: uint16(devID), Channel: unix.HCI_CHANNEL_USER}
	if err := unix.Bind(fd, &sa); err != nil {
		unix.Close(fd)
		return nil, errors.Wrap(err, "hcisocket: can't bind to hci user channel")
	}

	// Drain whatever the controller queued up before the bind.
	pfds := []unix.PollFd{{Fd: int32(fd), Events: unixPollDataIn}}
	unix.Poll(pfds, 20)
	if pfds[0].Revents&unixPollDataIn != 0 {
		b := make([]byte, 2048)
		unix.Read(fd, b)
	}

	return &Socket{fd: fd, done: make(chan struct{})}, nil
}

func (s *Socket) Read(p []byte) (int, error) {
	if !s.isOpen() {
		return 0, io.EOF
	}

	s.rmu.Lock()
	defer s.rmu.Unlock()

	pfds := []unix.PollFd{{Fd: int32(s.fd), Events: unixPollDataIn}}
	unix.Poll(pfds, readTimeoutMS)
	evts := pfds[0].Revents

	switch {
	case evts&unixPollErrors != 0:
		return 0, io.EOF
	case evts&unixPollDataIn != 0:
		n, err := unix.Read(s.fd, p)
		if !s.isOpen() {
			return 0, io.EOF
		}
		return n, errors.Wrap(err, "hcisocket: read failed")
	default:
		return 0, nil // poll timeout, no data
	}
}

func (s *Socket) Write(p []byte) (int, error) {
	if !s.isOpen() {
		return 0, io.EOF
	}
	s.wmu.Lock()
	defer s.wmu.Unlock()
	n, err := unix.Write(s.fd, p)
	return n, errors.Wrap(err, "hcisocket: write failed")
}

func (s *Socket) Close() error {
	s.cmu.Lock()
	defer s.cmu.Unlock()
	select {
	case <-s.done:
		return nil
	default:
		close(s.done)
		s.rmu.Lock()
		err := unix.Close(s.fd)
		s.rmu.Unlock()
		return errors.Wrap(err, "hcisocket: close failed")
	}
}

func (s *Socket) isOpen() bool {
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

var _ io.ReadWriteCloser = (*Socket)(nil)

// waitOpenDelay is how long OpenRetry retries a busy device before giving
// up, mirroring the teacher's 60-second retry window for a device that
// is still being released by a previous user-channel owner.
const waitOpenDelay = 60 * time.Second

// OpenRetry retries Open until it succeeds or waitOpenDelay elapses,
// for callers racing a controller that's still tearing down a prior
// session (e.g. right after hciconfig hciX down).
func OpenRetry(devID int) (*Socket, error) {
	deadline := time.Now().Add(waitOpenDelay)
	var lastErr error
	for time.Now().Before(deadline) {
		s, err := Open(devID)
		if err == nil {
			return s, nil
		}
		lastErr = err
		time.Sleep(time.Second)
	}
	return nil, lastErr
}
