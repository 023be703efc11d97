package bleadv

import (
	"time"

	"github.com/pkg/errors"
)

// Manager owns the fixed pool of hardware advertising instances and
// drives every operation in spec.md §4 against them. One Manager is
// constructed per controller, via NewManager; there is no package-level
// singleton — callers obtain an instance through the factory and pass
// it around, matching the Go-idiomatic "interface obtained via a
// single factory" alternative spec.md §9's design notes call out in
// place of the original's process-wide Initialize/Get/CleanUp.
type Manager struct {
	hci      HCIInterface
	queue    Queue
	alarms   AlarmService
	security SecurityProvider
	logger   Logger

	privacyEnabled  bool
	privacyInterval uint32 // milliseconds

	publicAddr  Address
	aclObserver ACLObserver

	instances []*instance
	rpa       *rpaRotator
}

// NewManager constructs a Manager. It issues the one ReadInstanceCount
// query spec.md §4.1 describes before returning, and applies the
// initialisation quirk of §4.9 synchronously, so a handle-0 quirk can
// never be observed by a caller racing construction.
func NewManager(hci HCIInterface, opts ...Option) (*Manager, error) {
	if hci == nil {
		return nil, errors.New("bleadv: HCIInterface is required")
	}

	m := &Manager{
		hci:             hci,
		queue:           NewSerialQueue(),
		alarms:          NewTimeAlarmService(),
		security:        nil,
		logger:          GetLogger(),
		privacyInterval: defaultPrivateAddrIntervalMS,
	}

	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, errors.Wrap(err, "bleadv: applying option")
		}
	}

	if m.privacyEnabled && m.security == nil {
		return nil, errors.New("bleadv: privacy enabled but no SecurityProvider configured")
	}
	m.rpa = newRPARotator(m.security)

	var count uint8
	done := make(chan struct{})
	hci.ReadInstanceCount(func(n uint8) {
		count = n
		close(done)
	})
	<-done

	m.instances = make([]*instance, count)
	for i := range m.instances {
		m.instances[i] = &instance{
			id:         uint8(i),
			raddrTimer: m.alarms.NewPeriodicAlarm("bleadv.adv_raddr_timer"),
		}
	}

	if hci.QuirkAdvertiserZeroHandle() {
		m.RegisterAdvertiser(func(uint8, Status) {})
	}

	hci.SetAdvertisingSetTerminatedObserver(m.OnAdvertisingSetTerminated)

	return m, nil
}

// defaultPrivateAddrIntervalMS is the device privacy interval
// (spec.md §4.4's BLE_PRIVATE_ADDR_INT_MS), the default RPA rotation
// period: 15 minutes, the value the Bluetooth SIG recommends and the
// original stack hard-codes.
const defaultPrivateAddrIntervalMS = 15 * 60 * 1000

// Close stops the manager's execution queue. It does not affect
// already-armed controller state.
func (m *Manager) Close() {
	if q, ok := m.queue.(*serialQueue); ok {
		q.Close()
	}
}

func (m *Manager) validInstanceID(instID uint8) bool {
	return int(instID) < len(m.instances)
}

// RegisterAdvertiser is component C1's allocation operation (spec.md
// §4.1). It scans the table in index order for the first free slot.
func (m *Manager) RegisterAdvertiser(cb func(instID uint8, status Status)) {
	m.queue.Post(func() {
		for _, inst := range m.instances {
			if inst.inUse {
				continue
			}

			inst.inUse = true

			if m.privacyEnabled {
				inst.ownAddrType = AddressTypeRandom
				m.rpa.generate(inst, func() {
					inst.raddrTimer.SetOnQueue(msToDuration(m.privacyInterval), m.queue, func() {
						m.rotateRPA(inst)
					})
					cb(inst.id, StatusSuccess)
				})
			} else {
				inst.ownAddrType = AddressTypePublic
				inst.ownAddr = m.publicAddr
				cb(inst.id, StatusSuccess)
			}
			return
		}

		m.logger.Info("bleadv: no free advertiser instance")
		cb(InvalidInstanceID, StatusTooManyAdvertisers)
	})
}

// rotateRPA is the periodic timer's fire handler (component C4):
// generate a fresh address, push it to the controller, then rearm.
func (m *Manager) rotateRPA(inst *instance) {
	m.rpa.configure(inst, m.hci)
	inst.raddrTimer.SetOnQueue(msToDuration(m.privacyInterval), m.queue, func() {
		m.rotateRPA(inst)
	})
}

// Unregister releases inst_id: best-effort disable, cancel its RPA
// timer, cancel and free any armed timeout timer, and clear in_use.
// Per spec.md §5's resource-ownership rules this is a superset of the
// original's cleanup (which left a raced timeout_timer armed); every
// explicit disable path, including this one, retires the timer.
func (m *Manager) Unregister(instID uint8) {
	m.queue.Post(func() {
		if !m.validInstanceID(instID) {
			m.logger.Errorf("bleadv: bad instance id %d", instID)
			return
		}

		inst := m.instances[instID]

		m.hci.Enable(false, instID, 0x0000, 0x00, func(Status) {})
		inst.raddrTimer.Cancel()
		m.cancelTimeout(inst)
		inst.inUse = false
	})
}

func (m *Manager) cancelTimeout(inst *instance) {
	if inst.timeoutTimer != nil {
		inst.timeoutTimer.Cancel()
		inst.timeoutTimer.Free()
		inst.timeoutTimer = nil
		inst.timeoutS = 0
	}
}

func msToDuration(ms uint32) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
