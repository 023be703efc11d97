package bleadv

import "time"

// Option configures a Manager at construction, following the
// teacher's functional-options shape (its DeviceOption pattern)
// generalized from an interface-backed option surface to a
// plain struct since Manager has no platform-specific implementation
// to hide behind an interface.
type Option func(*Manager) error

// WithPrivacy enables resolvable-private-address rotation. Every
// instance registered afterwards gets own_address_type=RANDOM and a
// periodically-rotated RPA, per spec.md §4.1/§4.4.
func WithPrivacy(security SecurityProvider) Option {
	return func(m *Manager) error {
		m.privacyEnabled = true
		m.security = security
		return nil
	}
}

// WithPublicAddress sets the controller's public address, copied
// verbatim into own_address for instances registered while privacy is
// disabled (spec.md §4.1). It is the Go analogue of the original
// stack's one-time controller_get_interface()->get_address() read.
func WithPublicAddress(addr Address) Option {
	return func(m *Manager) error {
		m.publicAddr = addr
		return nil
	}
}

// WithPrivacyInterval overrides the RPA rotation period (spec.md
// §4.4's BLE_PRIVATE_ADDR_INT_MS); the default is 15 minutes.
func WithPrivacyInterval(d time.Duration) Option {
	return func(m *Manager) error {
		m.privacyInterval = uint32(d / time.Millisecond)
		return nil
	}
}

// WithLogger overrides the package default logrus-backed logger.
func WithLogger(l Logger) Option {
	return func(m *Manager) error {
		m.logger = l
		return nil
	}
}

// WithQueue overrides the serial execution queue. Tests use
// NewSyncQueue() for deterministic, synchronous behavior.
func WithQueue(q Queue) Option {
	return func(m *Manager) error {
		m.queue = q
		return nil
	}
}

// WithAlarmService overrides the timer collaborator (spec.md §6's
// alarm service contract). Tests substitute a fake that fires only
// under manual control.
func WithAlarmService(a AlarmService) Option {
	return func(m *Manager) error {
		m.alarms = a
		return nil
	}
}

// WithACLObserver installs the connection-layer collaborator notified
// on advertising-set termination when privacy is enabled (spec.md
// §4.8). Without this option, termination events are handled but no
// address-update notification is delivered anywhere.
func WithACLObserver(o ACLObserver) Option {
	return func(m *Manager) error {
		m.aclObserver = o
		return nil
	}
}
