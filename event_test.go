package bleadv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingACLObserver struct {
	connHandle uint16
	addr       Address
	called     bool
}

func (o *recordingACLObserver) UpdateConnectionAddress(connHandle uint16, addr Address) {
	o.called = true
	o.connHandle = connHandle
	o.addr = addr
}

func TestOnAdvertisingSetTerminatedReEnablesUndirectedSet(t *testing.T) {
	var enableCalls []bool
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(1) }}
	hci.onEnable = func(enable bool, instID uint8, duration uint16, maxEvents uint8, cb func(status Status)) {
		enableCalls = append(enableCalls, enable)
		cb(StatusSuccess)
	}
	m := newTestManager(t, hci)

	var regID uint8
	m.RegisterAdvertiser(func(instID uint8, status Status) { regID = instID })

	m.OnAdvertisingSetTerminated(StatusSuccess, regID, 0x0040, 0)

	require.NotEmpty(t, enableCalls)
	assert.True(t, enableCalls[len(enableCalls)-1])
}

func TestOnAdvertisingSetTerminatedClearsDirectedSet(t *testing.T) {
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(1) }}
	m := newTestManager(t, hci)

	var regID uint8
	m.RegisterAdvertiser(func(instID uint8, status Status) { regID = instID })
	m.instances[regID].props = AdvPropDirectedMask

	m.OnAdvertisingSetTerminated(StatusSuccess, regID, 0x0041, 1)

	assert.False(t, m.instances[regID].inUse)
}

func TestOnAdvertisingSetTerminatedNotifiesACLObserverWhenPrivacyEnabled(t *testing.T) {
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(1) }}
	obs := &recordingACLObserver{}
	sec := &fakeSecurity{}
	m := newTestManager(t, hci, WithPrivacy(sec), WithACLObserver(obs))

	var regID uint8
	m.RegisterAdvertiser(func(instID uint8, status Status) { regID = instID })

	m.OnAdvertisingSetTerminated(StatusSuccess, regID, 0x0099, 0)

	assert.True(t, obs.called)
	assert.Equal(t, uint16(0x0099), obs.connHandle)
}

func TestOnAdvertisingSetTerminatedIgnoresBadInstanceID(t *testing.T) {
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(1) }}
	m := newTestManager(t, hci)

	assert.NotPanics(t, func() {
		m.OnAdvertisingSetTerminated(StatusFailure, 0xFE, 0, 0)
	})
}
