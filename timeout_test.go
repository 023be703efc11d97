package bleadv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnableWithTimeoutArmsAndFiresTimer(t *testing.T) {
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(1) }}
	alarms := newFakeAlarmService()
	m := newTestManager(t, hci, WithAlarmService(alarms))

	var regID uint8
	m.RegisterAdvertiser(func(instID uint8, status Status) { regID = instID })

	var enableStatus Status
	var enableCalled bool
	var timeoutStatus Status
	var timeoutCalled bool

	m.Enable(regID, true, 5, func(status Status) {
		timeoutCalled = true
		timeoutStatus = status
	}, func(status Status) {
		enableCalled = true
		enableStatus = status
	})

	require.True(t, enableCalled)
	assert.Equal(t, StatusSuccess, enableStatus)
	assert.False(t, timeoutCalled, "timeout callback must not fire before the timer expires")

	alarms.FireAll()

	assert.True(t, timeoutCalled)
	assert.Equal(t, StatusSuccess, timeoutStatus)
}

func TestEnableWithoutTimeoutNeverArmsTimer(t *testing.T) {
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(1) }}
	alarms := newFakeAlarmService()
	m := newTestManager(t, hci, WithAlarmService(alarms))

	var regID uint8
	m.RegisterAdvertiser(func(instID uint8, status Status) { regID = instID })

	m.Enable(regID, true, 0, func(Status) { t.Fatal("timeout callback should never fire") }, func(Status) {})

	assert.Nil(t, m.instances[regID].timeoutTimer)
}

func TestEnableOnUnusedInstanceReportsFailure(t *testing.T) {
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(1) }}
	m := newTestManager(t, hci)

	var gotStatus Status
	m.Enable(0, true, 0, nil, func(status Status) { gotStatus = status })

	assert.Equal(t, StatusFailure, gotStatus)
}

func TestEnableWithBadInstanceIDIsSilentlyDropped(t *testing.T) {
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(1) }}
	m := newTestManager(t, hci)

	called := false
	m.Enable(200, true, 0, nil, func(Status) { called = true })

	assert.False(t, called)
}

func TestUnregisterCancelsArmedTimeoutTimer(t *testing.T) {
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(1) }}
	alarms := newFakeAlarmService()
	m := newTestManager(t, hci, WithAlarmService(alarms))

	var regID uint8
	m.RegisterAdvertiser(func(instID uint8, status Status) { regID = instID })
	m.Enable(regID, true, 10, func(Status) {}, func(Status) {})
	require.NotNil(t, m.instances[regID].timeoutTimer)

	m.Unregister(regID)

	assert.Nil(t, m.instances[regID].timeoutTimer)
	assert.False(t, m.instances[regID].inUse)
}
