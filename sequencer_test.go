package bleadv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, hci HCIInterface, opts ...Option) *Manager {
	t.Helper()
	allOpts := append([]Option{WithQueue(NewSyncQueue()), WithPublicAddress(Address{1, 2, 3, 4, 5, 6})}, opts...)
	m, err := NewManager(hci, allOpts...)
	require.NoError(t, err)
	return m
}

func TestStartAdvertisingSetHappyPath(t *testing.T) {
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(2) }}
	m := newTestManager(t, hci)

	var gotInst uint8
	var gotTxPower int8
	var gotStatus Status
	m.StartAdvertisingSet(AdvParams{TxPower: -4}, nil, nil, PeriodicAdvParams{}, nil, 0, nil,
		func(instID uint8, txPower int8, status Status) {
			gotInst, gotTxPower, gotStatus = instID, txPower, status
		})

	assert.Equal(t, StatusSuccess, gotStatus)
	assert.Equal(t, uint8(0), gotInst)
	assert.Equal(t, int8(-4), gotTxPower)
}

func TestStartAdvertisingSetWithPeriodicAddOn(t *testing.T) {
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(1) }}
	m := newTestManager(t, hci)

	var periodicCalls []string
	hci.onSetPeriodicAdvParams = func(instID uint8, intMin, intMax uint16, props uint16, cb func(status Status)) {
		periodicCalls = append(periodicCalls, "params")
		cb(StatusSuccess)
	}
	hci.onSetPeriodicAdvData = func(instID uint8, op FragmentOp, length uint8, data []byte, cb func(status Status)) {
		periodicCalls = append(periodicCalls, "data")
		cb(StatusSuccess)
	}
	hci.onSetPeriodicAdvEnable = func(enable bool, instID uint8, cb func(status Status)) {
		periodicCalls = append(periodicCalls, "enable")
		cb(StatusSuccess)
	}

	var gotStatus Status
	m.StartAdvertisingSet(AdvParams{}, nil, nil, PeriodicAdvParams{Enable: true}, nil, 0, nil,
		func(instID uint8, txPower int8, status Status) { gotStatus = status })

	assert.Equal(t, StatusSuccess, gotStatus)
	assert.Equal(t, []string{"params", "data", "enable"}, periodicCalls)
}

func TestStartAdvertisingSetUnregistersOnMidChainFailure(t *testing.T) {
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(1) }}
	hci.onSetRandomAddress = func(instID uint8, addr Address, cb func(status Status)) {
		cb(StatusFailure)
	}
	m := newTestManager(t, hci)

	var gotStatus Status
	m.StartAdvertisingSet(AdvParams{}, nil, nil, PeriodicAdvParams{}, nil, 0, nil,
		func(instID uint8, txPower int8, status Status) { gotStatus = status })

	assert.Equal(t, StatusFailure, gotStatus)
	// Unregister clears in_use; registering again should reuse slot 0.
	var reRegistered uint8 = InvalidInstanceID
	m.RegisterAdvertiser(func(instID uint8, status Status) {
		require.Equal(t, StatusSuccess, status)
		reRegistered = instID
	})
	assert.Equal(t, uint8(0), reRegistered)
}

func TestStartAdvertisingSetReportsStatusTooManyAdvertisers(t *testing.T) {
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(0) }}
	m := newTestManager(t, hci)

	var gotStatus Status
	m.StartAdvertisingSet(AdvParams{}, nil, nil, PeriodicAdvParams{}, nil, 0, nil,
		func(instID uint8, txPower int8, status Status) { gotStatus = status })

	assert.Equal(t, StatusTooManyAdvertisers, gotStatus)
}

func TestStartAdvertisingOnExistingInstance(t *testing.T) {
	hci := &stubHCI{onReadInstanceCount: func(cb func(count uint8)) { cb(1) }}
	m := newTestManager(t, hci)

	var regID uint8
	m.RegisterAdvertiser(func(instID uint8, status Status) {
		require.Equal(t, StatusSuccess, status)
		regID = instID
	})

	var gotStatus Status
	m.StartAdvertising(regID, AdvParams{}, nil, nil, 0, nil, func(status Status) { gotStatus = status })

	assert.Equal(t, StatusSuccess, gotStatus)
}
