package bleadv

import (
	"testing"

	"github.com/rigado/bleadv/sliceops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSecurity returns a fixed random block and IRK, so address
// generation is fully deterministic for assertions.
type fakeSecurity struct {
	rnd [8]byte
	irk [16]byte
}

func (f *fakeSecurity) GenResolvablePrivateAddr(cb func(r [8]byte)) { cb(f.rnd) }
func (f *fakeSecurity) IRK() [16]byte                               { return f.irk }

func TestRPAGenerateStampsResolvableTag(t *testing.T) {
	sec := &fakeSecurity{rnd: [8]byte{0x01, 0x02, 0xFF, 0, 0, 0, 0, 0}}
	r := newRPARotator(sec)
	inst := &instance{id: 0}

	called := false
	r.generate(inst, func() { called = true })

	require.True(t, called)
	// SwapBuf reverses [R0,R1,R2_masked] to [R2_masked,R1,R0], so the
	// masked/tagged byte lands at ownAddr[0], not ownAddr[2].
	assert.Equal(t, resolveAddrMSB, inst.ownAddr[0]&resolveAddrMask)
}

func TestRPAGenerateReversesPrandByteOrder(t *testing.T) {
	sec := &fakeSecurity{rnd: [8]byte{0x11, 0x22, 0x33, 0, 0, 0, 0, 0}}
	r := newRPARotator(sec)
	inst := &instance{id: 0}

	r.generate(inst, func() {})

	taggedThird := (byte(0x33) &^ resolveAddrMask) | resolveAddrMSB
	want := sliceops.SwapBuf([]byte{0x11, 0x22, taggedThird})
	assert.Equal(t, want, inst.ownAddr[0:3])
}

func TestRPAConfigurePushesAddressToController(t *testing.T) {
	sec := &fakeSecurity{}
	r := newRPARotator(sec)
	inst := &instance{id: 2}

	var pushedAddr Address
	var pushedInst uint8
	hci := &stubHCI{
		onSetRandomAddress: func(instID uint8, addr Address, cb func(status Status)) {
			pushedInst = instID
			pushedAddr = addr
			cb(StatusSuccess)
		},
	}

	r.configure(inst, hci)

	assert.Equal(t, uint8(2), pushedInst)
	assert.Equal(t, inst.ownAddr, pushedAddr)
}
