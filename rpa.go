package bleadv

import "github.com/rigado/bleadv/sliceops"

// resolveAddrMask/MSB implement the top-two-bit stamp spec.md §4.4
// requires: clear both bits then set the RPA tag (0b01).
const (
	resolveAddrMask byte = 0xC0
	resolveAddrMSB  byte = 0x40
)

// rpaRotator is component C4. It owns nothing persistent itself —
// every mutation lands on the instance the caller passes in — so a
// single rotator is shared by every instance's periodic timer.
type rpaRotator struct {
	security SecurityProvider
}

func newRPARotator(security SecurityProvider) *rpaRotator {
	return &rpaRotator{security: security}
}

// generate produces a fresh RPA for inst and writes it into
// inst.ownAddr, then calls done. Split out from configure (which also
// pushes the address to the controller) because RegisterAdvertiser
// only needs the address written before the RPA rotation timer is
// armed, while the timer's own fire handler needs the controller push
// too — see SPEC_FULL.md §4 item 2.
func (r *rpaRotator) generate(inst *instance, done func()) {
	r.security.GenResolvablePrivateAddr(func(rnd [8]byte) {
		rnd[2] &^= resolveAddrMask
		rnd[2] |= resolveAddrMSB

		prand := [3]byte{rnd[0], rnd[1], rnd[2]}
		copy(inst.ownAddr[0:3], sliceops.SwapBuf(prand[:]))

		var block [16]byte
		copy(block[0:3], prand[:])

		hash, err := encryptBlock(r.security.IRK(), block)
		if err != nil {
			// Without a resolvable hash there is no valid RPA to
			// hand the controller; leave the address alone rather
			// than push a malformed one.
			return
		}
		copy(inst.ownAddr[3:6], sliceops.SwapBuf(hash[0:3]))

		done()
	})
}

// configure generates a fresh RPA for inst and pushes it to the
// controller via SetRandomAddress, ignoring the completion status —
// matches the original's Bind(DoNothing) push-and-forget, since a
// failed address push just means the old address stays live until
// the next rotation.
func (r *rpaRotator) configure(inst *instance, hci HCIInterface) {
	r.generate(inst, func() {
		hci.SetRandomAddress(inst.id, inst.ownAddr, func(Status) {})
	})
}
