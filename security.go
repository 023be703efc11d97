package bleadv

import (
	"crypto/aes"
	"crypto/rand"
)

// SecurityProvider is the security-module collaborator this package
// consumes for resolvable private address generation (spec.md §6):
// a source of cryptographically random bytes, and the device's
// identity resolving key.
type SecurityProvider interface {
	// GenResolvablePrivateAddr delivers eight fresh random bytes.
	GenResolvablePrivateAddr(cb func(r [8]byte))

	// IRK returns the device's 16-byte identity resolving key.
	IRK() [16]byte
}

// encryptBlock computes AES-128(irk, block) for a single 16-byte
// block, the raw primitive spec.md §4.4 calls "AES128(IRK,
// prand_padded)". This is the one place the rewrite reaches for
// crypto/aes directly rather than a pack dependency: the pack's two
// CMAC libraries (aead/cmac, enceve/crypto/cmac) both implement
// AES-CMAC, a keyed-hash construction built *on top of* block
// encryption — not a substitute for the raw single-block ECB encrypt
// the address-resolution primitive needs. No library in the retrieved
// corpus exposes a bare block cipher without also layering a MAC or
// AEAD mode on it, so the standard library's cipher.Block is the
// correct tool here.
func encryptBlock(key, block [16]byte) ([16]byte, error) {
	c, err := aes.NewCipher(key[:])
	if err != nil {
		return [16]byte{}, err
	}
	var out [16]byte
	c.Encrypt(out[:], block[:])
	return out, nil
}

// staticIRKSecurityProvider is a ready-made SecurityProvider (a Manager
// has none unless WithPrivacy supplies one): a fixed
// IRK (typically loaded from bond storage by the caller) plus
// crypto/rand for the per-rotation random half of the address. It is
// enough for WithPrivacy callers, such as cmd/bleadvctl, that already
// have an IRK in hand and just need GenResolvablePrivateAddr wired up.
type staticIRKSecurityProvider struct {
	irk [16]byte
}

// NewStaticSecurityProvider builds a SecurityProvider around a fixed
// identity resolving key.
func NewStaticSecurityProvider(irk [16]byte) SecurityProvider {
	return &staticIRKSecurityProvider{irk: irk}
}

func (p *staticIRKSecurityProvider) GenResolvablePrivateAddr(cb func(r [8]byte)) {
	var r [8]byte
	rand.Read(r[:])
	cb(r)
}

func (p *staticIRKSecurityProvider) IRK() [16]byte { return p.irk }
