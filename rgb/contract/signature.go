package contract

import (
	"errors"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

// SignTransition produces the DER-encoded ECDSA signature a Transition's
// optional Signature field carries (spec.md §3.4). The message is the
// double-SHA256 digest of the transition's OpId, following the teacher
// pack's own signing convention (btcsuite/btcd/btcec/ecdsa: sign over a
// chainhash digest, never over raw bytes).
func SignTransition(privKey *btcec.PrivateKey, opID OpId) []byte {
	digest := chainhash.DoubleHashB(opID[:])
	sig := ecdsa.Sign(privKey, digest)
	return sig.Serialize()
}

// VerifyTransitionSignature checks t.Signature against opID and the
// issuer's public key. It is not part of the commitment or schema
// validation procedures of spec.md §4.4/§4.5 — OpId is identical with or
// without a valid signature — but a deployed contract system authenticates
// transition authorship with it, per SPEC_FULL.md's DOMAIN STACK section.
// Returns an error if pubKeyBytes or t.Signature cannot be parsed, and
// false/nil if parsing succeeds but the signature does not verify.
func VerifyTransitionSignature(t Transition, opID OpId, pubKeyBytes []byte) (bool, error) {
	if len(t.Signature) == 0 {
		return false, errors.New("rgb/contract: transition carries no signature")
	}
	pubKey, err := btcec.ParsePubKey(pubKeyBytes)
	if err != nil {
		return false, err
	}
	sig, err := ecdsa.ParseSignature(t.Signature)
	if err != nil {
		return false, err
	}
	digest := chainhash.DoubleHashB(opID[:])
	return sig.Verify(digest, pubKey), nil
}
