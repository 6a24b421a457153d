package contract

import "lnpbp.dev/rgb-consensus/rgb/strict"

// Identity identifies a genesis issuer. The core treats it as opaque
// attestation data — a display name plus raw key material — consumed only
// through its strict hash in BaseCommitment (spec.md §4.4.1); it carries
// no semantics of its own here.
type Identity struct {
	Name   string
	PubKey []byte
}

func (id Identity) EncodeStrict(w *strict.Writer) error {
	if err := w.WriteBytes(strict.Width8, []byte(id.Name)); err != nil {
		return err
	}
	return w.WriteBytes(strict.Width16, id.PubKey)
}

func (id *Identity) DecodeStrict(r *strict.Reader) error {
	name, err := r.ReadBytes(strict.Width8)
	if err != nil {
		return err
	}
	id.Name = string(name)
	id.PubKey, err = r.ReadBytes(strict.Width16)
	return err
}
