// Package strict is the canonical encoding bridge of spec.md §4.2: a
// deterministic, length-prefixed byte serialization that every hasher in
// rgb/commit builds its tagged hashes over. It stands in for the black-box
// strict-encoding library the protocol treats as an external oracle,
// modeled on the teacher's own hand-rolled cursor-based wire codec
// (consensus/tx.go, consensus/parse.go, consensus/compactsize.go) rather
// than on any general-purpose serialization package, since no example repo
// in the pack ships a strict, canonical-by-construction encoder.
package strict

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Width selects the length-prefix size for variable-length fields, per the
// declared upper bound on the field (spec.md §4.2: MAX8/MAX16/MAX24/MAX32).
type Width int

const (
	Width8 Width = iota
	Width16
	Width24
	Width32
)

const (
	Max8  = 0xFF
	Max16 = 0xFFFF
	Max24 = 0xFFFFFF
	Max32 = 0xFFFFFFFF
)

// Marshaler is implemented by every entity with a canonical encoding.
type Marshaler interface {
	EncodeStrict(w *Writer) error
}

// Unmarshaler is the decode counterpart.
type Unmarshaler interface {
	DecodeStrict(r *Reader) error
}

// Writer accumulates a strict-encoded byte sequence.
type Writer struct {
	buf bytes.Buffer
}

func NewWriter() *Writer { return &Writer{} }

func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

func (w *Writer) WriteU8(v uint8) { w.buf.WriteByte(v) }

func (w *Writer) WriteU16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteU24(v uint32) error {
	if v > Max24 {
		return fmt.Errorf("strict: u24 overflow: %d", v)
	}
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:3])
	return nil
}

func (w *Writer) WriteU32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteU64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf.Write(b[:])
}

func (w *Writer) WriteI64(v int64) { w.WriteU64(uint64(v)) }

// WriteBool encodes the optional-presence byte of §4.2: 0x00 absent /
// 0x01 present.
func (w *Writer) WriteBool(v bool) {
	if v {
		w.buf.WriteByte(0x01)
	} else {
		w.buf.WriteByte(0x00)
	}
}

// WriteRaw appends fixed-size fields (e.g. [32]byte ids) with no prefix.
func (w *Writer) WriteRaw(b []byte) { w.buf.Write(b) }

// WriteLen writes a variable-length count prefix of the given width.
func (w *Writer) WriteLen(width Width, n int) error {
	switch width {
	case Width8:
		if n > Max8 {
			return fmt.Errorf("strict: length %d exceeds MAX8", n)
		}
		w.WriteU8(uint8(n))
	case Width16:
		if n > Max16 {
			return fmt.Errorf("strict: length %d exceeds MAX16", n)
		}
		w.WriteU16(uint16(n))
	case Width24:
		if n > Max24 {
			return fmt.Errorf("strict: length %d exceeds MAX24", n)
		}
		return w.WriteU24(uint32(n))
	case Width32:
		if uint64(n) > Max32 {
			return fmt.Errorf("strict: length %d exceeds MAX32", n)
		}
		w.WriteU32(uint32(n))
	default:
		return fmt.Errorf("strict: unknown width %d", width)
	}
	return nil
}

// WriteBytes writes a length prefix of the given width followed by the raw
// bytes — the variable-length-blob primitive (ScriptSig/CovenantData in the
// teacher's wire format; Metadata payloads, RevealedData here).
func (w *Writer) WriteBytes(width Width, b []byte) error {
	if err := w.WriteLen(width, len(b)); err != nil {
		return err
	}
	w.buf.Write(b)
	return nil
}

// Reader consumes a strict-encoded byte sequence, truncation-checked at
// every step, matching the teacher's cursor type.
type Reader struct {
	b   []byte
	pos int
}

func NewReader(b []byte) *Reader { return &Reader{b: b} }

func (r *Reader) remaining() int {
	if r.pos >= len(r.b) {
		return 0
	}
	return len(r.b) - r.pos
}

// Done reports whether every byte has been consumed — the strict decoder
// MUST reject trailing bytes, per the teacher's own `cur.pos != len(b)`
// check in ParseTxBytes.
func (r *Reader) Done() bool { return r.pos == len(r.b) }

func (r *Reader) readExact(n int) ([]byte, error) {
	if n < 0 || r.remaining() < n {
		return nil, fmt.Errorf("strict: truncated read of %d bytes", n)
	}
	start := r.pos
	r.pos += n
	return r.b[start:r.pos], nil
}

func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.readExact(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.readExact(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) ReadU24() (uint32, error) {
	b, err := r.readExact(3)
	if err != nil {
		return 0, err
	}
	var buf [4]byte
	copy(buf[:3], b)
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func (r *Reader) ReadU32() (uint32, error) {
	b, err := r.readExact(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) ReadU64() (uint64, error) {
	b, err := r.readExact(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *Reader) ReadI64() (int64, error) {
	v, err := r.ReadU64()
	return int64(v), err
}

func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	switch b {
	case 0x00:
		return false, nil
	case 0x01:
		return true, nil
	default:
		return false, fmt.Errorf("strict: invalid bool discriminant 0x%02x", b)
	}
}

func (r *Reader) ReadRaw(n int) ([]byte, error) {
	b, err := r.readExact(n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), b...), nil
}

func (r *Reader) ReadLen(width Width) (int, error) {
	switch width {
	case Width8:
		v, err := r.ReadU8()
		return int(v), err
	case Width16:
		v, err := r.ReadU16()
		return int(v), err
	case Width24:
		v, err := r.ReadU24()
		return int(v), err
	case Width32:
		v, err := r.ReadU32()
		return int(v), err
	default:
		return 0, fmt.Errorf("strict: unknown width %d", width)
	}
}

func (r *Reader) ReadBytes(width Width) ([]byte, error) {
	n, err := r.ReadLen(width)
	if err != nil {
		return nil, err
	}
	return r.ReadRaw(n)
}

// Encode runs m's EncodeStrict against a fresh Writer and returns the
// bytes.
func Encode(m Marshaler) ([]byte, error) {
	w := NewWriter()
	if err := m.EncodeStrict(w); err != nil {
		return nil, err
	}
	return w.Bytes(), nil
}

// Decode runs u's DecodeStrict against b and requires every byte to be
// consumed.
func Decode(b []byte, u Unmarshaler) error {
	r := NewReader(b)
	if err := u.DecodeStrict(r); err != nil {
		return err
	}
	if !r.Done() {
		return fmt.Errorf("strict: trailing bytes after decode")
	}
	return nil
}

// AssertRoundtrip re-encodes a value just decoded (or about to be hashed)
// and panics via the caller-supplied fatal hook if the bytes disagree with
// the original — spec.md §8 property 1 ("decode(encode(x)) == x") enforced
// as an internal invariant rather than a caller-facing error, since a
// mismatch here means this process produced a value that cannot represent
// itself, which is a bug, not bad input.
func AssertRoundtrip(original []byte, m Marshaler, context string) {
	reencoded, err := Encode(m)
	if err != nil {
		panic(fmt.Sprintf("strict: re-encode failed in %s: %v", context, err))
	}
	if !bytes.Equal(original, reencoded) {
		panic(fmt.Sprintf("strict: round-trip mismatch in %s", context))
	}
}
