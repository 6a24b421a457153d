// Package store is the bbolt-backed persistence layer a deployment uses to
// hold a contract's committed operations and its unspent-assignment index,
// adapted from the teacher's node/store/db.go (bucket layout, Open/Close,
// the db.Update/db.View transaction idiom) from a block-relay chain store
// to an operation-graph store.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"lnpbp.dev/rgb-consensus/rgb/commit"
	"lnpbp.dev/rgb-consensus/rgb/contract"
	"lnpbp.dev/rgb-consensus/rgb/strict"
)

var (
	bucketOperationsByOpId  = []byte("operations_by_opid")
	bucketBundlesByBundleId = []byte("bundles_by_bundleid")
	bucketSchemasBySchemaId = []byte("schemas_by_schemaid")
	bucketUnspentByOpout    = []byte("unspent_by_opout")
)

// opKind discriminates the two operation shapes sharing bucketOperationsByOpId:
// genesis has no predecessor, a transition always does.
type opKind byte

const (
	opKindGenesis    opKind = 0x00
	opKindTransition opKind = 0x01
)

// DB is a handle onto one contract's on-disk store. A *DB satisfies
// validate.Resolver directly, so a deployment can hand it straight to
// validate.Validate without an adapter.
type DB struct {
	dir string
	db  *bolt.DB
}

// Open opens (creating if absent) the bbolt-backed store rooted at dataDir.
func Open(dataDir string) (*DB, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("rgbnode/store: dataDir required")
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("rgbnode/store: mkdir: %w", err)
	}

	path := filepath.Join(dataDir, "rgb.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("rgbnode/store: open bbolt: %w", err)
	}

	d := &DB{dir: dataDir, db: bdb}
	if err := d.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketOperationsByOpId, bucketBundlesByBundleId, bucketSchemasBySchemaId, bucketUnspentByOpout} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}
	return d, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) Dir() string { return d.dir }

// ApplyGenesis persists a validated genesis and seeds the unspent index
// with every assignment it produces. Callers are expected to have already
// run validate.Validate; ApplyGenesis itself performs no validation.
func (d *DB) ApplyGenesis(g contract.Genesis) (contract.OpId, error) {
	opID := commit.OpIdOfGenesis(g)
	payload, err := strict.Encode(g)
	if err != nil {
		return contract.OpId{}, fmt.Errorf("rgbnode/store: encode genesis: %w", err)
	}
	err = d.db.Update(func(tx *bolt.Tx) error {
		if err := putOperation(tx, opID, opKindGenesis, payload); err != nil {
			return err
		}
		return putProducedUnspent(tx, opID, g.Assignments)
	})
	return opID, err
}

// ApplyTransition persists a validated transition, removing the opouts it
// consumes from the unspent index and adding the opouts it produces, as
// one atomic bbolt transaction.
func (d *DB) ApplyTransition(t contract.Transition) (contract.OpId, error) {
	opID := commit.OpIdOfTransition(t)
	payload, err := strict.Encode(t)
	if err != nil {
		return contract.OpId{}, fmt.Errorf("rgbnode/store: encode transition: %w", err)
	}
	err = d.db.Update(func(tx *bolt.Tx) error {
		if err := putOperation(tx, opID, opKindTransition, payload); err != nil {
			return err
		}
		unspent := tx.Bucket(bucketUnspentByOpout)
		for _, in := range t.Inputs {
			if err := unspent.Delete(in.Bytes()); err != nil {
				return err
			}
		}
		return putProducedUnspent(tx, opID, t.Assignments)
	})
	return opID, err
}

func putOperation(tx *bolt.Tx, opID contract.OpId, kind opKind, payload []byte) error {
	val := make([]byte, 1+len(payload))
	val[0] = byte(kind)
	copy(val[1:], payload)
	return tx.Bucket(bucketOperationsByOpId).Put(opID[:], val)
}

func putProducedUnspent(tx *bolt.Tx, opID contract.OpId, assignments contract.Assignments) error {
	unspent := tx.Bucket(bucketUnspentByOpout)
	for ty, ta := range assignments {
		for no := range ta.Items {
			opout := contract.Opout{Op: opID, Ty: ty, No: uint16(no)}
			if err := unspent.Put(opout.Bytes(), opID[:]); err != nil {
				return err
			}
		}
	}
	return nil
}

// HasOperation reports whether opID has been persisted, satisfying
// validate.Resolver.
func (d *DB) HasOperation(opID contract.OpId) bool {
	_, ok, err := d.operationPayload(opID)
	return ok && err == nil
}

// ResolveOpout resolves an Opout to the Assign it produced by decoding the
// full producing operation, satisfying validate.Resolver. The unspent
// index itself stores no Assign bytes — only Opout -> OpId membership —
// since contract.Assign has no standalone decode entry point outside the
// seal-shape/state-kind context its producing operation's own
// DecodeAssignments call carries.
func (d *DB) ResolveOpout(opout contract.Opout) (contract.Assign, bool) {
	assignments, ok, err := d.assignmentsOf(opout.Op)
	if err != nil || !ok {
		return contract.Assign{}, false
	}
	ta, ok := assignments[opout.Ty]
	if !ok || int(opout.No) >= len(ta.Items) {
		return contract.Assign{}, false
	}
	return ta.Items[opout.No], true
}

func (d *DB) assignmentsOf(opID contract.OpId) (contract.Assignments, bool, error) {
	val, ok, err := d.operationPayload(opID)
	if err != nil || !ok {
		return nil, ok, err
	}
	kind := opKind(val[0])
	payload := val[1:]
	switch kind {
	case opKindGenesis:
		var g contract.Genesis
		if err := strict.Decode(payload, &g); err != nil {
			return nil, false, fmt.Errorf("rgbnode/store: decode genesis %s: %w", opID, err)
		}
		return g.Assignments, true, nil
	case opKindTransition:
		var t contract.Transition
		if err := strict.Decode(payload, &t); err != nil {
			return nil, false, fmt.Errorf("rgbnode/store: decode transition %s: %w", opID, err)
		}
		return t.Assignments, true, nil
	default:
		return nil, false, fmt.Errorf("rgbnode/store: operation %s has unknown kind byte %d", opID, kind)
	}
}

func (d *DB) operationPayload(opID contract.OpId) ([]byte, bool, error) {
	var out []byte
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketOperationsByOpId).Get(opID[:])
		if v == nil {
			return nil
		}
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	if out == nil {
		return nil, false, nil
	}
	if len(out) < 1 {
		return nil, false, fmt.Errorf("rgbnode/store: operation %s record is empty", opID)
	}
	return out, true, nil
}

// IsUnspent reports whether opout is currently in the unspent index.
func (d *DB) IsUnspent(opout contract.Opout) (bool, error) {
	var present bool
	err := d.db.View(func(tx *bolt.Tx) error {
		present = tx.Bucket(bucketUnspentByOpout).Get(opout.Bytes()) != nil
		return nil
	})
	return present, err
}

// UnspentAssign resolves opout the same way ResolveOpout does, but first
// requires it be present in the unspent index — ResolveOpout alone would
// happily resolve an already-spent opout, since the producing operation's
// record is never deleted.
func (d *DB) UnspentAssign(opout contract.Opout) (contract.Assign, bool, error) {
	unspent, err := d.IsUnspent(opout)
	if err != nil || !unspent {
		return contract.Assign{}, false, err
	}
	assign, ok := d.ResolveOpout(opout)
	return assign, ok, nil
}

// PutSchema persists a schema keyed by its own SchemaId.
func (d *DB) PutSchema(s contract.Schema) (contract.SchemaId, error) {
	id, err := commit.CommitSchema(s)
	if err != nil {
		return contract.SchemaId{}, fmt.Errorf("rgbnode/store: commit schema: %w", err)
	}
	payload, err := strict.Encode(s)
	if err != nil {
		return contract.SchemaId{}, fmt.Errorf("rgbnode/store: encode schema: %w", err)
	}
	err = d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSchemasBySchemaId).Put(id[:], payload)
	})
	return id, err
}

// GetSchema retrieves a schema previously stored under id.
func (d *DB) GetSchema(id contract.SchemaId) (contract.Schema, bool, error) {
	var out contract.Schema
	var found bool
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSchemasBySchemaId).Get(id[:])
		if v == nil {
			return nil
		}
		if err := strict.Decode(v, &out); err != nil {
			return fmt.Errorf("rgbnode/store: decode schema %s: %w", id, err)
		}
		found = true
		return nil
	})
	return out, found, err
}

// PutBundle persists a validated bundle keyed by its own BundleId, using
// contract.TransitionBundle's own full wire form (InputMap and
// KnownTransitions together) rather than the narrower commitment payload
// EncodeInputMap produces.
func (d *DB) PutBundle(b contract.TransitionBundle) (contract.BundleId, error) {
	if err := b.Validate(); err != nil {
		return contract.BundleId{}, fmt.Errorf("rgbnode/store: invalid bundle: %w", err)
	}
	id, err := commit.CommitBundle(b)
	if err != nil {
		return contract.BundleId{}, fmt.Errorf("rgbnode/store: commit bundle: %w", err)
	}
	payload, err := strict.Encode(b)
	if err != nil {
		return contract.BundleId{}, fmt.Errorf("rgbnode/store: encode bundle: %w", err)
	}
	err = d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketBundlesByBundleId).Put(id[:], payload)
	})
	return id, err
}

// GetBundle retrieves a bundle previously stored under id.
func (d *DB) GetBundle(id contract.BundleId) (contract.TransitionBundle, bool, error) {
	var b contract.TransitionBundle
	var found bool
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketBundlesByBundleId).Get(id[:])
		if v == nil {
			return nil
		}
		if err := strict.Decode(v, &b); err != nil {
			return fmt.Errorf("rgbnode/store: decode bundle %s: %w", id, err)
		}
		found = true
		return nil
	})
	if err != nil || !found {
		return contract.TransitionBundle{}, found, err
	}
	return b, true, nil
}
