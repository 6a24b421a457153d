package tagged

import "testing"

func TestHashDomainSeparation(t *testing.T) {
	payload := []byte("same payload, two protocols")
	a := Hash(TagOperation, payload)
	b := Hash(TagBundle, payload)
	if a == b {
		t.Fatalf("different tags produced colliding hashes")
	}
}

func TestHashDeterministic(t *testing.T) {
	payload := []byte("deterministic")
	a := Hash(TagSchema, payload)
	b := Hash(TagSchema, payload)
	if a != b {
		t.Fatalf("same tag+payload produced different hashes: %x != %x", a, b)
	}
}

func TestStreamingMatchesOneShot(t *testing.T) {
	payload := []byte("streamed in two chunks")
	oneShot := Hash(TagOperation, payload)

	h := Init(TagOperation)
	h.Update(payload[:10])
	h.Update(payload[10:])
	streamed := h.Finalize()

	if oneShot != streamed {
		t.Fatalf("streaming hash diverged from one-shot hash")
	}
}

func TestMerkleRootEmptyIsFixed(t *testing.T) {
	a := MerkleRoot(TagGlobals, nil)
	b := MerkleRoot(TagGlobals, [][]byte{})
	if a != b {
		t.Fatalf("nil and empty slice produced different empty roots")
	}
	if a == MerkleRoot(TagInputs, nil) {
		t.Fatalf("empty roots collided across different bases")
	}
}

func TestMerkleRootOrderIndependent(t *testing.T) {
	leaves := [][]byte{[]byte("ccc"), []byte("aaa"), []byte("bbb")}
	reordered := [][]byte{[]byte("bbb"), []byte("ccc"), []byte("aaa")}

	a := MerkleRoot(TagAssignments, leaves)
	b := MerkleRoot(TagAssignments, reordered)
	if a != b {
		t.Fatalf("reordering leaves changed the merkle root")
	}
}

func TestMerkleRootOddCountBalances(t *testing.T) {
	leaves := [][]byte{[]byte("one"), []byte("two"), []byte("three")}
	root := MerkleRoot(TagAssignments, leaves)
	var zero [32]byte
	if root == zero {
		t.Fatalf("odd-count merkle root should not be the zero value")
	}
}

func TestMerkleRootSingleLeaf(t *testing.T) {
	leaves := [][]byte{[]byte("solo")}
	root := MerkleRoot(TagAssignments, leaves)
	expected := Hash(TagAssignments+"#leaf", leaves[0])
	if root != expected {
		t.Fatalf("single-leaf tree should equal the leaf hash itself")
	}
}
