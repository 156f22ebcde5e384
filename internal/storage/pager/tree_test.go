package pager

import "testing"

func newTestTree(t *testing.T, degree uint16, pageSize int) *BPlusTree {
	t.Helper()
	dir := t.TempDir()
	index := NewBlockStore[Node](dir, "index_", 0, ReadNode)
	overflow := NewBlockStore[*OverflowBlock](dir, "overflow_", 0, ReadOverflowBlock)
	data := NewBlockStore[*DataBlock](dir, "data_", 0, ReadDataBlock)
	return NewBPlusTree(index, overflow, data, degree, pageSize)
}

func fullScanKeys(t *testing.T, tree *BPlusTree) []float32 {
	t.Helper()
	it, err := tree.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	var keys []float32
	for !it.Done() {
		k, err := it.Key()
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		keys = append(keys, k)
		if err := it.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	return keys
}

// S1: small tree.
func TestTreeSmallScan(t *testing.T) {
	tree := newTestTree(t, 5, 4096)
	input := []float32{10, 20, 5, 15, 25, 30, 1, 2, 3, 4}
	for i, k := range input {
		if err := tree.Insert(k, RecordPointer{BlockID: 0, Offset: uint16(i)}); err != nil {
			t.Fatalf("Insert(%v): %v", k, err)
		}
	}
	got := fullScanKeys(t, tree)
	want := []float32{1, 2, 3, 4, 5, 10, 15, 20, 25, 30}
	if len(got) != len(want) {
		t.Fatalf("scan length = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("scan[%d] = %v, want %v (%v)", i, got[i], want[i], got)
		}
	}
	height, err := tree.Height()
	if err != nil {
		t.Fatalf("Height: %v", err)
	}
	if height != 2 {
		t.Fatalf("height = %d, want 2", height)
	}
	rootKeys, err := tree.RootKeys()
	if err != nil {
		t.Fatalf("RootKeys: %v", err)
	}
	if len(rootKeys) != 1 && len(rootKeys) != 2 {
		t.Fatalf("root key count = %d, want 1 or 2", len(rootKeys))
	}
	nodes, err := tree.NumberOfNodes()
	if err != nil {
		t.Fatalf("NumberOfNodes: %v", err)
	}
	if nodes != 4 {
		t.Fatalf("node count = %d, want 4", nodes)
	}
}

// S2: duplicate keys stay inline, insertion order preserved.
func TestTreeDuplicateKeysPreserveOrder(t *testing.T) {
	tree := newTestTree(t, 5, 4096)
	ptrs := []RecordPointer{{BlockID: 1, Offset: 0}, {BlockID: 1, Offset: 1}, {BlockID: 1, Offset: 2}}
	for _, p := range ptrs {
		if err := tree.Insert(0.5, p); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	it, err := tree.Search(0.5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	leaf, err := it.currentLeaf()
	if err != nil {
		t.Fatalf("currentLeaf: %v", err)
	}
	all, err := leaf.Slots[it.keyIndex].All(tree.overflow)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d pointers, want 3", len(all))
	}
	for i, p := range all {
		if p != ptrs[i] {
			t.Fatalf("pointer[%d] = %+v, want %+v (order not preserved)", i, p, ptrs[i])
		}
	}
	if leaf.Slots[it.keyIndex].Overflow.Valid {
		t.Fatalf("expected zero overflow blocks for 3 inline duplicates")
	}
	height, _ := tree.Height()
	if height != 1 {
		t.Fatalf("height = %d, want 1", height)
	}
}

// S3: overflow containment, IN_BLOCK_RECORDS=8, pageSize chosen so
// MaxOverflowCount == 8.
func TestTreeOverflowContainment(t *testing.T) {
	tree := newTestTree(t, 5, 60)
	for i := 0; i < 20; i++ {
		if err := tree.Insert(0.5, RecordPointer{BlockID: 1, Offset: uint16(i)}); err != nil {
			t.Fatalf("Insert[%d]: %v", i, err)
		}
	}
	it, err := tree.Search(0.5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	leaf, err := it.currentLeaf()
	if err != nil {
		t.Fatalf("currentLeaf: %v", err)
	}
	slot := leaf.Slots[it.keyIndex]
	if len(slot.Inline) != InBlockRecords {
		t.Fatalf("inline count = %d, want %d", len(slot.Inline), InBlockRecords)
	}
	all, err := slot.All(tree.overflow)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 20 {
		t.Fatalf("total pointers = %d, want 20", len(all))
	}
	for i, p := range all {
		if p.Offset != uint16(i) {
			t.Fatalf("pointer[%d].Offset = %d, want %d", i, p.Offset, i)
		}
	}
}

// S4: split cascade.
func TestTreeSplitCascade(t *testing.T) {
	tree := newTestTree(t, 5, 4096)
	for i := 1; i <= 100; i++ {
		if err := tree.Insert(float32(i), RecordPointer{BlockID: 1, Offset: uint16(i)}); err != nil {
			t.Fatalf("Insert[%d]: %v", i, err)
		}
	}
	height, err := tree.Height()
	if err != nil {
		t.Fatalf("Height: %v", err)
	}
	if height != 4 {
		t.Fatalf("height = %d, want 4", height)
	}

	it, err := tree.Search(42)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	var got []float32
	for !it.Done() {
		k, err := it.Key()
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		got = append(got, k)
		if err := it.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	if len(got) != 59 {
		t.Fatalf("search(42)..end yielded %d keys, want 59", len(got))
	}
	for i, k := range got {
		if k != float32(42+i) {
			t.Fatalf("got[%d] = %v, want %v", i, k, float32(42+i))
		}
	}
}

// S5: range scan soundness.
func TestTreeRangeScan(t *testing.T) {
	tree := newTestTree(t, 5, 4096)
	for i := 1; i <= 100; i++ {
		key := float32(i) / 100
		if err := tree.Insert(key, RecordPointer{BlockID: 1, Offset: uint16(i)}); err != nil {
			t.Fatalf("Insert[%d]: %v", i, err)
		}
	}
	lo := float32(60) / 100
	hi := float32(90) / 100
	it, err := tree.Search(lo)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	var got []float32
	for !it.Done() {
		k, err := it.Key()
		if err != nil {
			t.Fatalf("Key: %v", err)
		}
		if k > hi {
			break
		}
		got = append(got, k)
		if err := it.Next(); err != nil {
			t.Fatalf("Next: %v", err)
		}
	}
	if len(got) != 31 {
		t.Fatalf("range scan yielded %d keys, want 31", len(got))
	}
	if got[0] < lo || got[len(got)-1] > hi {
		t.Fatalf("range scan out of bounds: %v", got)
	}
}
