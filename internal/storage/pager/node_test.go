package pager

import (
	"bytes"
	"testing"
)

func TestLeafNodeRoundTrip(t *testing.T) {
	leaf := &LeafNode{
		Degree: 5,
		Keys:   []float32{0.1, 0.2, 0.3},
		Slots: []NodeRecords{
			{Inline: []RecordPointer{{BlockID: 1, Offset: 0}}},
			{Inline: []RecordPointer{{BlockID: 1, Offset: 1}}},
			{Inline: []RecordPointer{{BlockID: 2, Offset: 0}}, Overflow: OverflowBlockPointer{Valid: true, BlockID: 9}},
		},
		Next: LeafPointer{Valid: true, BlockID: 4},
	}

	var buf bytes.Buffer
	if _, err := leaf.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	r := bytes.NewReader(buf.Bytes())
	node, err := ReadNode(1, r)
	if err != nil {
		t.Fatalf("ReadNode: %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("%d trailing bytes", r.Len())
	}
	got, ok := node.(*LeafNode)
	if !ok {
		t.Fatalf("ReadNode returned %T, want *LeafNode", node)
	}
	if len(got.Keys) != 3 || got.Keys[2] != 0.3 {
		t.Fatalf("keys mismatch: %+v", got.Keys)
	}
	if !got.Next.Valid || got.Next.BlockID != 4 {
		t.Fatalf("next mismatch: %+v", got.Next)
	}
	if !got.Slots[2].Overflow.Valid || got.Slots[2].Overflow.BlockID != 9 {
		t.Fatalf("slot overflow mismatch: %+v", got.Slots[2])
	}
}

func TestInternalNodeRoundTrip(t *testing.T) {
	internal := &InternalNode{
		Degree:   5,
		Keys:     []float32{0.5},
		Children: []int32{10, 11},
	}
	var buf bytes.Buffer
	if _, err := internal.Serialize(&buf); err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	r := bytes.NewReader(buf.Bytes())
	node, err := ReadNode(1, r)
	if err != nil {
		t.Fatalf("ReadNode: %v", err)
	}
	if r.Len() != 0 {
		t.Fatalf("%d trailing bytes", r.Len())
	}
	got, ok := node.(*InternalNode)
	if !ok {
		t.Fatalf("ReadNode returned %T, want *InternalNode", node)
	}
	if len(got.Children) != 2 || got.Children[1] != 11 {
		t.Fatalf("children mismatch: %+v", got.Children)
	}
}

func TestLowerUpperBound(t *testing.T) {
	keys := []float32{1, 3, 3, 5}
	if got := lowerBound(keys, 3); got != 1 {
		t.Fatalf("lowerBound = %d, want 1", got)
	}
	if got := upperBound(keys, 3); got != 3 {
		t.Fatalf("upperBound = %d, want 3", got)
	}
	if got := lowerBound(keys, 0); got != 0 {
		t.Fatalf("lowerBound(0) = %d, want 0", got)
	}
	if got := upperBound(keys, 6); got != 4 {
		t.Fatalf("upperBound(6) = %d, want 4", got)
	}
}
