package pager

import "bytes"

// InBlockRecords is the inline capacity of a NodeRecords slot before a
// spillover overflow chain is allocated.
const InBlockRecords = 8

// MaxOverflowBlocks bounds how many links a single NodeRecords overflow
// chain may have before a read is treated as corruption.
const MaxOverflowBlocks = 1 << 20

// NodeRecords is the per-key payload inside a leaf: an inline array of
// up to InBlockRecords RecordPointers, plus an optional overflow tail
// for everything beyond that. Inline slots fill strictly before the
// overflow chain is allocated; appending never reorders existing
// pointers.
type NodeRecords struct {
	Inline   []RecordPointer
	Overflow OverflowBlockPointer
}

// Append adds ptr to the slot, spilling into the overflow chain once
// Inline reaches InBlockRecords.
func (nr *NodeRecords) Append(overflow *BlockStore[*OverflowBlock], maxOverflowCount int, ptr RecordPointer) error {
	if len(nr.Inline) < InBlockRecords {
		nr.Inline = append(nr.Inline, ptr)
		return nil
	}
	return PushBackOverflow(overflow, &nr.Overflow, maxOverflowCount, ptr)
}

// All concatenates the inline entries with everything reachable through
// the overflow chain, in insertion order.
func (nr NodeRecords) All(overflow *BlockStore[*OverflowBlock]) ([]RecordPointer, error) {
	chain, err := ReadOverflowChain(overflow, nr.Overflow, MaxOverflowBlocks)
	if err != nil {
		return nil, err
	}
	out := make([]RecordPointer, 0, len(nr.Inline)+len(chain))
	out = append(out, nr.Inline...)
	out = append(out, chain...)
	return out, nil
}

func (nr NodeRecords) serialize(w *bytes.Buffer) (int, error) {
	var s Serializer
	n := 0
	written, err := s.WriteUint8(w, uint8(len(nr.Inline)))
	n += written
	if err != nil {
		return n, err
	}
	for _, p := range nr.Inline {
		written, err = p.Serialize(w)
		n += written
		if err != nil {
			return n, err
		}
	}
	written, err = s.WriteBool(w, nr.Overflow.Valid)
	n += written
	if err != nil {
		return n, err
	}
	if nr.Overflow.Valid {
		written, err = s.WriteUint32(w, uint32(nr.Overflow.BlockID))
		n += written
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func readNodeRecords(r *bytes.Reader) (NodeRecords, error) {
	var s Serializer
	var nr NodeRecords

	count, err := s.ReadUint8(r)
	if err != nil {
		return nr, err
	}
	nr.Inline = make([]RecordPointer, 0, count)
	for i := uint8(0); i < count; i++ {
		ptr, err := ReadRecordPointer(r)
		if err != nil {
			return nr, err
		}
		nr.Inline = append(nr.Inline, ptr)
	}
	hasOverflow, err := s.ReadBool(r)
	if err != nil {
		return nr, err
	}
	if hasOverflow {
		id, err := s.ReadInt32(r)
		if err != nil {
			return nr, err
		}
		nr.Overflow = OverflowBlockPointer{Valid: true, BlockID: id}
	}
	return nr, nil
}

// LeafPointer is an optional reference to the next leaf in the chain, or
// (reused for the same shape) to a sibling produced by a split.
type LeafPointer = OverflowBlockPointer

// Node is an index block: either a LeafNode or an InternalNode. It is
// modeled as a true discriminated union (an interface with exactly two
// implementations) rather than one flat struct carrying a runtime
// leaf/internal flag, since Go has no zero-cost union type.
type Node interface {
	Page
	IsLeaf() bool
}

// LeafNode holds up to Degree keys in ascending order, one NodeRecords
// slot per key, and an optional pointer to the next leaf in the
// left-to-right chain.
type LeafNode struct {
	id     int32
	Degree uint16
	Keys   []float32
	Slots  []NodeRecords
	Next   LeafPointer
}

func (l *LeafNode) BlockID() int32      { return l.id }
func (l *LeafNode) SetBlockID(id int32) { l.id = id }
func (l *LeafNode) IsLeaf() bool        { return true }

// Serialize implements Page per the §4.4/§6 leaf wire layout.
func (l *LeafNode) Serialize(w *bytes.Buffer) (int, error) {
	var s Serializer
	n := 0

	write := func(written int, err error) bool {
		n += written
		return err == nil
	}
	var err error

	var written int
	written, err = s.WriteBool(w, true)
	if !write(written, err) {
		return n, err
	}
	written, err = s.WriteUint16(w, l.Degree)
	if !write(written, err) {
		return n, err
	}
	written, err = s.WriteUint16(w, uint16(len(l.Keys)))
	if !write(written, err) {
		return n, err
	}
	for _, k := range l.Keys {
		written, err = s.WriteFloat32(w, k)
		if !write(written, err) {
			return n, err
		}
	}
	for _, slot := range l.Slots {
		written, err = slot.serialize(w)
		if !write(written, err) {
			return n, err
		}
	}
	written, err = s.WriteBool(w, l.Next.Valid)
	if !write(written, err) {
		return n, err
	}
	if l.Next.Valid {
		written, err = s.WriteUint32(w, uint32(l.Next.BlockID))
		if !write(written, err) {
			return n, err
		}
	}
	return n, nil
}

// InternalNode holds up to Degree separator keys and Degree+1 child
// block IDs; for child i, every key in the subtree rooted at
// Children[i] lies in the band [Keys[i-1], Keys[i]).
type InternalNode struct {
	id       int32
	Degree   uint16
	Keys     []float32
	Children []int32
}

func (in *InternalNode) BlockID() int32      { return in.id }
func (in *InternalNode) SetBlockID(id int32) { in.id = id }
func (in *InternalNode) IsLeaf() bool        { return false }

// Serialize implements Page per the §4.4/§6 internal wire layout.
func (in *InternalNode) Serialize(w *bytes.Buffer) (int, error) {
	var s Serializer
	n := 0
	write := func(written int, err error) bool {
		n += written
		return err == nil
	}
	var err error
	var written int

	written, err = s.WriteBool(w, false)
	if !write(written, err) {
		return n, err
	}
	written, err = s.WriteUint16(w, in.Degree)
	if !write(written, err) {
		return n, err
	}
	written, err = s.WriteUint16(w, uint16(len(in.Children)))
	if !write(written, err) {
		return n, err
	}
	for _, k := range in.Keys {
		written, err = s.WriteFloat32(w, k)
		if !write(written, err) {
			return n, err
		}
	}
	for _, childID := range in.Children {
		written, err = s.WriteUint32(w, uint32(childID))
		if !write(written, err) {
			return n, err
		}
	}
	return n, nil
}

// ReadNode is the NewPageFunc for the index BlockStore: it branches on
// the leading is_leaf flag to decode either node shape.
func ReadNode(id int32, r *bytes.Reader) (Node, error) {
	var s Serializer

	isLeaf, err := s.ReadBool(r)
	if err != nil {
		return nil, err
	}
	degree, err := s.ReadUint16(r)
	if err != nil {
		return nil, err
	}
	size, err := s.ReadUint16(r)
	if err != nil {
		return nil, err
	}

	keyCount := int(size)
	if !isLeaf {
		keyCount = int(size) - 1
	}
	keys := make([]float32, keyCount)
	for i := range keys {
		keys[i], err = s.ReadFloat32(r)
		if err != nil {
			return nil, err
		}
	}

	if isLeaf {
		slots := make([]NodeRecords, size)
		for i := range slots {
			slots[i], err = readNodeRecords(r)
			if err != nil {
				return nil, err
			}
		}
		hasNext, err := s.ReadBool(r)
		if err != nil {
			return nil, err
		}
		var next LeafPointer
		if hasNext {
			nextID, err := s.ReadInt32(r)
			if err != nil {
				return nil, err
			}
			next = LeafPointer{Valid: true, BlockID: nextID}
		}
		return &LeafNode{id: id, Degree: degree, Keys: keys, Slots: slots, Next: next}, nil
	}

	children := make([]int32, size)
	for i := range children {
		children[i], err = s.ReadInt32(r)
		if err != nil {
			return nil, err
		}
	}
	return &InternalNode{id: id, Degree: degree, Keys: keys, Children: children}, nil
}

// lowerBound returns the first index whose key is >= target.
func lowerBound(keys []float32, target float32) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := (lo + hi) / 2
		if keys[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// upperBound returns the first index whose key is > target; used to
// route an internal node search so that ties land in the right child,
// consistent with leaf lower_bound semantics.
func upperBound(keys []float32, target float32) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := (lo + hi) / 2
		if keys[mid] <= target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// insertLeafAt shifts entries right from idx and places a brand new
// single-pointer slot. Caller must already know the leaf has room.
func insertLeafAt(leaf *LeafNode, idx int, key float32, ptr RecordPointer) {
	leaf.Keys = append(leaf.Keys, 0)
	copy(leaf.Keys[idx+1:], leaf.Keys[idx:])
	leaf.Keys[idx] = key

	leaf.Slots = append(leaf.Slots, NodeRecords{})
	copy(leaf.Slots[idx+1:], leaf.Slots[idx:])
	leaf.Slots[idx] = NodeRecords{Inline: []RecordPointer{ptr}}
}

// insertInternalAt shifts entries right from idx and places key at idx,
// childID at idx+1 (the child to the right of the new separator).
func insertInternalAt(node *InternalNode, idx int, key float32, childID int32) {
	node.Keys = append(node.Keys, 0)
	copy(node.Keys[idx+1:], node.Keys[idx:])
	node.Keys[idx] = key

	node.Children = append(node.Children, 0)
	copy(node.Children[idx+2:], node.Children[idx+1:])
	node.Children[idx+1] = childID
}

// splitLeaf implements §4.4.1: allocate a sibling, partition keys/slots
// between current and sibling, link the chain, and place the new entry
// on whichever side it belongs. Returns the tracked sibling and its
// first key, which the caller promotes as the separator.
func splitLeaf(index *BlockStore[Node], leaf *LeafNode, key float32, ptr RecordPointer) (Node, float32) {
	d := int(leaf.Degree)
	splitIndex := ceilDiv(d+1, 2)

	destIsSibling := key > leaf.Keys[splitIndex-1]
	if !destIsSibling {
		splitIndex--
	}

	sibling := &LeafNode{Degree: leaf.Degree, Next: leaf.Next}
	sibling.Keys = append([]float32{}, leaf.Keys[splitIndex:]...)
	sibling.Slots = append([]NodeRecords{}, leaf.Slots[splitIndex:]...)

	leaf.Keys = leaf.Keys[:splitIndex]
	leaf.Slots = leaf.Slots[:splitIndex]

	siblingID := index.TrackNew(Node(sibling))
	leaf.Next = LeafPointer{Valid: true, BlockID: siblingID}

	if destIsSibling {
		idx := lowerBound(sibling.Keys, key)
		insertLeafAt(sibling, idx, key, ptr)
	} else {
		idx := lowerBound(leaf.Keys, key)
		insertLeafAt(leaf, idx, key, ptr)
	}

	return sibling, sibling.Keys[0]
}

// splitInternal implements §4.4.2: allocate a sibling, partition keys
// and children, place the incoming (separator, child) pair on whichever
// side it belongs, then promote the smallest sibling key (rather than
// duplicating it) by shifting the sibling's keys left by one.
func splitInternal(index *BlockStore[Node], node *InternalNode, sep float32, childID int32) (Node, float32) {
	d := int(node.Degree)
	initialSplit := ceilDiv(d, 2)
	splitIndex := initialSplit

	goesToCurrent := sep < node.Keys[initialSplit-1]
	if goesToCurrent {
		splitIndex--
	}

	sibling := &InternalNode{Degree: node.Degree}
	sibling.Keys = append([]float32{}, node.Keys[splitIndex:]...)
	sibling.Children = append([]int32{}, node.Children[splitIndex+1:]...)

	node.Keys = node.Keys[:splitIndex]
	node.Children = node.Children[:splitIndex+1]

	if goesToCurrent {
		idx := lowerBound(node.Keys, sep)
		insertInternalAt(node, idx, sep, childID)
	} else {
		// Before the promotion below, the sibling holds one child per key
		// (Children[i] is right of Keys[i]), so the new child goes at idx.
		idx := lowerBound(sibling.Keys, sep)
		sibling.Keys = append(sibling.Keys, 0)
		copy(sibling.Keys[idx+1:], sibling.Keys[idx:])
		sibling.Keys[idx] = sep
		sibling.Children = append(sibling.Children, 0)
		copy(sibling.Children[idx+1:], sibling.Children[idx:])
		sibling.Children[idx] = childID
	}

	promoted := sibling.Keys[0]
	sibling.Keys = sibling.Keys[1:]

	index.TrackNew(Node(sibling))
	return sibling, promoted
}
