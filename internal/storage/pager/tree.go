package pager

// MaxHeight is the invariant ceiling on legal tree depth. A descent or
// construction exceeding it indicates corruption.
const MaxHeight = 20

// BPlusTree is the on-disk index driver: it holds only a root block ID
// and a degree, and resolves every other reference through the index
// and overflow BlockStores it was built with.
type BPlusTree struct {
	index       *BlockStore[Node]
	overflow    *BlockStore[*OverflowBlock]
	data        *BlockStore[*DataBlock]
	degree      uint16
	rootID      int32
	maxOverflow int
}

// NewBPlusTree allocates one empty leaf, tracks it as an index block,
// and returns a tree rooted there. pageSize determines how many pointers
// each block of a leaf-slot overflow chain holds, via MaxOverflowCount. data
// is the data-block store an Iterator dereferences RecordPointers
// through.
func NewBPlusTree(index *BlockStore[Node], overflow *BlockStore[*OverflowBlock], data *BlockStore[*DataBlock], degree uint16, pageSize int) *BPlusTree {
	root := &LeafNode{Degree: degree}
	id := index.TrackNew(Node(root))
	return &BPlusTree{index: index, overflow: overflow, data: data, degree: degree, rootID: id, maxOverflow: MaxOverflowCount(pageSize)}
}

// OpenBPlusTree resumes a tree whose root is already on disk at rootID —
// used when reopening a Storage built by a previous run.
func OpenBPlusTree(index *BlockStore[Node], overflow *BlockStore[*OverflowBlock], data *BlockStore[*DataBlock], degree uint16, rootID int32, pageSize int) *BPlusTree {
	return &BPlusTree{index: index, overflow: overflow, data: data, degree: degree, rootID: rootID, maxOverflow: MaxOverflowCount(pageSize)}
}

// Degree returns the tree's configured node degree.
func (t *BPlusTree) Degree() uint16 { return t.degree }

// RootBlockID returns the current root's index block ID.
func (t *BPlusTree) RootBlockID() int32 { return t.rootID }

// Insert places (key, ptr) in the tree, splitting nodes and growing a
// new root as needed. Insertion never fails for a full tree; the
// splitting protocol is total.
func (t *BPlusTree) Insert(key float32, ptr RecordPointer) error {
	root, err := t.index.Get(t.rootID)
	if err != nil {
		return err
	}
	sibling, sepKey, hasSibling, err := t.insertInto(root, 1, key, ptr)
	if err != nil {
		return err
	}
	if hasSibling {
		newRoot := &InternalNode{
			Degree:   t.degree,
			Keys:     []float32{sepKey},
			Children: []int32{t.rootID, sibling.BlockID()},
		}
		t.rootID = t.index.TrackNew(Node(newRoot))
	}
	return nil
}

// insertInto implements the recursive insert protocol of §4.4. depth
// tracks recursion depth purely to enforce MaxHeight.
func (t *BPlusTree) insertInto(node Node, depth int, key float32, ptr RecordPointer) (Node, float32, bool, error) {
	if depth > MaxHeight {
		corruptf("pager: tree descent exceeds MaxHeight (%d)", MaxHeight)
	}

	leaf, isLeaf := node.(*LeafNode)
	if isLeaf {
		idx := lowerBound(leaf.Keys, key)
		if idx < len(leaf.Keys) && leaf.Keys[idx] == key {
			if err := leaf.Slots[idx].Append(t.overflow, t.maxOverflow, ptr); err != nil {
				return nil, 0, false, err
			}
			return nil, 0, false, nil
		}
		if len(leaf.Keys) < int(leaf.Degree) {
			insertLeafAt(leaf, idx, key, ptr)
			return nil, 0, false, nil
		}
		sibling, sep := splitLeaf(t.index, leaf, key, ptr)
		return sibling, sep, true, nil
	}

	internal := node.(*InternalNode)
	childPos := upperBound(internal.Keys, key)
	child, err := t.index.Get(internal.Children[childPos])
	if err != nil {
		return nil, 0, false, err
	}
	sibling, sepKey, hasSibling, err := t.insertInto(child, depth+1, key, ptr)
	if err != nil || !hasSibling {
		return nil, 0, false, err
	}

	if len(internal.Keys) < int(internal.Degree) {
		idx := lowerBound(internal.Keys, sepKey)
		insertInternalAt(internal, idx, sepKey, sibling.BlockID())
		return nil, 0, false, nil
	}
	newSibling, newSep := splitInternal(t.index, internal, sepKey, sibling.BlockID())
	return newSibling, newSep, true, nil
}

// Search descends from the root, routing internal nodes by upper_bound,
// and returns an Iterator positioned at lower_bound(key) in the leaf it
// lands on.
func (t *BPlusTree) Search(key float32) (*Iterator, error) {
	leaf, err := t.descendTo(key)
	if err != nil {
		return nil, err
	}
	idx := lowerBound(leaf.Keys, key)
	it := &Iterator{tree: t, leafID: leaf.BlockID(), keyIndex: idx}
	if err := it.normalize(); err != nil {
		return nil, err
	}
	return it, nil
}

// Begin returns an iterator at the first key of the leftmost leaf.
func (t *BPlusTree) Begin() (*Iterator, error) {
	leaf, err := t.leftmostLeaf()
	if err != nil {
		return nil, err
	}
	it := &Iterator{tree: t, leafID: leaf.BlockID(), keyIndex: 0}
	if err := it.normalize(); err != nil {
		return nil, err
	}
	return it, nil
}

// End returns the sentinel iterator: no current node.
func (t *BPlusTree) End() *Iterator {
	return &Iterator{tree: t, atEnd: true}
}

func (t *BPlusTree) descendTo(key float32) (*LeafNode, error) {
	node, err := t.index.Get(t.rootID)
	if err != nil {
		return nil, err
	}
	depth := 0
	for {
		depth++
		if depth > MaxHeight {
			corruptf("pager: tree descent exceeds MaxHeight (%d)", MaxHeight)
		}
		leaf, ok := node.(*LeafNode)
		if ok {
			return leaf, nil
		}
		internal := node.(*InternalNode)
		childPos := upperBound(internal.Keys, key)
		node, err = t.index.Get(internal.Children[childPos])
		if err != nil {
			return nil, err
		}
	}
}

func (t *BPlusTree) leftmostLeaf() (*LeafNode, error) {
	node, err := t.index.Get(t.rootID)
	if err != nil {
		return nil, err
	}
	depth := 0
	for {
		depth++
		if depth > MaxHeight {
			corruptf("pager: tree descent exceeds MaxHeight (%d)", MaxHeight)
		}
		leaf, ok := node.(*LeafNode)
		if ok {
			return leaf, nil
		}
		internal := node.(*InternalNode)
		node, err = t.index.Get(internal.Children[0])
		if err != nil {
			return nil, err
		}
	}
}

// Height returns the current tree depth (root leaf = height 1), bounded
// by MaxHeight; exceeding it is a fatal invariant failure.
func (t *BPlusTree) Height() (int, error) {
	node, err := t.index.Get(t.rootID)
	if err != nil {
		return 0, err
	}
	height := 1
	for {
		internal, ok := node.(*InternalNode)
		if !ok {
			return height, nil
		}
		if height > MaxHeight {
			corruptf("pager: tree height exceeds MaxHeight (%d)", MaxHeight)
		}
		node, err = t.index.Get(internal.Children[0])
		if err != nil {
			return 0, err
		}
		height++
	}
}

// NumberOfNodes performs a breadth-first count of every index block
// reachable from the root.
func (t *BPlusTree) NumberOfNodes() (int, error) {
	queue := []int32{t.rootID}
	count := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		count++
		node, err := t.index.Get(id)
		if err != nil {
			return 0, err
		}
		if internal, ok := node.(*InternalNode); ok {
			queue = append(queue, internal.Children...)
		}
	}
	return count, nil
}

// RootKeys returns a copy of the current root node's keys.
func (t *BPlusTree) RootKeys() ([]float32, error) {
	node, err := t.index.Get(t.rootID)
	if err != nil {
		return nil, err
	}
	var keys []float32
	switch n := node.(type) {
	case *LeafNode:
		keys = n.Keys
	case *InternalNode:
		keys = n.Keys
	}
	return append([]float32{}, keys...), nil
}
