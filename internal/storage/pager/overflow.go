package pager

import "bytes"

// MaxOverflowCount returns the maximum number of RecordPointers that fit
// in one overflow page: floor((pageSize - 4 - 5) / 6), leaving room for
// the leading uint32 count and the trailing has_next/next_id fields.
func MaxOverflowCount(pageSize int) int {
	return (pageSize - 4 - 5) / 6
}

// OverflowBlockPointer is an optional reference to an overflow block: a
// tagged block ID, since 0 is itself a legal block ID and cannot double
// as "none".
type OverflowBlockPointer struct {
	Valid   bool
	BlockID int32
}

// OverflowBlock is an append-only extension of a leaf slot's record
// pointers. The chain is singly linked and append-only; if Next is
// present, the current block is full (MaxOverflowCount entries).
type OverflowBlock struct {
	id       int32
	Pointers []RecordPointer
	Next     OverflowBlockPointer
}

// NewOverflowBlock creates an empty overflow block with room for up to
// maxCount pointers before it must link to a successor.
func NewOverflowBlock(maxCount int) *OverflowBlock {
	return &OverflowBlock{Pointers: make([]RecordPointer, 0, maxCount)}
}

// BlockID implements Page.
func (o *OverflowBlock) BlockID() int32 { return o.id }

// SetBlockID implements Page.
func (o *OverflowBlock) SetBlockID(id int32) { o.id = id }

// Serialize implements Page per the §4.3 wire layout.
func (o *OverflowBlock) Serialize(w *bytes.Buffer) (int, error) {
	var s Serializer
	n := 0

	written, err := s.WriteUint32(w, uint32(len(o.Pointers)))
	n += written
	if err != nil {
		return n, err
	}
	for _, p := range o.Pointers {
		written, err = p.Serialize(w)
		n += written
		if err != nil {
			return n, err
		}
	}
	written, err = s.WriteBool(w, o.Next.Valid)
	n += written
	if err != nil {
		return n, err
	}
	if o.Next.Valid {
		written, err = s.WriteUint32(w, uint32(o.Next.BlockID))
		n += written
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadOverflowBlock is the NewPageFunc for the overflow BlockStore.
func ReadOverflowBlock(id int32, r *bytes.Reader) (*OverflowBlock, error) {
	var s Serializer
	o := &OverflowBlock{id: id}

	count, err := s.ReadUint32(r)
	if err != nil {
		return nil, err
	}
	o.Pointers = make([]RecordPointer, 0, count)
	for i := uint32(0); i < count; i++ {
		ptr, err := ReadRecordPointer(r)
		if err != nil {
			return nil, err
		}
		o.Pointers = append(o.Pointers, ptr)
	}
	hasNext, err := s.ReadBool(r)
	if err != nil {
		return nil, err
	}
	if hasNext {
		nextID, err := s.ReadInt32(r)
		if err != nil {
			return nil, err
		}
		o.Next = OverflowBlockPointer{Valid: true, BlockID: nextID}
	}
	return o, nil
}

// PushBackOverflow appends ptr to the chain rooted at head, walking from
// the store through each link until it finds the terminal block. If
// that block has room it appends in place; otherwise it allocates a new
// OverflowBlock, links the terminal's Next to it, and appends there. If
// head is not yet valid, a fresh chain head is allocated and *head is
// updated to point at it.
func PushBackOverflow(store *BlockStore[*OverflowBlock], head *OverflowBlockPointer, maxCount int, ptr RecordPointer) error {
	if !head.Valid {
		block := NewOverflowBlock(maxCount)
		block.Pointers = append(block.Pointers, ptr)
		id := store.TrackNew(block)
		*head = OverflowBlockPointer{Valid: true, BlockID: id}
		return nil
	}

	cur, err := store.Get(head.BlockID)
	if err != nil {
		return err
	}
	for cur.Next.Valid {
		cur, err = store.Get(cur.Next.BlockID)
		if err != nil {
			return err
		}
	}
	if len(cur.Pointers) < maxCount {
		cur.Pointers = append(cur.Pointers, ptr)
		return nil
	}
	next := NewOverflowBlock(maxCount)
	next.Pointers = append(next.Pointers, ptr)
	nextID := store.TrackNew(next)
	cur.Next = OverflowBlockPointer{Valid: true, BlockID: nextID}
	return nil
}

// ReadOverflowChain concatenates every pointer reachable from head, in
// insertion order, bounded by maxBlocks — exceeding it indicates a
// corrupt (cyclic or unterminated) chain.
func ReadOverflowChain(store *BlockStore[*OverflowBlock], head OverflowBlockPointer, maxBlocks int) ([]RecordPointer, error) {
	if !head.Valid {
		return nil, nil
	}
	var out []RecordPointer
	ptr := head
	visited := 0
	for ptr.Valid {
		visited++
		if visited > maxBlocks {
			corruptf("pager: overflow chain exceeds %d blocks", maxBlocks)
		}
		block, err := store.Get(ptr.BlockID)
		if err != nil {
			return nil, err
		}
		out = append(out, block.Pointers...)
		ptr = block.Next
	}
	return out, nil
}
