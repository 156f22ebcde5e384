package pager

import "bytes"

// MaxRecordsPerBlock returns how many Records fit in one page of the
// given size: floor(pageSize / RecordSize).
func MaxRecordsPerBlock(pageSize int) int {
	return pageSize / RecordSize
}

// DataBlock is a page holding an ordered sequence of Records. Its ID is
// carried out-of-band by the owning BlockStore (the file name); the
// on-disk payload is only the records, written back-to-back with no
// framing, so the final (possibly partial) block must be written and
// read back at its exact physical length.
type DataBlock struct {
	id      int32
	Records []Record
}

// NewDataBlock creates an empty data block with capacity for up to
// maxRecords before a caller must start a new one.
func NewDataBlock(maxRecords int) *DataBlock {
	return &DataBlock{Records: make([]Record, 0, maxRecords)}
}

// BlockID implements Page.
func (d *DataBlock) BlockID() int32 { return d.id }

// SetBlockID implements Page.
func (d *DataBlock) SetBlockID(id int32) { d.id = id }

// Serialize implements Page: records back-to-back, no length prefix.
func (d *DataBlock) Serialize(w *bytes.Buffer) (int, error) {
	n := 0
	for i := range d.Records {
		written, err := d.Records[i].Serialize(w)
		n += written
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadDataBlock decodes records from r until the stream is exhausted.
// It is the NewPageFunc for the data BlockStore.
func ReadDataBlock(id int32, r *bytes.Reader) (*DataBlock, error) {
	d := &DataBlock{id: id}
	for r.Len() > 0 {
		rec, err := ReadRecord(r)
		if err != nil {
			return nil, err
		}
		d.Records = append(d.Records, rec)
	}
	return d, nil
}
