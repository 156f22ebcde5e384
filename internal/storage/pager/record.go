package pager

import "io"

// RecordSize is the fixed serialized payload size of a Record in bytes:
// two uint32 fields, three float32 fields, three uint16 fields, and one
// bool byte.
const RecordSize = 4 + 4 + 4 + 4 + 4 + 2 + 2 + 2 + 1

// Record is one basketball box-score row, keyed externally by
// FGPctHome. Field order here is the field order on the wire.
type Record struct {
	GameDateEST  uint32 // decimal-encoded YYYYMMDD
	TeamIDHome   uint32
	FGPctHome    float32
	FTPctHome    float32
	FG3PctHome   float32
	ASTHome      uint16
	REBHome      uint16
	PTSHome      uint16
	HomeTeamWins bool
}

// Serialize writes the record's 27-byte payload in field order.
func (r Record) Serialize(w io.Writer) (int, error) {
	var s Serializer
	n := 0
	writers := []func() (int, error){
		func() (int, error) { return s.WriteUint32(w, r.GameDateEST) },
		func() (int, error) { return s.WriteUint32(w, r.TeamIDHome) },
		func() (int, error) { return s.WriteFloat32(w, r.FGPctHome) },
		func() (int, error) { return s.WriteFloat32(w, r.FTPctHome) },
		func() (int, error) { return s.WriteFloat32(w, r.FG3PctHome) },
		func() (int, error) { return s.WriteUint16(w, r.ASTHome) },
		func() (int, error) { return s.WriteUint16(w, r.REBHome) },
		func() (int, error) { return s.WriteUint16(w, r.PTSHome) },
		func() (int, error) { return s.WriteBool(w, r.HomeTeamWins) },
	}
	for _, write := range writers {
		written, err := write()
		n += written
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// ReadRecord reads one Record payload from r.
func ReadRecord(r io.Reader) (Record, error) {
	var s Serializer
	var rec Record
	var err error

	if rec.GameDateEST, err = s.ReadUint32(r); err != nil {
		return rec, err
	}
	if rec.TeamIDHome, err = s.ReadUint32(r); err != nil {
		return rec, err
	}
	if rec.FGPctHome, err = s.ReadFloat32(r); err != nil {
		return rec, err
	}
	if rec.FTPctHome, err = s.ReadFloat32(r); err != nil {
		return rec, err
	}
	if rec.FG3PctHome, err = s.ReadFloat32(r); err != nil {
		return rec, err
	}
	if rec.ASTHome, err = s.ReadUint16(r); err != nil {
		return rec, err
	}
	if rec.REBHome, err = s.ReadUint16(r); err != nil {
		return rec, err
	}
	if rec.PTSHome, err = s.ReadUint16(r); err != nil {
		return rec, err
	}
	if rec.HomeTeamWins, err = s.ReadBool(r); err != nil {
		return rec, err
	}
	return rec, nil
}

// RecordPointer is a stable reference to a record within a data block: a
// block ID plus an intra-block offset. Offsets are never reassigned, so a
// RecordPointer is valid for the lifetime of the heap file.
type RecordPointer struct {
	BlockID int32
	Offset  uint16
}

// Serialize writes the pointer as uint32(block_id), uint16(offset).
func (p RecordPointer) Serialize(w io.Writer) (int, error) {
	var s Serializer
	n, err := s.WriteUint32(w, uint32(p.BlockID))
	if err != nil {
		return n, err
	}
	n2, err := s.WriteUint16(w, p.Offset)
	return n + n2, err
}

// ReadRecordPointer reads a RecordPointer from r.
func ReadRecordPointer(r io.Reader) (RecordPointer, error) {
	var s Serializer
	blockID, err := s.ReadInt32(r)
	if err != nil {
		return RecordPointer{}, err
	}
	offset, err := s.ReadUint16(r)
	if err != nil {
		return RecordPointer{}, err
	}
	return RecordPointer{BlockID: blockID, Offset: offset}, nil
}
