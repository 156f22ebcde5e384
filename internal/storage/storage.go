// Package storage is the facade a loader or benchmark harness talks to:
// it owns the three page families (data, index, overflow) backing one
// on-disk database directory and exposes the composite flush operations
// the benchmark harness needs between trials.
package storage

import (
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/SimonWaldherr/fgpctidx/internal/storage/pager"
)

// Storage owns three BlockStores, a page size queried from the OS at
// construction (falling back to 4096), and an instance tag used only
// for log correlation across concurrent benchmark runs against
// different root directories.
type Storage struct {
	rootDir     string
	pageSize    int
	instanceTag uuid.UUID

	data     *pager.BlockStore[*pager.DataBlock]
	index    *pager.BlockStore[pager.Node]
	overflow *pager.BlockStore[*pager.OverflowBlock]
}

// New opens (fresh, or reopening an existing on-disk database) a
// Storage rooted at rootDir. dataCount, indexCount, and overflowCount
// are the number of blocks already on disk per family — 0 for a fresh
// database — used to seed each family's next-assigned ID.
func New(rootDir string, dataCount, indexCount, overflowCount int32) (*Storage, error) {
	if err := os.MkdirAll(rootDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root dir %s: %w", rootDir, err)
	}
	pageSize := systemPageSize()
	s := &Storage{
		rootDir:     rootDir,
		pageSize:    pageSize,
		instanceTag: uuid.New(),
	}
	s.data = pager.NewBlockStore[*pager.DataBlock](rootDir, "data_", dataCount, pager.ReadDataBlock)
	s.index = pager.NewBlockStore[pager.Node](rootDir, "index_", indexCount, pager.ReadNode)
	s.overflow = pager.NewBlockStore[*pager.OverflowBlock](rootDir, "overflow_", overflowCount, pager.ReadOverflowBlock)

	log.Printf("storage[%s]: opened %s (page size %d, data=%d index=%d overflow=%d)",
		s.instanceTag, rootDir, pageSize, dataCount, indexCount, overflowCount)
	return s, nil
}

// PageSize returns the system page size this Storage was opened with.
func (s *Storage) PageSize() int { return s.pageSize }

// InstanceTag returns the UUID stamped on this Storage at construction.
func (s *Storage) InstanceTag() uuid.UUID { return s.instanceTag }

// NewTree builds a fresh BPlusTree (one empty root leaf) backed by this
// Storage's index, overflow, and data block stores.
func (s *Storage) NewTree(degree uint16) *pager.BPlusTree {
	return pager.NewBPlusTree(s.index, s.overflow, s.data, degree, s.pageSize)
}

// OpenTree resumes a BPlusTree whose root is already on disk at rootID.
func (s *Storage) OpenTree(degree uint16, rootID int32) *pager.BPlusTree {
	return pager.OpenBPlusTree(s.index, s.overflow, s.data, degree, rootID, s.pageSize)
}

// WriteDataBlocks packs records into DataBlocks until each is full,
// tracks every full block plus the final partial one, writes the whole
// data family to disk, and returns the total block count.
func (s *Storage) WriteDataBlocks(records []pager.Record) (int, error) {
	maxPerBlock := pager.MaxRecordsPerBlock(s.pageSize)
	if maxPerBlock <= 0 {
		return 0, fmt.Errorf("storage: page size %d too small for one record (%d bytes)", s.pageSize, pager.RecordSize)
	}

	count := 0
	var block *pager.DataBlock
	for _, rec := range records {
		if block == nil {
			block = pager.NewDataBlock(maxPerBlock)
		}
		block.Records = append(block.Records, rec)
		if len(block.Records) == maxPerBlock {
			s.data.TrackNew(block)
			count++
			block = nil
		}
	}
	if block != nil {
		s.data.TrackNew(block)
		count++
	}
	if err := s.data.WriteAllCached(); err != nil {
		return count, err
	}
	return count, nil
}

// GetDataBlock returns the data block with the given ID, loading it
// from disk on first access.
func (s *Storage) GetDataBlock(id int32) (*pager.DataBlock, error) {
	return s.data.Get(id)
}

// FlushBlocks writes every cached page in all three families to disk,
// then drops all three caches. Used before every benchmark trial so
// page-access counters start from zero.
func (s *Storage) FlushBlocks() error {
	if err := s.data.WriteAllCached(); err != nil {
		return err
	}
	if err := s.index.WriteAllCached(); err != nil {
		return err
	}
	if err := s.overflow.WriteAllCached(); err != nil {
		return err
	}
	s.data.DeleteAllWithoutWriting()
	s.index.DeleteAllWithoutWriting()
	s.overflow.DeleteAllWithoutWriting()
	return nil
}

// FlushCacheWithoutWriting drops all three caches without persisting
// them, for use when on-disk state is already authoritative.
func (s *Storage) FlushCacheWithoutWriting() {
	s.data.DeleteAllWithoutWriting()
	s.index.DeleteAllWithoutWriting()
	s.overflow.DeleteAllWithoutWriting()
}

// LoadedDataBlockCount is the data family's current cache size.
func (s *Storage) LoadedDataBlockCount() int { return s.data.LoadedCount() }

// LoadedIndexBlockCount is the index family's current cache size.
func (s *Storage) LoadedIndexBlockCount() int { return s.index.LoadedCount() }

// LoadedOverflowBlockCount is the overflow family's current cache size.
func (s *Storage) LoadedOverflowBlockCount() int { return s.overflow.LoadedCount() }
