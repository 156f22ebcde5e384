package bench

import (
	"testing"

	"github.com/SimonWaldherr/fgpctidx/internal/storage"
	"github.com/SimonWaldherr/fgpctidx/internal/storage/pager"
)

func TestRunBruteForceAndIndexedAgree(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.New(dir, 0, 0, 0)
	if err != nil {
		t.Fatalf("storage.New: %v", err)
	}

	records := make([]pager.Record, 40)
	for i := range records {
		records[i] = pager.Record{FGPctHome: float32(i%100) / 100}
	}
	blockCount, err := s.WriteDataBlocks(records)
	if err != nil {
		t.Fatalf("WriteDataBlocks: %v", err)
	}

	tree := s.NewTree(5)
	maxPerBlock := pager.MaxRecordsPerBlock(s.PageSize())
	for i, rec := range records {
		ptr := pager.RecordPointer{BlockID: int32(i / maxPerBlock), Offset: uint16(i % maxPerBlock)}
		if err := tree.Insert(rec.FGPctHome, ptr); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	if err := s.FlushBlocks(); err != nil {
		t.Fatalf("FlushBlocks: %v", err)
	}

	cfg := Config{MaxTrials: 3, TimeBudgetSeconds: 5, KeyMin: 0.1, KeyMax: 0.3}

	brute, err := RunBruteForce(s, blockCount, cfg.KeyMin, cfg.KeyMax, cfg)
	if err != nil {
		t.Fatalf("RunBruteForce: %v", err)
	}
	indexed, err := RunIndexed(s, tree, cfg.KeyMin, cfg.KeyMax, cfg)
	if err != nil {
		t.Fatalf("RunIndexed: %v", err)
	}

	if brute.Trials != 3 || indexed.Trials != 3 {
		t.Fatalf("trials = %d/%d, want 3/3", brute.Trials, indexed.Trials)
	}
	if brute.RecordCount != indexed.RecordCount {
		t.Fatalf("record count mismatch: brute=%d indexed=%d", brute.RecordCount, indexed.RecordCount)
	}
	if indexed.LoadedIndexBlocks == 0 {
		t.Fatalf("indexed scan touched zero index blocks")
	}

	report := Report{Label: "test", Result: indexed}
	if report.String() == "" {
		t.Fatal("Report.String() returned empty string")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxTrials != 1000 || cfg.TimeBudgetSeconds != 30 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}
