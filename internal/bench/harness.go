package bench

import (
	"time"

	"github.com/SimonWaldherr/fgpctidx/internal/storage"
	"github.com/SimonWaldherr/fgpctidx/internal/storage/pager"
)

// Result is one harness run's summary: trial count, timing, the final
// page-access counters (read once, after the last trial's flush, since
// every trial starts those counters at zero), and the scan's own
// aggregate output (useful for cross-checking brute-force against
// indexed).
type Result struct {
	Trials            int
	AverageDuration   time.Duration
	MinDuration       time.Duration
	MaxDuration       time.Duration
	LoadedIndexBlocks int
	LoadedDataBlocks  int
	RecordCount       int
	Sum               float64
}

// RunBruteForce repeats a full data-block scan, filtering by
// [min, max], until cfg.MaxTrials trials or cfg.TimeBudgetSeconds
// elapses. Every data block is read through Storage.GetDataBlock so the
// loaded-block counter reflects actual page traffic rather than an
// arithmetic stand-in.
func RunBruteForce(store *storage.Storage, blockCount int, min, max float32, cfg Config) (Result, error) {
	return runTrials(cfg, func() (int, float64, error) {
		if err := store.FlushBlocks(); err != nil {
			return 0, 0, err
		}
		count := 0
		var sum float64
		for id := int32(0); id < int32(blockCount); id++ {
			block, err := store.GetDataBlock(id)
			if err != nil {
				return 0, 0, err
			}
			for _, rec := range block.Records {
				if rec.FGPctHome >= min && rec.FGPctHome <= max {
					count++
					sum += float64(rec.FGPctHome)
				}
			}
		}
		return count, sum, nil
	}, store)
}

// RunIndexed repeats a range scan over tree via search(min), advancing
// while the current key is <= max, until cfg.MaxTrials trials or
// cfg.TimeBudgetSeconds elapses.
func RunIndexed(store *storage.Storage, tree *pager.BPlusTree, min, max float32, cfg Config) (Result, error) {
	return runTrials(cfg, func() (int, float64, error) {
		if err := store.FlushBlocks(); err != nil {
			return 0, 0, err
		}
		it, err := tree.Search(min)
		if err != nil {
			return 0, 0, err
		}
		count := 0
		var sum float64
		for !it.Done() {
			key, err := it.Key()
			if err != nil {
				return 0, 0, err
			}
			if key > max {
				break
			}
			rec, err := it.Record()
			if err != nil {
				return 0, 0, err
			}
			count++
			sum += float64(rec.FGPctHome)
			if err := it.Next(); err != nil {
				return 0, 0, err
			}
		}
		return count, sum, nil
	}, store)
}

// runTrials drives the flush-time-scan-time loop shared by both scan
// variants: each call to scan is expected to flush the store itself
// (so every trial's counters start at zero) and return the scan's own
// count/sum.
func runTrials(cfg Config, scan func() (int, float64, error), store *storage.Storage) (Result, error) {
	maxTrials := cfg.MaxTrials
	if maxTrials <= 0 {
		maxTrials = 1000
	}
	budget := cfg.TimeBudgetSeconds
	if budget <= 0 {
		budget = 30
	}
	deadline := time.Now().Add(time.Duration(budget * float64(time.Second)))

	var durations []time.Duration
	var lastCount int
	var lastSum float64

	trials := 0
	for trials < maxTrials && time.Now().Before(deadline) {
		start := time.Now()
		count, sum, err := scan()
		elapsed := time.Since(start)
		if err != nil {
			return Result{}, err
		}
		durations = append(durations, elapsed)
		lastCount = count
		lastSum = sum
		trials++
	}

	res := Result{
		Trials:            trials,
		LoadedIndexBlocks: store.LoadedIndexBlockCount(),
		LoadedDataBlocks:  store.LoadedDataBlockCount(),
		RecordCount:       lastCount,
		Sum:               lastSum,
	}
	if trials == 0 {
		return res, nil
	}

	var total time.Duration
	res.MinDuration = durations[0]
	res.MaxDuration = durations[0]
	for _, d := range durations {
		total += d
		if d < res.MinDuration {
			res.MinDuration = d
		}
		if d > res.MaxDuration {
			res.MaxDuration = d
		}
	}
	res.AverageDuration = total / time.Duration(trials)
	return res, nil
}
