package bench

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report formats a Result for human-facing output, grouping large
// counters with golang.org/x/text/message rather than hand-rolled comma
// insertion.
type Report struct {
	Label  string
	Result Result
}

// String renders the report: trial count, average time, final
// page-access counters, and the scan's own record count. Min/max time
// are appended when at least one trial ran.
func (r Report) String() string {
	p := message.NewPrinter(language.English)
	s := p.Sprintf(
		"%s: %d trials, avg=%s, records=%d, index_blocks=%d, data_blocks=%d",
		r.Label, r.Result.Trials, r.Result.AverageDuration,
		r.Result.RecordCount, r.Result.LoadedIndexBlocks, r.Result.LoadedDataBlocks,
	)
	if r.Result.Trials > 0 {
		s += p.Sprintf(", min=%s, max=%s", r.Result.MinDuration, r.Result.MaxDuration)
	}
	return s
}
