package criteria

import (
	"go.uber.org/zap"
)

// Stats summarizes a dedupe pass for diagnostics. It never influences
// control flow.
type Stats struct {
	Total      int
	Unique     int
	Duplicates int
	Dropped    int
}

// Dedupe normalizes a list of raw records and collapses duplicates by
// NormalizedName. The first occurrence in input order wins; later
// duplicates are dropped, not merged. Records with no resolvable name
// are dropped and counted.
func Dedupe(raws []Record) ([]Normalized, Stats) {
	stats := Stats{Total: len(raws)}

	seen := make(map[string]struct{}, len(raws))
	out := make([]Normalized, 0, len(raws))

	for _, raw := range raws {
		n := Normalize(raw)
		if n.NormalizedName == "" {
			stats.Dropped++
			continue
		}
		if _, dup := seen[n.NormalizedName]; dup {
			stats.Duplicates++
			continue
		}
		seen[n.NormalizedName] = struct{}{}
		out = append(out, n)
	}

	stats.Unique = len(out)
	return out, stats
}

// LogStats reports dedupe diagnostics on the given logger.
func LogStats(logger *zap.Logger, stats Stats) {
	if stats.Duplicates == 0 && stats.Dropped == 0 {
		return
	}
	logger.Debug("criteria dedupe",
		zap.Int("total", stats.Total),
		zap.Int("unique", stats.Unique),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("dropped", stats.Dropped),
	)
}
