// Package criteria normalizes the heterogeneous criterion records the
// QA backend returns. Different backend code paths name the same field
// differently (categoria vs nome, pct_conforme vs taxa_conforme, ...)
// and sometimes return fractions where percentages are expected, so
// everything funnels through a single canonical projection before
// display or evaluation.
package criteria

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is a raw criterion record as received from the backend. It is
// consumed read-only.
type Record map[string]any

// nameFields and scoreFields are the known aliases for the criterion
// name and score, in resolution priority order. First present wins.
var nameFields = []string{"categoria", "name", "item", "nome"}

var scoreFields = []string{
	"pct_conforme",
	"performance",
	"score",
	"percentual",
	"taxa_conforme",
	"media",
	"valor",
	"pontuacao",
	"conformidade",
}

// Normalized is the canonical shape of a criterion record.
type Normalized struct {
	ID             string
	Name           string
	NormalizedName string
	// Value is the score on a 0-100 scale.
	Value float64
	// NotApplicable holds when the score is 0 or below 1. This
	// deliberately conflates "no data" with "scored under 1%"; the rule
	// is kept as the backend consumers have always interpreted it.
	NotApplicable bool
	Raw           Record
}

// Normalize projects a raw record into canonical form. It is pure and
// total: a record with no recognizable name yields an empty
// NormalizedName, and a non-numeric score yields 0.
func Normalize(raw Record) Normalized {
	name := firstString(raw, nameFields)
	value := firstNumber(raw, scoreFields)

	// Some backend queries return conformity as a fraction instead of a
	// percentage.
	if value > 0 && value <= 1 {
		value *= 100
	}

	normalized := NormalizeName(name)

	return Normalized{
		ID:             fmt.Sprintf("%s#%x", normalized, hashRecord(name, value)),
		Name:           name,
		NormalizedName: normalized,
		Value:          value,
		NotApplicable:  value == 0 || value < 1,
		Raw:            raw,
	}
}

// NormalizeName derives the deduplication key for a criterion name:
// lowercase, trimmed, runs of spaces/underscores collapsed to a single
// underscore, everything outside [a-z0-9_] stripped, and the generic
// "criterio"/"item" prefixes and suffixes removed.
func NormalizeName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		switch {
		case r == ' ' || r == '_':
			if b.Len() > 0 {
				pendingSep = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			if pendingSep {
				b.WriteByte('_')
				pendingSep = false
			}
			b.WriteRune(r)
		default:
			// Accented and special characters are dropped entirely.
		}
	}
	s = b.String()

	for _, prefix := range []string{"criterios_", "criterio_", "itens_", "item_"} {
		if strings.HasPrefix(s, prefix) {
			s = strings.TrimPrefix(s, prefix)
			break
		}
	}
	for _, suffix := range []string{"_criterios", "_criterio", "_itens", "_item"} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSuffix(s, suffix)
			break
		}
	}

	return s
}

// firstString resolves the first non-empty string among the candidate
// fields.
func firstString(raw Record, fields []string) string {
	for _, f := range fields {
		v, ok := raw[f]
		if !ok || v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}

// firstNumber resolves the first present, non-zero-valued numeric field
// among the candidates, coercing numeric strings. A field that is
// present but non-numeric counts as 0.
func firstNumber(raw Record, fields []string) float64 {
	for _, f := range fields {
		v, ok := raw[f]
		if !ok || v == nil {
			continue
		}
		n, ok := coerceNumber(v)
		if ok && n != 0 {
			return n
		}
	}
	return 0
}

func coerceNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// hashRecord gives Normalize a stable opaque id component without
// pulling in a hashing dependency. FNV-1a over the resolved fields.
func hashRecord(name string, value float64) uint32 {
	const (
		offset = 2166136261
		prime  = 16777619
	)
	h := uint32(offset)
	for _, c := range []byte(fmt.Sprintf("%s|%g", name, value)) {
		h ^= uint32(c)
		h *= prime
	}
	return h
}
