package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Pair is an ordered comparison (A over B). A judgment value r on Pair{A, B}
// means A is r times as important as B.
type Pair struct {
	A string `json:"a"`
	B string `json:"b"`
}

// NewPair builds a Pair with normalized labels.
func NewPair(a, b string) Pair {
	return Pair{A: NormalizeLabel(a), B: NormalizeLabel(b)}
}

// Key returns the storage representation "A ||| B".
func (p Pair) Key() string {
	return p.A + " " + PairDelimiter + " " + p.B
}

// Reverse swaps the orientation of the pair.
func (p Pair) Reverse() Pair {
	return Pair{A: p.B, B: p.A}
}

// String implements fmt.Stringer.
func (p Pair) String() string {
	return p.Key()
}

// Judgments maps pairs to positive ratios. It is the single normalized form
// every input representation is converted into before any computation runs.
type Judgments map[Pair]float64

// SortedPairs returns the pairs in a deterministic order (by A, then B).
func (j Judgments) SortedPairs() []Pair {
	pairs := make([]Pair, 0, len(j))
	for p := range j {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(x, y int) bool {
		if pairs[x].A != pairs[y].A {
			return pairs[x].A < pairs[y].A
		}
		return pairs[x].B < pairs[y].B
	})
	return pairs
}

// StorageMap returns the judgments keyed by the delimited storage format.
func (j Judgments) StorageMap() map[string]float64 {
	out := make(map[string]float64, len(j))
	for p, v := range j {
		out[p.Key()] = v
	}
	return out
}

// MarshalJSON encodes judgments in the delimited storage format.
func (j Judgments) MarshalJSON() ([]byte, error) {
	return json.Marshal(j.StorageMap())
}

// UnmarshalJSON accepts any representation understood by ParseJudgments.
func (j *Judgments) UnmarshalJSON(data []byte) error {
	var raw any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("failed to decode judgments: %w", err)
	}
	*j = NormalizeJudgments(raw)
	return nil
}

// SkippedEntry describes one judgment the adapter could not use.
type SkippedEntry struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// NormalizeLabel trims whitespace and applies Unicode NFC so visually identical labels match.
func NormalizeLabel(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// ParsePairKey splits a delimited key such as "A ||| B" into a Pair.
// It reports false when the key does not contain exactly two non-empty labels.
func ParsePairKey(key string) (Pair, bool) {
	parts := strings.Split(key, PairDelimiter)
	if len(parts) != 2 {
		return Pair{}, false
	}
	p := NewPair(parts[0], parts[1])
	if p.A == "" || p.B == "" {
		return Pair{}, false
	}
	return p, true
}

// ParseRatio converts a loosely typed value into a float ratio.
// Strings may be decimals ("3", "0.2") or fractions ("1/3").
func ParseRatio(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		return parseRatioString(x)
	default:
		return 0, false
	}
}

func parseRatioString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, false
		}
		return n / d, true
	}
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

// NormalizeJudgments converts any supported representation into Judgments,
// silently dropping entries that cannot be parsed.
func NormalizeJudgments(raw any) Judgments {
	j, _ := ParseJudgments(raw)
	return j
}

// ParseJudgments converts any supported representation into Judgments and
// reports every entry it dropped. Supported inputs:
//
//   - Judgments or map[Pair]float64
//   - map[string]V with "A ||| B" keys
//   - map[string]map[string]V nested as {"A": {"B": r}}
//   - []any of {"a":..,"b":..,"value":..} objects or [a, b, value] triples
//
// Values may be any numeric type, json.Number, or a decimal/fraction string.
func ParseJudgments(raw any) (Judgments, []SkippedEntry) {
	out := make(Judgments)
	var skipped []SkippedEntry

	add := func(key string, p Pair, ok bool, v any) {
		if !ok {
			skipped = append(skipped, SkippedEntry{Key: key, Reason: "malformed pair key"})
			return
		}
		r, ok := ParseRatio(v)
		if !ok {
			skipped = append(skipped, SkippedEntry{Key: key, Reason: fmt.Sprintf("non-numeric value %v", v)})
			return
		}
		if math.IsNaN(r) || math.IsInf(r, 0) {
			skipped = append(skipped, SkippedEntry{Key: key, Reason: "non-finite value"})
			return
		}
		if r != 0 && math.IsInf(1/r, 0) {
			skipped = append(skipped, SkippedEntry{Key: key, Reason: "reciprocal overflows"})
			return
		}
		out[p] = r
	}

	switch x := raw.(type) {
	case nil:
	case Judgments:
		for p, v := range x {
			p2 := NewPair(p.A, p.B)
			add(p.Key(), p2, p2.A != "" && p2.B != "", v)
		}
	case map[Pair]float64:
		for p, v := range x {
			p2 := NewPair(p.A, p.B)
			add(p.Key(), p2, p2.A != "" && p2.B != "", v)
		}
	case map[string]float64:
		for k, v := range x {
			p, ok := ParsePairKey(k)
			add(k, p, ok, v)
		}
	case map[string]any:
		for k, v := range x {
			if inner, isMap := v.(map[string]any); isMap {
				for k2, v2 := range inner {
					p := NewPair(k, k2)
					add(k+" > "+k2, p, p.A != "" && p.B != "", v2)
				}
				continue
			}
			p, ok := ParsePairKey(k)
			add(k, p, ok, v)
		}
	case []any:
		for i, item := range x {
			key := fmt.Sprintf("[%d]", i)
			switch e := item.(type) {
			case map[string]any:
				a, _ := e["a"].(string)
				b, _ := e["b"].(string)
				p := NewPair(a, b)
				add(key, p, p.A != "" && p.B != "", e["value"])
			case []any:
				if len(e) != 3 {
					skipped = append(skipped, SkippedEntry{Key: key, Reason: "triple must have three elements"})
					continue
				}
				a, _ := e[0].(string)
				b, _ := e[1].(string)
				p := NewPair(a, b)
				add(key, p, p.A != "" && p.B != "", e[2])
			default:
				skipped = append(skipped, SkippedEntry{Key: key, Reason: "unsupported entry"})
			}
		}
	default:
		skipped = append(skipped, SkippedEntry{Key: "", Reason: fmt.Sprintf("unsupported judgments type %T", raw)})
	}

	return out, skipped
}
