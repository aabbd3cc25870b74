// Package normalize maps each upstream source's raw record shape onto the
// canonical Reading schema, applying the static catalog recodes and the
// allow-list policy.
package normalize

import (
	"encoding/json"
	"strconv"
	"strings"
)

// looseString decodes a JSON field that upstream emits inconsistently as a
// string, a number, or null. The irrigation API in particular flips between
// numeric and quoted encodings across deployments.
type looseString string

func (s *looseString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*s = looseString(v)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = looseString(n.String())
	return nil
}

// firstNumber parses the first comma-separated token of raw as a positive
// float. Threshold fields arrive as comma-joined strings with the usable
// value first; non-positive and malformed values are treated as absent.
func firstNumber(raw string) *float64 {
	token, _, _ := strings.Cut(raw, ",")
	v, err := strconv.ParseFloat(strings.TrimSpace(token), 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// missingSentinels are series tokens that encode an absent measurement.
// Matching is case-sensitive: "Null" is a parse failure, not a sentinel,
// but both map to a null reading regardless.
var missingSentinels = map[string]bool{"-": true, "": true, "null": true, "NULL": true}

// parseSeriesValue maps one series token to a water level. Sentinel and
// malformed tokens map to null, never to zero.
func parseSeriesValue(token string) *float64 {
	token = strings.TrimSpace(token)
	if missingSentinels[token] {
		return nil
	}
	v, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	return &v
}
