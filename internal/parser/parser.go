// Package parser recovers structured artifact records from raw LLM
// response text. Model output is frequently almost-JSON: wrapped in
// prose or markdown, containing raw control characters inside string
// values, or truncated mid-array. Parse salvages whatever well-formed
// records it can instead of failing.
package parser

import (
	"encoding/json"
	"regexp"
	"strings"

	"personagen/internal/types"
)

// looseObject detects field presence during repaired-object parsing.
type looseObject struct {
	Title         *string `json:"title"`
	Category      *string `json:"category"`
	FileExtension *string `json:"file_extension"`
	Content       *string `json:"content"`
}

var (
	titleRe    = regexp.MustCompile(`"title"\s*:\s*"([^"]*(?:\\"[^"]*)*)"`)
	categoryRe = regexp.MustCompile(`"category"\s*:\s*"([^"]*)"`)
	extRe      = regexp.MustCompile(`"file_extension"\s*:\s*"([^"]*)"`)
	contentRe  = regexp.MustCompile(`"content"\s*:\s*"((?:[^"\\]|\\.|\n|\r|\t)*?)"(?:\s*[,}])`)
)

// Parse extracts up to expected artifact records from raw response text.
// It never fails: malformed input yields fewer records, possibly none.
//
// Fallback tiers, in order:
//  1. isolate the span from the first '[' to the last ']'
//  2. strict JSON array parse of the span (fast path)
//  3. brace-aware extraction of candidate objects from the span
//  4. per-candidate control-character repair, then strict parse
//  5. per-candidate regexp field extraction (best effort)
func Parse(raw string, expected int) []types.ParsedRecord {
	if expected <= 0 {
		return nil
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return nil
	}
	span := raw[start : end+1]

	// Fast path: the whole span is a valid array.
	var direct []types.ParsedRecord
	if err := json.Unmarshal([]byte(span), &direct); err == nil {
		if len(direct) > expected {
			direct = direct[:expected]
		}
		return direct
	}

	var records []types.ParsedRecord
	for _, candidate := range extractCandidates(span) {
		if len(records) >= expected {
			break
		}
		if rec, ok := parseRepaired(candidate); ok {
			records = append(records, rec)
			continue
		}
		if rec, ok := parseLoose(candidate); ok {
			records = append(records, rec)
		}
	}
	return records
}

// extractCandidates scans the span and emits every brace-balanced
// top-level object as one candidate string. The scan tracks string
// quoting and backslash escapes so braces inside string literals do not
// open or close objects; a naive split on "},{" would break on embedded
// code.
func extractCandidates(span string) []string {
	var (
		candidates []string
		current    []byte
		depth      int
		inString   bool
		escapeNext bool
	)

	for i := 0; i < len(span); i++ {
		ch := span[i]

		if escapeNext {
			current = append(current, ch)
			escapeNext = false
			continue
		}
		if ch == '\\' && inString {
			current = append(current, ch)
			escapeNext = true
			continue
		}
		if ch == '"' {
			inString = !inString
			current = append(current, ch)
			continue
		}
		if inString {
			current = append(current, ch)
			continue
		}

		switch ch {
		case '{':
			if depth == 0 {
				current = current[:0]
			}
			depth++
			current = append(current, ch)
		case '}':
			depth--
			current = append(current, ch)
			if depth == 0 && len(current) > 0 {
				candidates = append(candidates, string(current))
				current = current[:0]
			}
		default:
			if depth > 0 {
				current = append(current, ch)
			}
		}
	}
	return candidates
}

// parseRepaired re-escapes raw control characters inside string literals
// and attempts a strict parse. A record is accepted only when title,
// category, and content keys are all present.
func parseRepaired(candidate string) (types.ParsedRecord, bool) {
	repaired := repairControlChars(candidate)

	var obj looseObject
	if err := json.Unmarshal([]byte(repaired), &obj); err != nil {
		return types.ParsedRecord{}, false
	}
	if obj.Title == nil || obj.Category == nil || obj.Content == nil {
		return types.ParsedRecord{}, false
	}

	rec := types.ParsedRecord{
		Title:    *obj.Title,
		Category: *obj.Category,
		Content:  *obj.Content,
	}
	if obj.FileExtension != nil {
		rec.FileExtension = *obj.FileExtension
	}
	return rec, true
}

// repairControlChars escapes literal newline, carriage-return, and tab
// characters that appear inside string literals, leaving already-escaped
// sequences untouched. Uses the same quote/escape tracking as the
// candidate scan.
func repairControlChars(s string) string {
	var (
		out        strings.Builder
		inString   bool
		escapeNext bool
	)
	out.Grow(len(s))

	for i := 0; i < len(s); i++ {
		ch := s[i]

		switch {
		case escapeNext:
			out.WriteByte(ch)
			escapeNext = false
		case ch == '\\':
			out.WriteByte(ch)
			escapeNext = true
		case ch == '"':
			out.WriteByte(ch)
			inString = !inString
		case inString && (ch == '\n' || ch == '\r' || ch == '\t'):
			switch ch {
			case '\n':
				out.WriteString(`\n`)
			case '\r':
				out.WriteString(`\r`)
			case '\t':
				out.WriteString(`\t`)
			}
		default:
			out.WriteByte(ch)
		}
	}
	return out.String()
}

// parseLoose extracts fields by pattern matching when even the repaired
// candidate will not parse. The content pattern matches up to the first
// unescaped '"' followed by ',' or '}' - a heuristic with known
// false-negative potential on adversarial content, not a guarantee.
// Title, category, and content must all match; file_extension defaults
// to empty.
func parseLoose(candidate string) (types.ParsedRecord, bool) {
	titleM := titleRe.FindStringSubmatch(candidate)
	categoryM := categoryRe.FindStringSubmatch(candidate)
	contentM := contentRe.FindStringSubmatch(candidate)
	if titleM == nil || categoryM == nil || contentM == nil {
		return types.ParsedRecord{}, false
	}

	rec := types.ParsedRecord{
		Title:    titleM[1],
		Category: categoryM[1],
		Content:  unescape(contentM[1]),
	}
	if extM := extRe.FindStringSubmatch(candidate); extM != nil {
		rec.FileExtension = extM[1]
	}
	return rec, true
}

// unescape undoes the JSON escapes the loose pattern leaves in place.
func unescape(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\t`, "\t")
	s = strings.ReplaceAll(s, `\r`, "\r")
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}
