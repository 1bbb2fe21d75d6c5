package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	noiseRe    = regexp.MustCompile(`\n*Command completed successfully\.?\n*`)
	newlinesRe = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalizes one transcript: drops the filler success phrase,
// collapses runs of three or more newlines to two, and guarantees a
// trailing prompt.
func CleanText(text string) string {
	text = noiseRe.ReplaceAllString(text, "\n")
	text = newlinesRe.ReplaceAllString(text, "\n\n")

	if !strings.HasSuffix(strings.TrimRight(text, " \t\n"), strings.TrimSpace(userPrompt)) {
		text = strings.TrimRight(text, " \t\n") + "\n\n" + userPrompt
	}
	return text
}

// CleanJSONL reads JSONL records from r, cleans each text field, and
// writes the result to w. Lines that are not valid JSON fail the run.
func CleanJSONL(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	enc := json.NewEncoder(w)

	line := 0
	for scanner.Scan() {
		line++
		if len(strings.TrimSpace(scanner.Text())) == 0 {
			continue
		}
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
		rec.Text = CleanText(rec.Text)
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return scanner.Err()
}

// CleanFile runs CleanJSONL from one path to another.
func CleanFile(inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer out.Close()

	if err := CleanJSONL(in, out); err != nil {
		return err
	}
	return out.Close()
}
