package session

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestCleanText(t *testing.T) {
	testCases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips success phrase",
			in:   "user@ubuntu:~$ ls\nCommand completed successfully.\nuser@ubuntu:~$ ",
			want: "user@ubuntu:~$ ls\nuser@ubuntu:~$ ",
		},
		{
			name: "collapses newline runs",
			in:   "user@ubuntu:~$ ls\n\n\n\nfile.txt\nuser@ubuntu:~$ ",
			want: "user@ubuntu:~$ ls\n\nfile.txt\nuser@ubuntu:~$ ",
		},
		{
			name: "appends missing prompt",
			in:   "user@ubuntu:~$ ls\nfile.txt",
			want: "user@ubuntu:~$ ls\nfile.txt\n\nuser@ubuntu:~$ ",
		},
		{
			name: "keeps existing trailing prompt",
			in:   "user@ubuntu:~$ pwd\n/home/user\nuser@ubuntu:~$ ",
			want: "user@ubuntu:~$ pwd\n/home/user\nuser@ubuntu:~$ ",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CleanText(tc.in); got != tc.want {
				t.Errorf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanJSONL(t *testing.T) {
	var in bytes.Buffer
	enc := json.NewEncoder(&in)
	for _, text := range []string{
		"user@ubuntu:~$ ls\nCommand completed successfully.\n",
		"user@ubuntu:~$ pwd\n/home/user\nuser@ubuntu:~$ ",
	} {
		if err := enc.Encode(record{Text: text}); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	if err := CleanJSONL(&in, &out); err != nil {
		t.Fatal(err)
	}

	scanner := bufio.NewScanner(&out)
	n := 0
	for scanner.Scan() {
		var rec record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			t.Fatal(err)
		}
		if strings.Contains(rec.Text, "Command completed successfully") {
			t.Errorf("noise phrase survived cleaning: %q", rec.Text)
		}
		if !strings.HasSuffix(rec.Text, userPrompt) {
			t.Errorf("cleaned text must end with prompt: %q", rec.Text)
		}
		n++
	}
	if n != 2 {
		t.Errorf("cleaned %d records, want 2", n)
	}
}

func TestCleanJSONL_BadLine(t *testing.T) {
	in := strings.NewReader("{not json}\n")
	var out bytes.Buffer
	if err := CleanJSONL(in, &out); err == nil {
		t.Error("expected error for malformed line")
	}
}

func TestCleanJSONL_RoundTripWithGenerator(t *testing.T) {
	g := seeded(13)
	var raw bytes.Buffer
	if err := g.WriteJSONL(&raw, 10); err != nil {
		t.Fatal(err)
	}

	var cleaned bytes.Buffer
	if err := CleanJSONL(&raw, &cleaned); err != nil {
		t.Fatal(err)
	}

	scanner := bufio.NewScanner(&cleaned)
	n := 0
	for scanner.Scan() {
		n++
	}
	if n != 10 {
		t.Errorf("cleaned %d records, want 10", n)
	}
}
