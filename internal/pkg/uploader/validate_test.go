package uploader

import (
	"fmt"
	"strings"
	"testing"
)

func TestAllowedFileType(t *testing.T) {
	tests := []struct {
		name string
		file string
		want bool
	}{
		{"pdf document", "prota.pdf", true},
		{"docx document", "prosem.docx", true},
		{"spreadsheet", "attendance.xlsx", true},
		{"image", "agenda.PNG", true},
		{"uppercase extension", "MODULE.PDF", true},
		{"executable", "malware.exe", false},
		{"script", "run.sh", false},
		{"no extension", "README", false},
		{"empty name", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AllowedFileType(tt.file); got != tt.want {
				t.Errorf("AllowedFileType(%q) = %v, want %v", tt.file, got, tt.want)
			}
		})
	}
}

func TestValidateFiles(t *testing.T) {
	mb := int64(1024 * 1024)

	tests := []struct {
		name         string
		candidates   []Candidate
		queued       []QueuedFile
		maxCount     int
		maxSizeMB    int64
		wantAccepted []string
		wantRejected int
	}{
		{
			name: "all valid",
			candidates: []Candidate{
				{Name: "a.pdf", Size: mb},
				{Name: "b.docx", Size: 2 * mb},
			},
			maxCount:     10,
			maxSizeMB:    10,
			wantAccepted: []string{"a.pdf", "b.docx"},
		},
		{
			name: "oversized file rejected",
			candidates: []Candidate{
				{Name: "big.pdf", Size: 11 * mb},
				{Name: "small.pdf", Size: mb},
			},
			maxCount:     10,
			maxSizeMB:    10,
			wantAccepted: []string{"small.pdf"},
			wantRejected: 1,
		},
		{
			name: "unsupported type rejected",
			candidates: []Candidate{
				{Name: "tool.exe", Size: mb},
				{Name: "ok.pdf", Size: mb},
			},
			maxCount:     10,
			maxSizeMB:    10,
			wantAccepted: []string{"ok.pdf"},
			wantRejected: 1,
		},
		{
			name: "count ceiling includes already queued",
			candidates: []Candidate{
				{Name: "one.pdf", Size: mb},
				{Name: "two.pdf", Size: mb},
			},
			queued:       []QueuedFile{{Name: "existing.pdf", Size: mb}},
			maxCount:     2,
			maxSizeMB:    10,
			wantAccepted: []string{"one.pdf"},
			wantRejected: 1,
		},
		{
			name: "duplicate against queue",
			candidates: []Candidate{
				{Name: "dup.pdf", Size: mb},
			},
			queued:       []QueuedFile{{Name: "dup.pdf", Size: mb}},
			maxCount:     10,
			maxSizeMB:    10,
			wantRejected: 1,
		},
		{
			name: "same name different size is not a duplicate",
			candidates: []Candidate{
				{Name: "dup.pdf", Size: 2 * mb},
			},
			queued:       []QueuedFile{{Name: "dup.pdf", Size: mb}},
			maxCount:     10,
			maxSizeMB:    10,
			wantAccepted: []string{"dup.pdf"},
		},
		{
			name: "duplicate within the same batch",
			candidates: []Candidate{
				{Name: "twin.pdf", Size: mb},
				{Name: "twin.pdf", Size: mb},
			},
			maxCount:     10,
			maxSizeMB:    10,
			wantAccepted: []string{"twin.pdf"},
			wantRejected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accepted, rejected := ValidateFiles(tt.candidates, tt.queued, tt.maxCount, tt.maxSizeMB)

			if len(accepted) != len(tt.wantAccepted) {
				t.Fatalf("accepted = %d files, want %d (rejections: %v)", len(accepted), len(tt.wantAccepted), rejected)
			}
			for i, want := range tt.wantAccepted {
				if accepted[i].Name != want {
					t.Errorf("accepted[%d] = %q, want %q", i, accepted[i].Name, want)
				}
			}
			if len(rejected) != tt.wantRejected {
				t.Errorf("rejected = %d, want %d: %v", len(rejected), tt.wantRejected, rejected)
			}
		})
	}
}

func TestValidateFilesPreservesInputOrder(t *testing.T) {
	mb := int64(1024 * 1024)
	var candidates []Candidate
	for i := 0; i < 5; i++ {
		candidates = append(candidates, Candidate{Name: fmt.Sprintf("file%d.pdf", i), Size: mb})
	}

	accepted, rejected := ValidateFiles(candidates, nil, 10, 10)
	if len(rejected) != 0 {
		t.Fatalf("unexpected rejections: %v", rejected)
	}
	for i, c := range accepted {
		if want := fmt.Sprintf("file%d.pdf", i); c.Name != want {
			t.Errorf("accepted[%d] = %q, want %q", i, c.Name, want)
		}
	}
}

func TestSummarizeRejections(t *testing.T) {
	tests := []struct {
		name     string
		rejected []string
		want     string
	}{
		{"empty", nil, ""},
		{"single", []string{"a.exe: file type not supported"}, "a.exe: file type not supported"},
		{
			"three joined",
			[]string{"a", "b", "c"},
			"a, b, c",
		},
		{
			"truncated after three",
			[]string{"a", "b", "c", "d", "e"},
			"a, b, c, and 2 more",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SummarizeRejections(tt.rejected)
			if got != tt.want {
				t.Errorf("SummarizeRejections() = %q, want %q", got, tt.want)
			}
			if strings.Count(got, ",") > 3 {
				t.Errorf("summary lists more than three reasons: %q", got)
			}
		})
	}
}
