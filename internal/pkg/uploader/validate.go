package uploader

import (
	"fmt"
	"path/filepath"
	"strings"
)

// allowedExtensions is the upload allow-list: documents, spreadsheets,
// presentations, images, video, audio and archives.
var allowedExtensions = map[string]struct{}{
	// Documents
	".pdf": {}, ".doc": {}, ".docx": {}, ".txt": {}, ".rtf": {}, ".odt": {},
	// Spreadsheets
	".xls": {}, ".xlsx": {}, ".csv": {}, ".ods": {},
	// Presentations
	".ppt": {}, ".pptx": {}, ".odp": {},
	// Images
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {}, ".webp": {}, ".svg": {},
	// Video
	".mp4": {}, ".avi": {}, ".mkv": {}, ".mov": {}, ".wmv": {}, ".flv": {}, ".webm": {},
	// Audio
	".mp3": {}, ".wav": {}, ".ogg": {}, ".flac": {}, ".aac": {},
	// Archives
	".zip": {}, ".rar": {}, ".7z": {}, ".tar": {}, ".gz": {},
}

// AllowedFileType reports whether the file name carries an accepted extension.
func AllowedFileType(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	_, ok := allowedExtensions[ext]
	return ok
}

// QueuedFile is the identity of a file already sitting in the queue, used for
// duplicate detection.
type QueuedFile struct {
	Name string
	Size int64
}

// ValidateFiles checks each candidate in input order against the batch count
// ceiling, the per-file size limit, the extension allow-list and the existing
// queue. It never fails: every candidate lands in exactly one of the two
// result lists, and accepted order matches input order so progress indicators
// map 1:1 to the selection.
func ValidateFiles(candidates []Candidate, alreadyQueued []QueuedFile, maxCount int, maxSizeMB int64) (accepted []Candidate, rejected []string) {
	maxBytes := maxSizeMB * 1024 * 1024

	for _, candidate := range candidates {
		name := candidate.Name
		if name == "" {
			name = "unknown"
		}

		if len(alreadyQueued)+len(accepted) >= maxCount {
			rejected = append(rejected, fmt.Sprintf("%s: maximum %d files allowed", name, maxCount))
			continue
		}
		if candidate.Size > maxBytes {
			rejected = append(rejected, fmt.Sprintf("%s: file size must be less than %dMB", name, maxSizeMB))
			continue
		}
		if !AllowedFileType(candidate.Name) {
			rejected = append(rejected, fmt.Sprintf("%s: file type not supported", name))
			continue
		}
		if isDuplicate(candidate, alreadyQueued, accepted) {
			rejected = append(rejected, fmt.Sprintf("%s: file already added", name))
			continue
		}

		accepted = append(accepted, candidate)
	}

	return accepted, rejected
}

func isDuplicate(candidate Candidate, alreadyQueued []QueuedFile, accepted []Candidate) bool {
	for _, q := range alreadyQueued {
		if q.Name == candidate.Name && q.Size == candidate.Size {
			return true
		}
	}
	for _, a := range accepted {
		if a.Name == candidate.Name && a.Size == candidate.Size {
			return true
		}
	}
	return false
}

// SummarizeRejections folds rejection reasons into one user-facing message,
// truncated after the first three with a count suffix.
func SummarizeRejections(rejected []string) string {
	if len(rejected) == 0 {
		return ""
	}
	if len(rejected) <= 3 {
		return strings.Join(rejected, ", ")
	}
	return fmt.Sprintf("%s, and %d more", strings.Join(rejected[:3], ", "), len(rejected)-3)
}
