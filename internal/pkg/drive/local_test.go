package drive

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestDrive(t *testing.T) *LocalDrive {
	t.Helper()
	d, err := NewLocalDrive(t.TempDir(), "http://localhost:8080/work-files")
	if err != nil {
		t.Fatalf("NewLocalDrive() error = %v", err)
	}
	return d
}

func TestEnsureTeacherFoldersIsIdempotent(t *testing.T) {
	d := newTestDrive(t)
	categories := []string{"Prota (Annual Program)", "Module"}

	first, err := d.EnsureTeacherFolders(context.Background(), "Mathematics (MTK)", "Alice", categories)
	if err != nil {
		t.Fatalf("first EnsureTeacherFolders() error = %v", err)
	}
	second, err := d.EnsureTeacherFolders(context.Background(), "Mathematics (MTK)", "Alice", categories)
	if err != nil {
		t.Fatalf("second EnsureTeacherFolders() error = %v", err)
	}

	if first.RootID != second.RootID {
		t.Errorf("root differs across calls: %q vs %q", first.RootID, second.RootID)
	}
	for _, cat := range categories {
		if first.Categories[cat] != second.Categories[cat] {
			t.Errorf("category %q differs across calls: %q vs %q", cat, first.Categories[cat], second.Categories[cat])
		}
		if first.Categories[cat] == "" {
			t.Errorf("category %q has no folder id", cat)
		}
	}
}

func TestEnsureTeacherFoldersSanitizesNames(t *testing.T) {
	d := newTestDrive(t)

	set, err := d.EnsureTeacherFolders(context.Background(), "Math/Science", "A:B", []string{"..\\evil"})
	if err != nil {
		t.Fatalf("EnsureTeacherFolders() error = %v", err)
	}
	for _, id := range set.Categories {
		if strings.Contains(id, "..") {
			t.Errorf("folder id %q escapes the storage root", id)
		}
	}
}

func TestUploadStoresAndReportsProgress(t *testing.T) {
	d := newTestDrive(t)
	set, err := d.EnsureTeacherFolders(context.Background(), "Math (MTK)", "Alice", []string{"Module"})
	if err != nil {
		t.Fatalf("EnsureTeacherFolders() error = %v", err)
	}

	payload := bytes.Repeat([]byte("abc"), 50000)
	var progress []int
	file, err := d.Upload(context.Background(), set.Categories["Module"], "module.pdf",
		bytes.NewReader(payload), int64(len(payload)), "application/pdf",
		func(pct int) { progress = append(progress, pct) })
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if file.Ref == "" || file.URL == "" || !strings.HasPrefix(file.Path, "local://") {
		t.Errorf("remote file incomplete: %+v", file)
	}
	if !strings.HasPrefix(file.URL, "http://localhost:8080/work-files/") {
		t.Errorf("URL = %q, want the configured base url prefix", file.URL)
	}

	if len(progress) == 0 || progress[len(progress)-1] != 100 {
		t.Fatalf("progress = %v, want a final 100", progress)
	}
	for i := 1; i < len(progress); i++ {
		if progress[i] < progress[i-1] {
			t.Fatalf("progress decreased: %v", progress)
		}
	}
}

func TestUploadSameNameNeverCollides(t *testing.T) {
	d := newTestDrive(t)
	set, err := d.EnsureTeacherFolders(context.Background(), "Math (MTK)", "Alice", []string{"Module"})
	if err != nil {
		t.Fatalf("EnsureTeacherFolders() error = %v", err)
	}

	first, err := d.Upload(context.Background(), set.Categories["Module"], "module.pdf",
		bytes.NewReader([]byte("v1")), 2, "application/pdf", nil)
	if err != nil {
		t.Fatalf("first Upload() error = %v", err)
	}
	second, err := d.Upload(context.Background(), set.Categories["Module"], "module.pdf",
		bytes.NewReader([]byte("v2")), 2, "application/pdf", nil)
	if err != nil {
		t.Fatalf("second Upload() error = %v", err)
	}
	if first.Ref == second.Ref {
		t.Errorf("resubmission reused ref %q", first.Ref)
	}
}

func TestUploadMissingFolder(t *testing.T) {
	d := newTestDrive(t)

	_, err := d.Upload(context.Background(), "never/created", "a.pdf",
		bytes.NewReader([]byte("x")), 1, "", nil)
	if !errors.Is(err, ErrFolderNotFound) {
		t.Errorf("Upload() error = %v, want ErrFolderNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	d := newTestDrive(t)
	set, err := d.EnsureTeacherFolders(context.Background(), "Math (MTK)", "Alice", []string{"Module"})
	if err != nil {
		t.Fatalf("EnsureTeacherFolders() error = %v", err)
	}

	file, err := d.Upload(context.Background(), set.Categories["Module"], "gone.pdf",
		bytes.NewReader([]byte("x")), 1, "", nil)
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}

	if err := d.Delete(context.Background(), file.Ref); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(d.basePath, filepath.FromSlash(file.Ref))); !os.IsNotExist(err) {
		t.Errorf("file still exists after Delete")
	}

	// A second delete of the same ref is treated as already deleted.
	if err := d.Delete(context.Background(), file.Ref); err != nil {
		t.Errorf("repeat Delete() error = %v, want nil", err)
	}
}

func TestUploadHonorsContextCancellation(t *testing.T) {
	d := newTestDrive(t)
	set, err := d.EnsureTeacherFolders(context.Background(), "Math (MTK)", "Alice", []string{"Module"})
	if err != nil {
		t.Fatalf("EnsureTeacherFolders() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = d.Upload(ctx, set.Categories["Module"], "a.pdf",
		bytes.NewReader(bytes.Repeat([]byte("x"), 100000)), 100000, "", nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Upload() error = %v, want context.Canceled", err)
	}
}
