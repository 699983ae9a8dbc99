package models

import (
	"testing"
	"time"
)

func TestLatestFeedback(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		feedbacks []Feedback
		wantID    int64
	}{
		{"no feedback", nil, 0},
		{
			"single entry",
			[]Feedback{{ID: 1, ReviewedAt: now}},
			1,
		},
		{
			"latest by reviewed time, not load order",
			[]Feedback{
				{ID: 1, ReviewedAt: now},
				{ID: 2, ReviewedAt: now.Add(-2 * time.Hour)},
				{ID: 3, ReviewedAt: now.Add(-time.Hour)},
			},
			1,
		},
		{
			"latest loaded last",
			[]Feedback{
				{ID: 1, ReviewedAt: now.Add(-time.Hour)},
				{ID: 2, ReviewedAt: now},
			},
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &WorkFile{Feedbacks: tt.feedbacks}
			got := f.LatestFeedback()
			if tt.wantID == 0 {
				if got != nil {
					t.Errorf("LatestFeedback() = %+v, want nil", got)
				}
				return
			}
			if got == nil || got.ID != tt.wantID {
				t.Errorf("LatestFeedback() = %+v, want ID %d", got, tt.wantID)
			}
		})
	}
}

func TestReviewState(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		feedbacks []Feedback
		want      FeedbackStatus
	}{
		{"no feedback defaults to pending", nil, FeedbackPending},
		{
			"latest verdict wins",
			[]Feedback{
				{Status: FeedbackNeedsRevision, ReviewedAt: now.Add(-time.Hour)},
				{Status: FeedbackApproved, ReviewedAt: now},
			},
			FeedbackApproved,
		},
		{
			"stale approval superseded by revision request",
			[]Feedback{
				{Status: FeedbackApproved, ReviewedAt: now.Add(-time.Hour)},
				{Status: FeedbackNeedsRevision, ReviewedAt: now},
			},
			FeedbackNeedsRevision,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &WorkFile{Feedbacks: tt.feedbacks}
			if got := f.ReviewState(); got != tt.want {
				t.Errorf("ReviewState() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestFeedbackStatusValid(t *testing.T) {
	valid := []FeedbackStatus{FeedbackPending, FeedbackApproved, FeedbackNeedsRevision}
	for _, s := range valid {
		if !s.Valid() {
			t.Errorf("Valid(%q) = false, want true", s)
		}
	}
	for _, s := range []FeedbackStatus{"", "rejected", "APPROVED"} {
		if s.Valid() {
			t.Errorf("Valid(%q) = true, want false", s)
		}
	}
}

func TestFeedbackIsUnread(t *testing.T) {
	now := time.Now()
	unread := Feedback{}
	if !unread.IsUnread() {
		t.Error("feedback without read timestamp should be unread")
	}
	read := Feedback{TeacherReadAt: &now}
	if read.IsUnread() {
		t.Error("feedback with read timestamp should not be unread")
	}
}

func TestTeacherWorkHasFolder(t *testing.T) {
	empty := ""
	folder := "Math (MTK)/Alice/Module"

	tests := []struct {
		name string
		id   *string
		want bool
	}{
		{"nil folder id", nil, false},
		{"empty folder id", &empty, false},
		{"provisioned", &folder, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &TeacherWork{FolderID: tt.id}
			if got := w.HasFolder(); got != tt.want {
				t.Errorf("HasFolder() = %v, want %v", got, tt.want)
			}
		})
	}
}
