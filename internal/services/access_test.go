package services

import (
	"testing"

	"github.com/campusvault/CampusVault/internal/models"
)

func completeUser() models.User {
	return models.User{
		IsApproved: true,
		Department: "CSC",
		Level:      "300",
		Semester:   "first",
		Phone:      "+2348000000000",
		Address:    "Hostel B, Room 12",
	}
}

func TestAccessUnapprovedBlocksEverything(t *testing.T) {
	u := completeUser()
	u.IsApproved = false

	if EvaluateAccess(u) != AccessUnapproved {
		t.Fatal("expected AccessUnapproved")
	}
	if err := CanBrowse(u); err != ErrNotApproved {
		t.Fatalf("browse: expected ErrNotApproved, got %v", err)
	}
	if err := CanUpload(u); err != ErrNotApproved {
		t.Fatalf("upload: expected ErrNotApproved, got %v", err)
	}
	if err := CanDownload(u); err != ErrNotApproved {
		t.Fatalf("download: expected ErrNotApproved, got %v", err)
	}
}

func TestAccessIncompleteProfileBlocksBrowsing(t *testing.T) {
	u := completeUser()
	u.Phone = ""

	if EvaluateAccess(u) != AccessIncompleteProfile {
		t.Fatal("expected AccessIncompleteProfile")
	}
	if err := CanBrowse(u); err != ErrIncompleteProfile {
		t.Fatalf("browse: expected ErrIncompleteProfile, got %v", err)
	}
	if err := CanDelete(u); err != ErrIncompleteProfile {
		t.Fatalf("delete: expected ErrIncompleteProfile, got %v", err)
	}
	// Approval alone is enough for downloads.
	if err := CanDownload(u); err != nil {
		t.Fatalf("download: expected nil, got %v", err)
	}
}

func TestAccessFull(t *testing.T) {
	u := completeUser()
	if EvaluateAccess(u) != AccessFull {
		t.Fatal("expected AccessFull")
	}
	for name, check := range map[string]func(models.User) error{
		"browse": CanBrowse, "upload": CanUpload, "delete": CanDelete, "download": CanDownload,
	} {
		if err := check(u); err != nil {
			t.Errorf("%s: expected nil, got %v", name, err)
		}
	}
}
