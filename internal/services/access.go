package services

import (
	"errors"

	"github.com/campusvault/CampusVault/internal/models"
)

// AccessState is the repository gate's view of a user session.
type AccessState int

const (
	// AccessUnapproved blocks every repository read and write.
	AccessUnapproved AccessState = iota
	// AccessIncompleteProfile means the account is approved but the
	// academic profile is missing fields. Browsing stays blocked until the
	// profile is completed, matching the platform's historical behavior.
	AccessIncompleteProfile
	// AccessFull grants list, search, view, download, upload and delete.
	AccessFull
)

var (
	ErrNotApproved       = errors.New("your account is awaiting admin approval")
	ErrIncompleteProfile = errors.New("complete your profile (department, level, semester, phone, address) to use the repository")
)

// EvaluateAccess maps a user record to its gate state.
func EvaluateAccess(u models.User) AccessState {
	if !u.IsApproved {
		return AccessUnapproved
	}
	if !u.ProfileComplete() {
		return AccessIncompleteProfile
	}
	return AccessFull
}

// CanBrowse gates listing, searching and viewing file metadata.
func CanBrowse(u models.User) error {
	switch EvaluateAccess(u) {
	case AccessUnapproved:
		return ErrNotApproved
	case AccessIncompleteProfile:
		return ErrIncompleteProfile
	}
	return nil
}

// CanDownload re-checks approval at the moment of download. Profile
// completeness is not required for downloads once browsing was granted.
func CanDownload(u models.User) error {
	if !u.IsApproved {
		return ErrNotApproved
	}
	return nil
}

// CanUpload gates file creation. Checked again at action time so a stale
// client cannot upload with a revoked approval.
func CanUpload(u models.User) error {
	return CanBrowse(u)
}

// CanDelete gates file removal, same conditions as upload.
func CanDelete(u models.User) error {
	return CanBrowse(u)
}
