package validation

import (
	"strings"
	"testing"
)

func TestValidateUploadNoCategory(t *testing.T) {
	errs := ValidateUpload("notes.pdf", 1024, "")
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if !strings.Contains(errs[0], "select a category") {
		t.Fatalf("unexpected message: %s", errs[0])
	}
}

func TestValidateUploadAccepts(t *testing.T) {
	// 1MB png under the 20MB images cap.
	if errs := ValidateUpload("diagram.png", 1<<20, "images"); len(errs) != 0 {
		t.Fatalf("expected valid upload, got %v", errs)
	}
}

func TestValidateUploadWrongExtension(t *testing.T) {
	errs := ValidateUpload("diagram.png", 1<<20, "videos")
	if len(errs) != 1 {
		t.Fatalf("expected one extension error, got %v", errs)
	}
	if !strings.Contains(errs[0], ".png") || !strings.Contains(errs[0], "mp4") {
		t.Fatalf("error should name the extension and enumerate allowed types: %s", errs[0])
	}
}

func TestValidateUploadTooLarge(t *testing.T) {
	errs := ValidateUpload("scan.png", 21<<20, "images")
	if len(errs) != 1 {
		t.Fatalf("expected one size error, got %v", errs)
	}
	if !strings.Contains(errs[0], "20 MB") {
		t.Fatalf("error should state the cap in readable units: %s", errs[0])
	}
}

func TestValidateUploadBothChecksFail(t *testing.T) {
	// Wrong extension and oversized at the same time: both errors surface.
	errs := ValidateUpload("movie.mp4", 21<<20, "images")
	if len(errs) != 2 {
		t.Fatalf("expected two independent errors, got %v", errs)
	}
}

func TestValidateClassification(t *testing.T) {
	if errs := ValidateClassification("CSC", "100", "first"); len(errs) != 0 {
		t.Fatalf("expected valid classification, got %v", errs)
	}
	if errs := ValidateClassification("", "700", "winter"); len(errs) != 3 {
		t.Fatalf("expected three errors, got %v", errs)
	}
}
