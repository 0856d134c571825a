package validation

import (
	"fmt"
	"strings"

	"github.com/campusvault/CampusVault/internal/registry"
)

// ValidateUpload checks a candidate file against the category registry and
// returns every human-readable problem found (empty slice = valid). It is
// pure: the same checks run in the API client before the request and in the
// upload handler after it, so a tampered client cannot bypass them.
func ValidateUpload(filename string, size int64, categoryName string) []string {
	if categoryName == "" {
		return []string{"Please select a category first"}
	}
	cat, ok := registry.CategoryByName(categoryName)
	if !ok {
		return []string{fmt.Sprintf("Unknown category %q", categoryName)}
	}

	var errs []string
	ext := registry.ExtensionOf(filename)
	if !cat.AllowsExtension(ext) {
		errs = append(errs, fmt.Sprintf("File type .%s is not allowed for %s. Allowed types: %s",
			ext, cat.Label, strings.Join(cat.AllowedFileTypes, ", ")))
	}
	if size > cat.MaxFileSize {
		errs = append(errs, fmt.Sprintf("File size exceeds the %s limit for %s",
			registry.FormatFileSize(cat.MaxFileSize), cat.Label))
	}
	return errs
}

// ValidateClassification checks the remaining required upload fields against
// the registry's department/level/semester tables.
func ValidateClassification(department, level, semester string) []string {
	var errs []string
	if department == "" || !registry.ValidDepartment(department) {
		errs = append(errs, fmt.Sprintf("Unknown department %q", department))
	}
	if level == "" || !registry.ValidLevel(level) {
		errs = append(errs, fmt.Sprintf("Unknown level %q", level))
	}
	if semester == "" || !registry.ValidSemester(semester) {
		errs = append(errs, fmt.Sprintf("Unknown semester %q", semester))
	}
	return errs
}
