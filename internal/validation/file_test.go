package validation

import (
	"strings"
	"testing"
)

func TestValidateFileName(t *testing.T) {
	if err := ValidateFileName("report.csv"); err != nil {
		t.Fatalf("valid name rejected: %v", err)
	}
	if err := ValidateFileName(strings.Repeat("x", 200)); err != nil {
		t.Fatalf("200-char name rejected: %v", err)
	}
	if err := ValidateFileName(""); err == nil {
		t.Fatalf("empty name accepted")
	}
	if err := ValidateFileName("   "); err == nil {
		t.Fatalf("whitespace-only name accepted")
	}
	if err := ValidateFileName(strings.Repeat("x", 201)); err == nil {
		t.Fatalf("201-char name accepted")
	}
}

func TestValidateFileType(t *testing.T) {
	for _, ok := range []string{"image", "pdf", "csv", "docx"} {
		if err := ValidateFileType(ok); err != nil {
			t.Fatalf("type %q rejected: %v", ok, err)
		}
	}
	if err := ValidateFileType("exe"); err == nil {
		t.Fatalf("unknown type accepted")
	}
	if err := ValidateFileType(""); err == nil {
		t.Fatalf("empty type accepted")
	}
}
