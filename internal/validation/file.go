package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/filedrive/filedrive/internal/model"
)

const MaxFileNameLength = 200

// ValidateFileName checks the user-facing file name constraint: non-empty
// after trimming, at most 200 characters.
func ValidateFileName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("file name is required")
	}
	if utf8.RuneCountInString(name) > MaxFileNameLength {
		return fmt.Errorf("file name must be at most %d characters", MaxFileNameLength)
	}
	return nil
}

// ValidateFileType checks that the type is one of the supported enum values.
func ValidateFileType(fileType string) error {
	if !model.ValidFileType(fileType) {
		return fmt.Errorf("unsupported file type: %s", fileType)
	}
	return nil
}
