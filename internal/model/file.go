package model

import (
	"time"
)

const (
	FileTypeImage = "image"
	FileTypePDF   = "pdf"
	FileTypeCSV   = "csv"
	FileTypeDocx  = "docx"
)

// ValidFileType reports whether t is one of the supported file types.
func ValidFileType(t string) bool {
	switch t {
	case FileTypeImage, FileTypePDF, FileTypeCSV, FileTypeDocx:
		return true
	}
	return false
}

type File struct {
	ID           string     `db:"id"`
	OrgID        string     `db:"org_id"`   // Org or personal workspace the file belongs to
	OwnerID      string     `db:"owner_id"` // User who created the file
	Name         string     `db:"name"`
	BlobRef      string     `db:"blob_ref"` // Opaque handle into the blob backend
	Type         string     `db:"type"`
	ShouldDelete bool       `db:"should_delete"` // Tombstoned, pending purge
	DeletedAt    *time.Time `db:"deleted_at"`
	CreatedAt    time.Time  `db:"created_at"`

	// Computed fields (not in database)
	URL string `db:"-"` // Resolved display URL, empty when the blob is missing
}
