package service

import "errors"

// Error taxonomy surfaced to the API layer. Handlers map these to HTTP
// status codes with errors.Is; anything else is a 500.
var (
	// ErrUnauthenticated means no valid identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden means the caller is authenticated but lacks permission
	// on a resource they are allowed to know exists.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound covers both truly missing resources and resources in
	// orgs the caller cannot access. Merging the two keeps existence from
	// leaking across organizations.
	ErrNotFound = errors.New("not found")

	ErrDuplicateName  = errors.New("a file with this name already exists")
	ErrAlreadyDeleted = errors.New("file is already deleted")
	ErrNotDeleted     = errors.New("file is not deleted")
	ErrFileDeleted    = errors.New("file is deleted")
	ErrBlobMissing    = errors.New("blob has not been uploaded")
	ErrInvalidName    = errors.New("file name must be between 1 and 200 characters")
	ErrInvalidType    = errors.New("unsupported file type")
	ErrInvalidRole    = errors.New("invalid role")
)
