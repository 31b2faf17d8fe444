package content

import "errors"

var (
	// ErrMalformedContentFile indicates a content file without the blank-line
	// delimiter between metadata and body.
	ErrMalformedContentFile = errors.New("content: file has no metadata/body delimiter")

	// ErrMalformedMetadata indicates a metadata block that does not parse or
	// is missing required fields.
	ErrMalformedMetadata = errors.New("content: malformed metadata")

	// ErrDuplicateIdentity indicates two files of the same kind resolving to
	// the same (id, locale) pair.
	ErrDuplicateIdentity = errors.New("content: duplicate (id, locale) identity")
)
