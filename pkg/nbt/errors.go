package nbt

import "errors"

var (
	ErrUnknownTagType    = errors.New("nbt: unknown tag type")
	ErrTruncatedDocument = errors.New("nbt: truncated document")
	ErrDocumentTooDeep   = errors.New("nbt: document nested too deeply")
)
