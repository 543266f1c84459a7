package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/samcharles93/regiontrim/internal/compress"
	"github.com/samcharles93/regiontrim/pkg/anvil"
	"github.com/samcharles93/regiontrim/pkg/nbt"
)

var ErrInvalidRequest = errors.New("invalid_request")

// paramError rejects one path or query parameter.
type paramError struct {
	param string
	value string
	want  string
}

func (e paramError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.param, e.value, e.want)
}

func (e paramError) Unwrap() error {
	return ErrInvalidRequest
}

func badParam(param, value, want string) error {
	return paramError{param: param, value: value, want: want}
}

// failureStatus maps err to an HTTP status and error type.
func failureStatus(err error) (int, string) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest, "invalid_request_error"
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, anvil.ErrChunkAbsent):
		return http.StatusNotFound, "not_found_error"
	case errors.Is(err, anvil.ErrContainerTooSmall),
		errors.Is(err, anvil.ErrChunkOutOfBounds),
		errors.Is(err, anvil.ErrChunkOverrun):
		return http.StatusUnprocessableEntity, "invalid_region_error"
	case errors.Is(err, compress.ErrEmptyResult),
		errors.Is(err, compress.ErrResultTooLarge),
		errors.Is(err, compress.ErrUnsupportedType),
		errors.Is(err, nbt.ErrTruncatedDocument),
		errors.Is(err, nbt.ErrUnknownTagType),
		errors.Is(err, nbt.ErrDocumentTooDeep):
		return http.StatusUnprocessableEntity, "invalid_chunk_error"
	default:
		return http.StatusInternalServerError, "server_error"
	}
}
