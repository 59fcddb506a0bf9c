package content

import (
	"github.com/goliatone/go-errors"
)

// ErrPageNotFound resolves before any ownership check runs.
var ErrPageNotFound = errors.New("page not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

var ErrPostNotFound = errors.New("post not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)

var ErrTagNotFound = errors.New("tag not found", errors.CategoryNotFound).
	WithCode(errors.CodeNotFound)
