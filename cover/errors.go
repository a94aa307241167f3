package cover

import (
	"github.com/pkg/errors"

	"setcover/elemset"
)

var (
	ErrIndexRange   = elemset.ErrIndexRange
	ErrSizeMismatch = elemset.ErrSizeMismatch
	ErrInvalidState = errors.New("invalid state")
)
