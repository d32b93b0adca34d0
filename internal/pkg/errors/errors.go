package errors

import "errors"

var (
	ErrInvalid           = errors.New("invalid")
	ErrTooMany           = errors.New("too many requests")
	ErrInternal          = errors.New("internal")
	ErrZeroEmbedding     = errors.New("embedding has zero norm")
	ErrMissingCollection = errors.New("vector collection does not exist")
)

func IsMissingCollection(err error) bool {
	return errors.Is(err, ErrMissingCollection)
}

func IsZeroEmbedding(err error) bool {
	return errors.Is(err, ErrZeroEmbedding)
}
