package errcode

const (
	ErrUnknown = 10000000 + iota
	ErrInvalid
	ErrTooMany
	ErrInternal
	ErrExtraction
	ErrStorage
	ErrEmbedding
	ErrVectorSearch
	ErrVectorCollection
	ErrAIUnavailable
)
