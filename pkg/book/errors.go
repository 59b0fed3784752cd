package book

import "errors"

var (
	ErrNotBookDir     = errors.New("not a book directory")
	ErrCreatePage     = errors.New("can't create page file")
	ErrPageOutOfRange = errors.New("page index out of range")
)
