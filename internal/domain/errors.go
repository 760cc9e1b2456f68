package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrEmptyDataset     = errors.New("empty dataset")
	ErrEmptyBand        = errors.New("rating band is empty")
	ErrInvalidPartCount = errors.New("part count must be positive")
	ErrDictionaryLoad   = errors.New("dictionary load failed")
)
