package utils

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnknownSchema  = errors.New("unknown schema")
	ErrOCRDisabled    = errors.New("ocr provider not configured")
	ErrOCRFailed      = errors.New("ocr extraction failed")
	ErrEmptyOCRText   = errors.New("ocr returned no text")
	ErrImageTooLarge  = errors.New("image exceeds size limit")
)
