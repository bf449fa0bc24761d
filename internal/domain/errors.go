package domain

import "errors"

// Terminal pipeline outcomes. These cross the core boundary as typed
// rejections; internal error detail stays wrapped behind them.
var (
	// ErrContentTooShort rejects articles under the minimum analyzable length.
	ErrContentTooShort = errors.New("content too short")

	// ErrExtractionFailed means the document yielded no usable content.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrAnalysisUnavailable means the model call itself could not be
	// completed. A malformed model reply is NOT this error; the interpreter
	// absorbs it into a degraded Assessment.
	ErrAnalysisUnavailable = errors.New("analysis unavailable")

	// ErrNotFound is the cache miss signal.
	ErrNotFound = errors.New("not found")
)
