package intelligence

import "errors"

// ErrExtractionFailed covers oracle errors and malformed structured results.
// Callers drop the message.
var ErrExtractionFailed = errors.New("extraction failed")
