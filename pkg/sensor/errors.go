package sensor

import "errors"

// Common error codes
const (
	ErrCodeInsufficientData = "INSUFFICIENT_DATA"
	ErrCodeInvalidBand      = "INVALID_BAND"
	ErrCodeMalformedRecord  = "MALFORMED_RECORD"
)

// AnalysisError represents a typed failure from loading or analyzing a
// recording. Stage names the pipeline stage that failed so callers can
// report where an analysis run stopped.
type AnalysisError struct {
	Stage   string `json:"stage"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AnalysisError) Error() string {
	msg := e.Stage + " [" + e.Code + "]: " + e.Message
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *AnalysisError) Unwrap() error {
	return e.Cause
}

// NewAnalysisError creates a new analysis error
func NewAnalysisError(stage, code, message string, cause error) *AnalysisError {
	return &AnalysisError{
		Stage:   stage,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func hasCode(err error, code string) bool {
	var ae *AnalysisError
	if errors.As(err, &ae) {
		return ae.Code == code
	}
	return false
}

// IsInsufficientData reports whether err carries INSUFFICIENT_DATA
func IsInsufficientData(err error) bool {
	return hasCode(err, ErrCodeInsufficientData)
}

// IsInvalidBand reports whether err carries INVALID_BAND
func IsInvalidBand(err error) bool {
	return hasCode(err, ErrCodeInvalidBand)
}

// IsMalformedRecord reports whether err carries MALFORMED_RECORD
func IsMalformedRecord(err error) bool {
	return hasCode(err, ErrCodeMalformedRecord)
}
