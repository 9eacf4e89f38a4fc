package tts

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEngine indicates speech is enabled but no engine was chosen.
	ErrNoEngine = errors.New("no TTS engine configured")

	// ErrInvalidEngine indicates an unknown engine name.
	ErrInvalidEngine = errors.New("invalid TTS engine specified")

	// ErrEngineNotAvailable indicates the engine's programs are missing.
	ErrEngineNotAvailable = errors.New("selected TTS engine is not available")

	// ErrSynthesisFailed indicates the engine produced no usable audio.
	ErrSynthesisFailed = errors.New("text synthesis failed")

	// ErrQueueFull indicates the announcement queue is at capacity.
	ErrQueueFull = errors.New("announcement queue is full")

	// ErrClosed indicates the announcer was stopped.
	ErrClosed = errors.New("announcer is closed")

	// ErrInvalidSpeed indicates a speed factor out of range.
	ErrInvalidSpeed = errors.New("speed must be between 0.5 and 2.0")
)

// ErrorCode identifies the kind of speech failure.
type ErrorCode string

const (
	ErrorCodeEngineFailure     ErrorCode = "ENGINE_FAILURE"
	ErrorCodeEngineUnavailable ErrorCode = "ENGINE_UNAVAILABLE"
	ErrorCodeEngineTimeout     ErrorCode = "ENGINE_TIMEOUT"

	ErrorCodeAudioDevice ErrorCode = "AUDIO_DEVICE"
	ErrorCodeAudioFormat ErrorCode = "AUDIO_FORMAT"

	ErrorCodeQueueFull    ErrorCode = "QUEUE_FULL"
	ErrorCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrorCodeTextTooLong  ErrorCode = "TEXT_TOO_LONG"
	ErrorCodeCanceled     ErrorCode = "CANCELED"
)

// Error is a speech failure with a code.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// NewError creates an Error.
func NewError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// IsFatal reports whether speech can't work at all until reconfigured.
func (e *Error) IsFatal() bool {
	switch e.Code {
	case ErrorCodeEngineUnavailable, ErrorCodeAudioDevice:
		return true
	default:
		return false
	}
}

// IsRetryable reports whether trying the same announcement again may work.
func (e *Error) IsRetryable() bool {
	return e.Code == ErrorCodeEngineTimeout
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
