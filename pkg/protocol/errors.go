package protocol

import (
	"github.com/agilira/go-errors"
)

// Transport error codes. These terminate the current request and the
// connection itself; only InvalidCmd is answered (with ERROR) before
// the connection closes. Once the byte stream is out of frame sync
// there is no safe way to keep reading it.
const (
	ErrCodeStreamRead   errors.ErrorCode = "MEMKV_STREAM_READ"
	ErrCodeStreamWrite  errors.ErrorCode = "MEMKV_STREAM_WRITE"
	ErrCodeLineRead     errors.ErrorCode = "MEMKV_LINE_READ"
	ErrCodeUtf8         errors.ErrorCode = "MEMKV_UTF8"
	ErrCodeNumberParse  errors.ErrorCode = "MEMKV_NUMBER_PARSE"
	ErrCodeInvalidCmd   errors.ErrorCode = "MEMKV_INVALID_CMD"
	ErrCodeCommandParse errors.ErrorCode = "MEMKV_COMMAND_PARSE"
)

func newErrStreamRead(cause error) error {
	return errors.Wrap(cause, ErrCodeStreamRead, "stream read failed")
}

func newErrStreamWrite(cause error) error {
	return errors.Wrap(cause, ErrCodeStreamWrite, "stream write failed")
}

func newErrLineRead(reason string) error {
	return errors.NewWithField(ErrCodeLineRead, "line read failed", "reason", reason)
}

func newErrUtf8() error {
	return errors.New(ErrCodeUtf8, "invalid utf-8")
}

func newErrNumberParse(reason string) error {
	return errors.NewWithField(ErrCodeNumberParse, "number parse failed", "reason", reason)
}

func newErrInvalidCmd(verb string) error {
	return errors.NewWithField(ErrCodeInvalidCmd, "unknown command", "verb", verb)
}

func newErrCommandParse(reason string) error {
	return errors.NewWithField(ErrCodeCommandParse, "command parse failed", "reason", reason)
}

// IsStreamReadError reports whether err is a StreamReadError.
func IsStreamReadError(err error) bool {
	return errors.HasCode(err, ErrCodeStreamRead)
}

// IsStreamWriteError reports whether err is a StreamWriteError.
func IsStreamWriteError(err error) bool {
	return errors.HasCode(err, ErrCodeStreamWrite)
}

// IsLineReadError reports whether err is a LineReadError.
func IsLineReadError(err error) bool {
	return errors.HasCode(err, ErrCodeLineRead)
}

// IsUtf8Error reports whether err is a Utf8Error.
func IsUtf8Error(err error) bool {
	return errors.HasCode(err, ErrCodeUtf8)
}

// IsNumberParseError reports whether err is a NumberParseError.
func IsNumberParseError(err error) bool {
	return errors.HasCode(err, ErrCodeNumberParse)
}

// IsInvalidCmd reports whether err is an InvalidCmd error.
func IsInvalidCmd(err error) bool {
	return errors.HasCode(err, ErrCodeInvalidCmd)
}

// IsCommandParseError reports whether err is a CommandParseError.
func IsCommandParseError(err error) bool {
	return errors.HasCode(err, ErrCodeCommandParse)
}
