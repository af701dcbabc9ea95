package cache

import (
	"github.com/agilira/go-errors"
)

// Error codes for cache engine operations. Cache errors are always
// recovered locally by the dispatcher into a protocol reply; they never
// escape to the connection as a bare Go error.
const (
	ErrCodeKeyNotFound      errors.ErrorCode = "MEMKV_KEY_NOT_FOUND"
	ErrCodeKeyTooLong       errors.ErrorCode = "MEMKV_KEY_TOO_LONG"
	ErrCodeValueTooLong     errors.ErrorCode = "MEMKV_VALUE_TOO_LONG"
	ErrCodeCapacityExceeded errors.ErrorCode = "MEMKV_CAPACITY_EXCEEDED"
)

func newErrKeyNotFound(key Key) error {
	return errors.NewWithField(ErrCodeKeyNotFound, "key not found", "key", key.String())
}

func newErrKeyTooLong(key Key, maxlen uint64) error {
	return errors.NewWithContext(ErrCodeKeyTooLong, "key too long", map[string]interface{}{
		"key_len": key.Len(),
		"max_len": maxlen,
	})
}

func newErrValueTooLong(v Value, maxlen uint64) error {
	return errors.NewWithContext(ErrCodeValueTooLong, "value too long", map[string]interface{}{
		"value_len": v.Len(),
		"max_len":   maxlen,
	})
}

func newErrCapacityExceeded(capacity uint64) error {
	return errors.NewWithContext(ErrCodeCapacityExceeded, "cache is at capacity", map[string]interface{}{
		"capacity": capacity,
	}).AsRetryable()
}

// IsKeyNotFound reports whether err is a KeyNotFound cache error.
func IsKeyNotFound(err error) bool {
	return errors.HasCode(err, ErrCodeKeyNotFound)
}

// IsKeyTooLong reports whether err is a KeyTooLong cache error.
func IsKeyTooLong(err error) bool {
	return errors.HasCode(err, ErrCodeKeyTooLong)
}

// IsValueTooLong reports whether err is a ValueTooLong cache error.
func IsValueTooLong(err error) bool {
	return errors.HasCode(err, ErrCodeValueTooLong)
}

// IsCapacityExceeded reports whether err is a CapacityExceeded cache error.
func IsCapacityExceeded(err error) bool {
	return errors.HasCode(err, ErrCodeCapacityExceeded)
}
