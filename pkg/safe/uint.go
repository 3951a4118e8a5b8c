// Package safe provides integer conversions that reject values outside the target range.
package safe

import (
	"errors"
	"fmt"
	"math"
)

// ErrOutOfRange is wrapped by every failed conversion.
var ErrOutOfRange = errors.New("value out of range")

// Integer is any built-in integer type, named or not.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Uint32 converts v to uint32.
func Uint32[T Integer](v T) (uint32, error) {
	if v < 0 || uint64(v) > math.MaxUint32 {
		return 0, fmt.Errorf("%d to uint32: %w", v, ErrOutOfRange)
	}
	return uint32(v), nil
}

// Uint64 converts v to uint64, rejecting negatives.
func Uint64[T Integer](v T) (uint64, error) {
	if v < 0 {
		return 0, fmt.Errorf("%d to uint64: %w", v, ErrOutOfRange)
	}
	return uint64(v), nil
}

// Int64 converts v to int64, rejecting unsigned values above math.MaxInt64.
func Int64[T Integer](v T) (int64, error) {
	if v > 0 && uint64(v) > math.MaxInt64 {
		return 0, fmt.Errorf("%d to int64: %w", v, ErrOutOfRange)
	}
	return int64(v), nil
}
