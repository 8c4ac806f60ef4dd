package utils

import (
	"fmt"
	"math"

	"github.com/dustin/go-humanize"
)

// ByteSize is a byte count that parses human units ("10MiB", "512kB") as a
// command-line flag and as a TOML integer or string.
type ByteSize int64

// Set implements pflag.Value.
func (b *ByteSize) Set(s string) error {
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n > math.MaxInt64 {
		return fmt.Errorf("size %q is too large", s)
	}
	*b = ByteSize(n)
	return nil
}

func (b *ByteSize) String() string {
	return humanize.IBytes(uint64(*b))
}

// Type implements pflag.Value.
func (b *ByteSize) Type() string {
	return "size"
}

// UnmarshalTOML accepts both `chunk_size = 1048576` and `chunk_size = "1MiB"`.
func (b *ByteSize) UnmarshalTOML(v any) error {
	switch value := v.(type) {
	case int64:
		*b = ByteSize(value)
		return nil
	case string:
		return b.Set(value)
	default:
		return fmt.Errorf("size must be an integer or a string, got %T", v)
	}
}

// FormatBytes renders n with thousands separators, e.g. "26,214,400 bytes".
func FormatBytes(n int64) string {
	return humanize.Comma(n) + " bytes"
}

// FormatSize renders n in binary units, e.g. "25 MiB".
func FormatSize(n int64) string {
	if n < 0 {
		return fmt.Sprintf("%d B", n)
	}
	return humanize.IBytes(uint64(n))
}
