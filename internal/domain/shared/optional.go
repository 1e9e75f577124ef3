package shared

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Optional holds either a present value or nothing. The zero value is Absent.
//
// In JSON input an absent key and an explicit null both decode to Absent.
type Optional[T any] struct {
	value   T
	present bool
}

// Some returns a present Optional holding v
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// None returns an absent Optional
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr converts a nullable pointer into an Optional
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}
	return Some(*p)
}

// IsPresent reports whether a value is held
func (o Optional[T]) IsPresent() bool {
	return o.present
}

// Get returns the value and whether it is present
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// OrElse returns the held value or def when absent
func (o Optional[T]) OrElse(def T) T {
	if o.present {
		return o.value
	}
	return def
}

// Ptr returns a pointer to a copy of the value, or nil when absent
func (o Optional[T]) Ptr() *T {
	if !o.present {
		return nil
	}
	v := o.value
	return &v
}

// MarshalJSON encodes an absent value as null
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.present {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as absent
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = None[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// DecodeStrict decodes a single JSON document into dst, rejecting unknown fields
// and trailing data.
func DecodeStrict(r io.Reader, dst any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return NewDomainError(CodeInvalidInput, fmt.Sprintf("invalid input: %v", err))
	}
	if dec.More() {
		return NewDomainError(CodeInvalidInput, "invalid input: unexpected trailing data")
	}
	return nil
}
