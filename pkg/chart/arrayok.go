package chart

import (
	"bytes"
	"encoding/json"
)

// ArrayOk holds an attribute that is either a single value applied to every
// point or a per-point array. The zero value is unset.
type ArrayOk[T any] struct {
	scalar T
	values []T
	set    bool
	array  bool
}

// Scalar returns an ArrayOk holding one value for all points.
func Scalar[T any](v T) ArrayOk[T] {
	return ArrayOk[T]{scalar: v, set: true}
}

// PerPoint returns an ArrayOk holding one value per point.
func PerPoint[T any](vs []T) ArrayOk[T] {
	return ArrayOk[T]{values: vs, set: true, array: true}
}

// IsSet reports whether a scalar or array was supplied.
func (a ArrayOk[T]) IsSet() bool { return a.set }

// IsArray reports whether the attribute is per-point.
func (a ArrayOk[T]) IsArray() bool { return a.array }

// IsZero reports whether the attribute is unset. Used by omitzero.
func (a ArrayOk[T]) IsZero() bool { return !a.set }

// Len returns the per-point array length, or 0 for scalars.
func (a ArrayOk[T]) Len() int { return len(a.values) }

// Values returns the per-point array, or nil for scalars.
func (a ArrayOk[T]) Values() []T { return a.values }

// Scalar returns the scalar value. ok is false for arrays and unset values.
func (a ArrayOk[T]) Scalar() (v T, ok bool) {
	if !a.set || a.array {
		return v, false
	}
	return a.scalar, true
}

// PointAt returns the per-point value at i. Scalars never report a per-point
// value, and arrays shorter than i+1 report ok=false.
func (a ArrayOk[T]) PointAt(i int) (v T, ok bool) {
	if !a.array || i < 0 || i >= len(a.values) {
		return v, false
	}
	return a.values[i], true
}

// ValueAt resolves the value for point i: the per-point entry for arrays,
// the scalar otherwise.
func (a ArrayOk[T]) ValueAt(i int) (T, bool) {
	if a.array {
		return a.PointAt(i)
	}
	return a.Scalar()
}

// Or returns a with the scalar def applied when a is unset.
func (a ArrayOk[T]) Or(def T) ArrayOk[T] {
	if a.set {
		return a
	}
	return Scalar(def)
}

// MarshalJSON encodes the scalar or the array.
func (a ArrayOk[T]) MarshalJSON() ([]byte, error) {
	switch {
	case !a.set:
		return []byte("null"), nil
	case a.array:
		return json.Marshal(a.values)
	default:
		return json.Marshal(a.scalar)
	}
}

// UnmarshalJSON accepts either a JSON array or a single value.
func (a *ArrayOk[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*a = ArrayOk[T]{}
		return nil
	}
	if data[0] == '[' {
		var vs []T
		if err := json.Unmarshal(data, &vs); err != nil {
			return err
		}
		*a = PerPoint(vs)
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = Scalar(v)
	return nil
}
