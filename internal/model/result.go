package model

// Defaultable is a best-effort result. It always carries a value; Degraded
// marks that the value is a fallback and Reason says why.
type Defaultable[T any] struct {
	Value    T      `json:"value"`
	Degraded bool   `json:"degraded"`
	Reason   string `json:"reason,omitempty"`
}

// Resolved wraps a value produced normally.
func Resolved[T any](v T) Defaultable[T] {
	return Defaultable[T]{Value: v}
}

// Degrade wraps a fallback value and the error that forced it.
func Degrade[T any](v T, err error) Defaultable[T] {
	d := Defaultable[T]{Value: v, Degraded: true}
	if err != nil {
		d.Reason = err.Error()
	}
	return d
}

// Validated is a result that either passed validation or failed. There is
// no partial value.
type Validated[T any] struct {
	value T
	err   error
}

// Valid wraps a value that passed validation.
func Valid[T any](v T) Validated[T] {
	return Validated[T]{value: v}
}

// Invalid wraps a validation failure.
func Invalid[T any](err error) Validated[T] {
	return Validated[T]{err: err}
}

// Unwrap returns the value or the failure.
func (v Validated[T]) Unwrap() (T, error) {
	if v.err != nil {
		var zero T
		return zero, v.err
	}
	return v.value, nil
}

// OK reports whether validation passed.
func (v Validated[T]) OK() bool {
	return v.err == nil
}
