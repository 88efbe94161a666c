package combinator

// Mode selects whether a parse builds output values.
//
// Every parser is written once against Bind, Map and Combine. Under Emit
// those helpers construct real values; under Check they skip construction and
// yield the zero value of the output type. Both modes consume input
// identically, so they always agree on success, failure and final position.
type Mode interface {
	// Emits reports whether values are constructed.
	Emits() bool
	String() string
}

// Emit is the value-producing mode.
type Emit struct{}

func (Emit) Emits() bool    { return true }
func (Emit) String() string { return "emit" }

// Check is the validating mode. Outputs are zero values and nothing is
// allocated on their behalf.
type Check struct{}

func (Check) Emits() bool    { return false }
func (Check) String() string { return "check" }

// Bind produces f() under Emit and the zero O under Check.
func Bind[O any](m Mode, f func() O) O {
	if m.Emits() {
		return f()
	}
	var zero O
	return zero
}

// Map applies f to a under Emit.
func Map[A, B any](m Mode, a A, f func(A) B) B {
	if m.Emits() {
		return f(a)
	}
	var zero B
	return zero
}

// Combine applies f to a and b under Emit.
func Combine[A, B, C any](m Mode, a A, b B, f func(A, B) C) C {
	if m.Emits() {
		return f(a, b)
	}
	var zero C
	return zero
}
