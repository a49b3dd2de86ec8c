package orientation

// StateChange is a bitmask describing what an Orientation mutation touched
type StateChange uint8

const (
	// ChangeRotation is set when any of the basis vectors changed
	ChangeRotation StateChange = 1 << iota
	// ChangeMotion is set when the position changed
	ChangeMotion
	// ChangeBinding is set when the binding matrix was set or removed
	ChangeBinding
)

// Has reports whether every bit of flag is present in c
func (c StateChange) Has(flag StateChange) bool {
	return c&flag == flag
}

// StateObserver is implemented by every entity that owns an Orientation and
// keeps state derived from it (world matrices, frustums, simulated bodies).
//
// OnStateChange is called synchronously by the mutating method, after the
// Orientation has re-orthonormalized its basis and invalidated its own cache,
// and before the mutating method returns.
type StateObserver interface {
	OnStateChange(change StateChange)
}
