package model

// Backend selects the strategy that produces candidates.
type Backend string

const (
	BackendWalk  Backend = "walk"
	BackendIndex Backend = "index"
)

// String returns the string representation of the backend.
func (b Backend) String() string {
	return string(b)
}

// IsValid checks whether the backend is a known value.
func (b Backend) IsValid() bool {
	switch b {
	case BackendWalk, BackendIndex:
		return true
	}
	return false
}
