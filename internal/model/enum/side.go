package enum

// Side call, put
type Side uint8

const (
	_side_beg Side = iota
	SideCall
	SidePut
	_side_end
)

func (s Side) IsAvailable() bool {
	return s > _side_beg && s < _side_end
}

func (s Side) String() string {
	switch s {
	case SideCall:
		return "call"
	case SidePut:
		return "put"
	default:
		return "unknown"
	}
}

// ParseSide accepts exactly "call" or "put".
func ParseSide(s string) (Side, bool) {
	switch s {
	case "call":
		return SideCall, true
	case "put":
		return SidePut, true
	default:
		return _side_beg, false
	}
}
