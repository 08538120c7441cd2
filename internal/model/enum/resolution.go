package enum

// Resolution minute, hour, day
type Resolution uint8

const (
	_resolution_beg Resolution = iota
	ResolutionMinute
	ResolutionHour
	ResolutionDay
	_resolution_end
)

func (r Resolution) IsAvailable() bool {
	return r > _resolution_beg && r < _resolution_end
}

func (r Resolution) String() string {
	switch r {
	case ResolutionMinute:
		return "minute"
	case ResolutionHour:
		return "hour"
	case ResolutionDay:
		return "day"
	default:
		return "unknown"
	}
}
