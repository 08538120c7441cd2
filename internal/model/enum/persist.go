package enum

// PersistMode none, direct, buffered
//
// Direct writes every record to the sink as soon as it is produced, one writer at a time.
// Buffered keeps records per worker and emits them in bulk after the run.
type PersistMode uint8

const (
	_persist_mode_beg PersistMode = iota
	PersistNone
	PersistDirect
	PersistBuffered
	_persist_mode_end
)

func (m PersistMode) IsAvailable() bool {
	return m > _persist_mode_beg && m < _persist_mode_end
}

func (m PersistMode) String() string {
	switch m {
	case PersistNone:
		return "none"
	case PersistDirect:
		return "direct"
	case PersistBuffered:
		return "buffered"
	default:
		return "unknown"
	}
}

func ParsePersistMode(s string) (PersistMode, bool) {
	for m := _persist_mode_beg + 1; m < _persist_mode_end; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return _persist_mode_beg, false
}
