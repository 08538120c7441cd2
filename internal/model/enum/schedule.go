package enum

// Schedule static, dynamic, guided
type Schedule uint8

const (
	_schedule_beg Schedule = iota
	ScheduleStatic
	ScheduleDynamic
	ScheduleGuided
	_schedule_end
)

func (s Schedule) IsAvailable() bool {
	return s > _schedule_beg && s < _schedule_end
}

func (s Schedule) String() string {
	switch s {
	case ScheduleStatic:
		return "static"
	case ScheduleDynamic:
		return "dynamic"
	case ScheduleGuided:
		return "guided"
	default:
		return "unknown"
	}
}

func ParseSchedule(s string) (Schedule, bool) {
	for sch := _schedule_beg + 1; sch < _schedule_end; sch++ {
		if sch.String() == s {
			return sch, true
		}
	}
	return _schedule_beg, false
}
