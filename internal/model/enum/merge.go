package enum

// MergeMode mean-of-means, pooled
type MergeMode uint8

const (
	_merge_mode_beg MergeMode = iota
	// MergeMeanOfMeans averages the per-process averages. Exact only when every process
	// handled the same number of finite payoffs.
	MergeMeanOfMeans
	// MergePooled divides the summed payoffs by the summed counts.
	MergePooled
	_merge_mode_end
)

func (m MergeMode) IsAvailable() bool {
	return m > _merge_mode_beg && m < _merge_mode_end
}

func (m MergeMode) String() string {
	switch m {
	case MergeMeanOfMeans:
		return "mean-of-means"
	case MergePooled:
		return "pooled"
	default:
		return "unknown"
	}
}

func ParseMergeMode(s string) (MergeMode, bool) {
	for m := _merge_mode_beg + 1; m < _merge_mode_end; m++ {
		if m.String() == s {
			return m, true
		}
	}
	return _merge_mode_beg, false
}
