package treasurer

const (
	// weekEpochOffset anchors week zero four days into the unix epoch so
	// week boundaries fall mid-week instead of on the epoch grid.
	weekEpochOffset = 4 * 86400
	// weekSeconds is the bucket width.
	weekSeconds = 7 * 86400

	// MinLockupWeeks and MaxLockupWeeks bound the configurable lockup span.
	MinLockupWeeks = 4
	MaxLockupWeeks = 24

	// BpsDenominator is the fixed basis-point denominator.
	BpsDenominator = 10000
)

// WeekOf maps a timestamp to its bucket number. Timestamps before the epoch
// offset collapse into week zero.
func WeekOf(timestamp int64) uint64 {
	if timestamp <= weekEpochOffset {
		return 0
	}
	return uint64(timestamp-weekEpochOffset) / weekSeconds
}

// WeekStart is the inverse of WeekOf up to integer-division truncation:
// WeekOf(WeekStart(w)) == w for every w.
func WeekStart(week uint64) int64 {
	return int64(week)*weekSeconds + weekEpochOffset
}
