// Package aggregator streams the scanner's CSV, expands each file's
// ancestor directories, buckets by modification age, and writes a
// deterministic per-(path, user, age) CSV.
package aggregator

// Age bucket day thresholds, exposed as constants rather than hardcoded
// literals per the open question in the design notes: the source carries
// two variants (60/600 and 60/730); this build follows the primary
// 60/600 variant. An alternate build can override these two constants.
const (
	AgeBucketDays0 = 60
	AgeBucketDays1 = 600

	secondsPerDay = 86400
)

// AgeBucket computes the {0,1,2} age bucket of mtime relative to now.
// mtime <= 0 is always bucket 2. A future mtime (more than one day ahead
// of now) must already have been sanitized to 0 by the caller before this
// is called.
func AgeBucket(now, mtime int64) int {
	if mtime <= 0 {
		return 2
	}
	days := (now - mtime) / secondsPerDay
	switch {
	case days <= AgeBucketDays0:
		return 0
	case days <= AgeBucketDays1:
		return 1
	default:
		return 2
	}
}

// SanitizeMtime zeroes mtime if it lies more than one day in the future
// relative to now.
func SanitizeMtime(now, mtime int64) int64 {
	if mtime > now+secondsPerDay {
		return 0
	}
	return mtime
}
