package core

import (
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// ReduceVersions picks the latest active and latest expected versions.
// The expected set includes expired versions and must dominate the active one.
func ReduceVersions(active []int, expected []int) (int, int, error) {
	latestActive, ok := maxVersion(active)
	if !ok {
		return 0, 0, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no active versions")
	}
	latestExpected, ok := maxVersion(expected)
	if !ok {
		return 0, 0, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no versions including expired")
	}
	// Treated as malformed: the datastack is dropped, not reported as Failed.
	if latestExpected < latestActive {
		return 0, 0, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("expired-inclusive versions do not cover active versions")
	}
	return latestActive, latestExpected, nil
}

func maxVersion(versions []int) (int, bool) {
	if len(versions) == 0 {
		return 0, false
	}
	latest := versions[0]
	for _, version := range versions[1:] {
		if version > latest {
			latest = version
		}
	}
	return latest, true
}

// DaysOld counts whole calendar days between the timestamp's date and today.
func DaysOld(today time.Time, timestamp time.Time) int {
	from := calendarDate(timestamp)
	to := calendarDate(today)
	return int(to.Sub(from).Hours() / 24)
}

func calendarDate(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
