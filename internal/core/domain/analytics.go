package domain

import "time"

// SkillCount pairs a skill name with how many requests referenced it.
type SkillCount struct {
	Skill string `json:"skill"`
	Count int    `json:"count"`
}

// AnalyticsSnapshot aggregates one calendar day of platform activity. There
// is exactly one row per date; regeneration overwrites it in place.
type AnalyticsSnapshot struct {
	SnapshotDate      time.Time
	ActiveUsers       int
	NewUsers          int
	SessionsCreated   int
	SessionsAccepted  int
	SessionsCompleted int
	ReportsFiled      int
	ReportsResolved   int
	BansIssued        int
	TopSkills         []SkillCount
	GeneratedAt       time.Time
}

// SnapshotTrend augments a snapshot with percent changes against the
// preceding snapshot. Trends are computed at read time and never stored.
type SnapshotTrend struct {
	Snapshot          AnalyticsSnapshot
	ActiveUsersChange *float64
	NewUsersChange    *float64
	SessionsChange    *float64
}

// PercentChange returns the relative change from prev to curr, or nil when
// prev is zero and the ratio is undefined.
func PercentChange(prev, curr int) *float64 {
	if prev == 0 {
		return nil
	}
	change := (float64(curr) - float64(prev)) / float64(prev) * 100
	return &change
}
