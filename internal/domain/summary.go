package domain

import (
	"math"
	"sort"
	"time"
)

// DailyTargetHours is the working-hours threshold for a full day
const DailyTargetHours = 8.0

// DailySummaryEntry is the aggregated, rounded work time for one task on one
// calendar date. Derived at query time, never persisted.
type DailySummaryEntry struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	HoursSpent  float64 `json:"hours_spent"`
	OrderIndex  int     `json:"order_index"`
	ProjectCode string  `json:"project_code"`
	TaskType    string  `json:"task_type"`
}

// RoundHoursUp rounds a duration up to the next 0.5-hour increment.
// Non-positive durations round to zero.
func RoundHoursUp(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return math.Ceil(d.Hours()*2) / 2
}

// Summarize aggregates the given session/task rows into one entry per task.
// Rounding is applied per closed session before summation; open sessions and
// non-positive intervals contribute nothing. Tasks whose total is zero are
// dropped. Entries come back ordered by the task's order index.
func Summarize(date time.Time, rows []SessionWithTask) []DailySummaryEntry {
	dateStr := date.Format("2006-01-02")

	byTask := make(map[int64]*DailySummaryEntry)
	for _, row := range rows {
		entry, ok := byTask[row.Task.ID]
		if !ok {
			entry = &DailySummaryEntry{
				Date:        dateStr,
				Description: row.Task.Description,
				OrderIndex:  row.Task.OrderIndex,
				ProjectCode: row.Task.ProjectCode,
				TaskType:    row.Task.TaskType,
			}
			byTask[row.Task.ID] = entry
		}

		if row.Session.EndTime == nil {
			continue // still running, counts once it closes
		}
		entry.HoursSpent += RoundHoursUp(row.Session.EndTime.Sub(row.Session.StartTime))
	}

	entries := make([]DailySummaryEntry, 0, len(byTask))
	for _, entry := range byTask {
		if entry.HoursSpent > 0 {
			entries = append(entries, *entry)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].OrderIndex < entries[j].OrderIndex
	})

	return entries
}

// TotalHours sums the hours of all entries
func TotalHours(entries []DailySummaryEntry) float64 {
	var total float64
	for _, e := range entries {
		total += e.HoursSpent
	}
	return total
}

// TargetMet reports whether the summed hours reach the daily target
func TargetMet(totalHours float64) bool {
	return totalHours >= DailyTargetHours
}
