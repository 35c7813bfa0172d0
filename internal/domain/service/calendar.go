package service

import (
	"time"

	"PerfMap-App/internal/domain/model"
)

const (
	calendarCells      = 42 // 6週間分
	timelineDays       = 21
	timelineDaysBefore = 7
)

// DaySlot 1日分の公演
type DaySlot struct {
	Date         string              `json:"date"`
	Count        int                 `json:"count"`
	Performances []model.Performance `json:"performances"`
}

// CalendarCell 月カレンダーの1マス
type CalendarCell struct {
	DaySlot
	InMonth bool `json:"in_month"`
}

func (idx *PerformanceIndex) daySlot(day time.Time) DaySlot {
	performances := idx.PerformancesOn(day)
	if performances == nil {
		performances = []model.Performance{}
	}
	return DaySlot{
		Date:         day.Format(model.DateKeyLayout),
		Count:        len(performances),
		Performances: performances,
	}
}

// MonthGrid 月初を含む週の日曜日から始まる42マスのカレンダー
func MonthGrid(year int, month time.Month, idx *PerformanceIndex) []CalendarCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	cells := make([]CalendarCell, 0, calendarCells)
	for i := 0; i < calendarCells; i++ {
		day := start.AddDate(0, 0, i)
		cells = append(cells, CalendarCell{
			DaySlot: idx.daySlot(day),
			InMonth: day.Month() == first.Month() && day.Year() == first.Year(),
		})
	}
	return cells
}

// TimelineWindow center の7日前から21日分
func TimelineWindow(center time.Time, idx *PerformanceIndex) []DaySlot {
	start := model.CivilDate(center).AddDate(0, 0, -timelineDaysBefore)

	days := make([]DaySlot, 0, timelineDays)
	for i := 0; i < timelineDays; i++ {
		days = append(days, idx.daySlot(start.AddDate(0, 0, i)))
	}
	return days
}

// UpcomingCount 今日から1か月以内（両端含む）の公演数
func UpcomingCount(today time.Time, records []model.Performance) int {
	from := model.CivilDate(today)
	to := from.AddDate(0, 1, 0)

	count := 0
	for _, record := range records {
		if !record.Date.Before(from) && !record.Date.After(to) {
			count++
		}
	}
	return count
}
