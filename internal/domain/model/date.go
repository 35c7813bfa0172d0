package model

import (
	"fmt"
	"strings"
	"time"
)

// 日付のみの表記（時刻なし）
var civilDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
}

// タイムゾーン付きの表記
var zonedTimestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07",
	"2006-01-02 15:04:05.999999-07",
}

// タイムゾーンなしの表記（locの現地時刻として扱う）
var localTimestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp 取得元の日時文字列を解析する
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range zonedTimestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.In(loc), nil
		}
	}
	for _, layout := range localTimestampLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range civilDateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("日時の形式を解釈できません: %q", value)
}

// ParseCivilDate 日付文字列を暦日（UTC 0時）に変換する
// 時刻付きの値は loc の現地日付に丸める
func ParseCivilDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range civilDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}

	t, err := ParseTimestamp(value, loc)
	if err != nil {
		return time.Time{}, err
	}
	return CivilDate(t), nil
}

// CivilDate 時刻を切り捨てて UTC 0時の暦日にする
func CivilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
