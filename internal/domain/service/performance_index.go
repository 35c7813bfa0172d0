package service

import (
	"fmt"
	"sort"
	"time"

	"PerfMap-App/internal/domain/geo"
	"PerfMap-App/internal/domain/model"
)

// PerformanceIndex 公演一覧から導出する集計（読み込みごとに作り直す）
type PerformanceIndex struct {
	ByProvince map[string][]model.Performance // 正規化した省名 -> 公演（取得順）
	ByArtist   map[string][]model.Performance // アーティスト -> 公演（取得順）
	ByDate     map[string][]model.Performance // YYYY-MM-DD -> 公演（取得順）

	MonthCounts    *OrderedCounts
	ProvinceCounts *OrderedCounts
	ArtistCounts   *OrderedCounts
	VenueCounts    *OrderedCounts

	records []model.Performance
}

// NewPerformanceIndex 公演一覧から全ての集計を作る
func NewPerformanceIndex(records []model.Performance) *PerformanceIndex {
	idx := &PerformanceIndex{
		ByProvince:     BuildProvinceIndex(records),
		ByArtist:       make(map[string][]model.Performance),
		ByDate:         make(map[string][]model.Performance),
		MonthCounts:    NewOrderedCounts(),
		ProvinceCounts: NewOrderedCounts(),
		ArtistCounts:   NewOrderedCounts(),
		VenueCounts:    NewOrderedCounts(),
		records:        records,
	}

	for _, record := range records {
		idx.ByArtist[record.Artist] = append(idx.ByArtist[record.Artist], record)
		idx.ByDate[record.DateKey()] = append(idx.ByDate[record.DateKey()], record)

		idx.MonthCounts.Add(MonthLabel(record.Date))
		idx.ProvinceCounts.Add(geo.NormalizeProvinceName(record.Province))
		idx.ArtistCounts.Add(record.Artist)
		if record.Venue != "" {
			idx.VenueCounts.Add(record.Venue)
		}
	}

	return idx
}

// Records 元の公演一覧（取得順）
func (idx *PerformanceIndex) Records() []model.Performance {
	return idx.records
}

// ProvincePerformances 省名（正規化前でも可）に属する公演
func (idx *PerformanceIndex) ProvincePerformances(province string) []model.Performance {
	return idx.ByProvince[geo.NormalizeProvinceName(province)]
}

// PerformancesOn 指定日の公演
func (idx *PerformanceIndex) PerformancesOn(date time.Time) []model.Performance {
	return idx.ByDate[model.CivilDate(date).Format(model.DateKeyLayout)]
}

// HasArtistIn 省にそのアーティストの公演があるか（期間で絞らず全件を見る）
func (idx *PerformanceIndex) HasArtistIn(normalizedProvince, artist string) bool {
	if artist == "" {
		return false
	}
	for _, performance := range idx.ByProvince[normalizedProvince] {
		if performance.Artist == artist {
			return true
		}
	}
	return false
}

// BuildProvinceIndex 正規化した省名ごとに公演をまとめる（順序は取得順）
func BuildProvinceIndex(records []model.Performance) map[string][]model.Performance {
	byProvince := make(map[string][]model.Performance)
	for _, record := range records {
		key := geo.NormalizeProvinceName(record.Province)
		byProvince[key] = append(byProvince[key], record)
	}
	return byProvince
}

// BuildArtistHistory アーティスト名が完全一致する公演を新しい順に返す
func BuildArtistHistory(records []model.Performance, artist string) []model.Performance {
	history := make([]model.Performance, 0)
	for _, record := range records {
		if record.Artist == artist {
			history = append(history, record)
		}
	}
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	return history
}

// MonthLabel 月の表示ラベル（例: 2024年3月）
func MonthLabel(t time.Time) string {
	return fmt.Sprintf("%d年%d月", t.Year(), int(t.Month()))
}

// DisplayDate 日付の表示形式（例: 2024/3/1）
func DisplayDate(t time.Time) string {
	return fmt.Sprintf("%d/%d/%d", t.Year(), int(t.Month()), t.Day())
}
