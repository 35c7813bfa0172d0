package service

import "PerfMap-App/internal/domain/model"

// TopRankingSize ランキングの表示件数
const TopRankingSize = 5

// Statistics 統計ダッシュボード用の集計
type Statistics struct {
	TotalPerformances int `json:"total_performances"`
	TotalArtists      int `json:"total_artists"`
	TotalVenues       int `json:"total_venues"`

	ByMonth    *OrderedCounts `json:"performances_by_month"`
	ByProvince *OrderedCounts `json:"performances_by_province"`
	ByArtist   *OrderedCounts `json:"performances_by_artist"`
	ByVenue    *OrderedCounts `json:"performances_by_venue"`

	TopArtists      []CountEntry `json:"top_artists"`
	TopVenues       []CountEntry `json:"top_venues"`
	ProvinceRanking []CountEntry `json:"province_ranking"`
}

// BuildStatistics 公演一覧から統計を作る。省は地図と同じ正規化名で集計する
func BuildStatistics(records []model.Performance) *Statistics {
	return StatisticsFromIndex(NewPerformanceIndex(records))
}

// StatisticsFromIndex 既存のPerformanceIndexから統計を作る
func StatisticsFromIndex(idx *PerformanceIndex) *Statistics {
	return &Statistics{
		TotalPerformances: len(idx.Records()),
		TotalArtists:      idx.ArtistCounts.Len(),
		TotalVenues:       idx.VenueCounts.Len(),
		ByMonth:           idx.MonthCounts,
		ByProvince:        idx.ProvinceCounts,
		ByArtist:          idx.ArtistCounts,
		ByVenue:           idx.VenueCounts,
		TopArtists:        TopN(idx.ArtistCounts, TopRankingSize),
		TopVenues:         TopN(idx.VenueCounts, TopRankingSize),
		ProvinceRanking:   TopN(idx.ProvinceCounts, -1),
	}
}
