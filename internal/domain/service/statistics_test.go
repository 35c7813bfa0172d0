package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PerfMap-App/internal/domain/model"
)

func TestBuildStatistics(t *testing.T) {
	stats := BuildStatistics(samplePerformances())

	assert.Equal(t, 5, stats.TotalPerformances)
	assert.Equal(t, 3, stats.TotalArtists)
	assert.Equal(t, 4, stats.TotalVenues)

	assert.Equal(t, []CountEntry{
		{Key: "2024年1月", Count: 1},
		{Key: "2024年3月", Count: 3},
		{Key: "2024年2月", Count: 1},
	}, stats.ByMonth.Entries())

	// 省は正規化名で集計する（"北京市" と "北京" は同じ）
	assert.Equal(t, 2, stats.ByProvince.Get("北京"))
	assert.Equal(t, 0, stats.ByProvince.Get("北京市"))
	require.NotEmpty(t, stats.ProvinceRanking)
	assert.Equal(t, CountEntry{Key: "北京", Count: 2}, stats.ProvinceRanking[0])

	require.NotEmpty(t, stats.TopArtists)
	assert.Equal(t, CountEntry{Key: "万能青年旅店", Count: 3}, stats.TopArtists[0])
	assert.Equal(t, CountEntry{Key: "MAO", Count: 2}, stats.TopVenues[0])
}

func TestBuildStatisticsTopFive(t *testing.T) {
	var records []model.Performance
	for i, artist := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		for j := 0; j <= i%3; j++ {
			records = append(records, model.Performance{
				Artist:   artist,
				Province: "四川",
				Venue:    "venue-" + artist,
				Date:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			})
		}
	}

	stats := BuildStatistics(records)
	require.Len(t, stats.TopArtists, TopRankingSize)
	// c,f は3回、b,e は2回、同数は挿入順
	assert.Equal(t, []string{"c", "f", "b", "e", "a"}, entryKeys(stats.TopArtists))
	assert.Len(t, stats.TopVenues, TopRankingSize)
}

func TestBuildStatisticsEmpty(t *testing.T) {
	stats := BuildStatistics(nil)

	assert.Equal(t, 0, stats.TotalPerformances)
	assert.Equal(t, 0, stats.TotalArtists)
	assert.Equal(t, 0, stats.TotalVenues)
	assert.Empty(t, stats.ByMonth.Entries())
	assert.Empty(t, stats.ByProvince.Entries())
	assert.Empty(t, stats.ByArtist.Entries())
	assert.Empty(t, stats.ByVenue.Entries())
	assert.NotNil(t, stats.TopArtists)
	assert.Empty(t, stats.TopArtists)
	assert.Empty(t, stats.TopVenues)
	assert.Empty(t, stats.ProvinceRanking)
}

func TestStatisticsSkipsEmptyVenue(t *testing.T) {
	stats := BuildStatistics([]model.Performance{
		{Artist: "a", Province: "四川", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	})
	assert.Equal(t, 0, stats.TotalVenues)
	assert.Equal(t, 1, stats.TotalArtists)
}

func entryKeys(entries []CountEntry) []string {
	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		keys = append(keys, entry.Key)
	}
	return keys
}
