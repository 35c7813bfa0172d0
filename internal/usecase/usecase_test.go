package usecase

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PerfMap-App/internal/domain/model"
	"PerfMap-App/internal/domain/service"
)

type fakePerformances struct {
	records []model.Performance
	err     error
	calls   int32
}

func (f *fakePerformances) FetchAll(ctx context.Context) ([]model.Performance, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fakeMaps struct {
	features []model.GeoFeature
	err      error
}

func (f *fakeMaps) LoadFeatures(ctx context.Context) ([]model.GeoFeature, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.features, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func square(x, y, size float64) orb.Polygon {
	return orb.Polygon{{{x, y}, {x + size, y}, {x + size, y + size}, {x, y + size}, {x, y}}}
}

func sampleFeatures() []model.GeoFeature {
	return []model.GeoFeature{
		{Name: "四川省", Geometry: square(0, 0, 10)},
		{Name: "北京市", Geometry: square(20, 20, 5)},
		{Name: "西藏自治区", Geometry: orb.MultiPolygon{square(30, 0, 2), square(34, 0, 2)}},
		{Name: "壊れた省", Geometry: nil},
	}
}

func sampleRecords() []model.Performance {
	return []model.Performance{
		{Artist: "万能青年旅店", Province: "四川省", City: "成都", Venue: "小酒馆", Date: day(2024, 3, 1)},
		{Artist: "草东没有派对", Province: "北京", City: "北京", Venue: "MAO", Date: day(2024, 3, 10)},
		{Artist: "万能青年旅店", Province: "北京市", City: "北京", Venue: "MAO", Date: day(2024, 4, 2)},
	}
}

func TestMapViewBuild(t *testing.T) {
	uc := NewMapViewUseCase(&fakeMaps{features: sampleFeatures()}, &fakePerformances{records: sampleRecords()}, nil, quietLogger())

	view, err := uc.Build(context.Background(), service.HighlightInput{SelectedProvince: "西藏"})
	require.NoError(t, err)
	require.Len(t, view.Features, 4)
	assert.Equal(t, model.Viewport{Width: 800, Height: 600, Padding: 40}, view.Viewport)
	assert.Equal(t, 3, view.TotalPerformances)

	sichuan := view.Features[0]
	assert.Equal(t, "四川", sichuan.NormalizedName)
	assert.Equal(t, model.FillHasPerformances, sichuan.Fill)
	assert.Equal(t, "#4c5563", sichuan.Color)
	assert.Equal(t, 1, sichuan.PerformanceCount)
	assert.True(t, strings.HasPrefix(sichuan.Path, "M"))
	assert.True(t, strings.HasSuffix(sichuan.Path, "Z"))

	beijing := view.Features[1]
	assert.Equal(t, "北京", beijing.NormalizedName)
	assert.Equal(t, 2, beijing.PerformanceCount)

	tibet := view.Features[2]
	assert.Equal(t, model.FillSelected, tibet.Fill)
	assert.Equal(t, 2, strings.Count(tibet.Path, "M"))

	broken := view.Features[3]
	assert.Equal(t, "", broken.Path)
	assert.Equal(t, model.FillDefault, broken.Fill)
}

func TestMapViewBuildArtistFocus(t *testing.T) {
	uc := NewMapViewUseCase(&fakeMaps{features: sampleFeatures()}, &fakePerformances{records: sampleRecords()}, nil, quietLogger())

	view, err := uc.Build(context.Background(), service.HighlightInput{SelectedProvince: "北京", FocusedArtist: "草东没有派对"})
	require.NoError(t, err)
	assert.Equal(t, model.FillHasPerformances, view.Features[0].Fill)
	assert.Equal(t, model.FillArtistMatch, view.Features[1].Fill)
	assert.Equal(t, "#bf3737", view.Features[1].Color)
}

func TestMapViewBuildErrors(t *testing.T) {
	t.Run("地図が空", func(t *testing.T) {
		uc := NewMapViewUseCase(&fakeMaps{}, &fakePerformances{records: sampleRecords()}, nil, quietLogger())
		_, err := uc.Build(context.Background(), service.HighlightInput{})
		assert.ErrorIs(t, err, model.ErrEmptyMap)
	})

	t.Run("公演一覧の取得失敗は全体の失敗", func(t *testing.T) {
		uc := NewMapViewUseCase(&fakeMaps{features: sampleFeatures()}, &fakePerformances{err: model.ErrFetchFailed}, nil, quietLogger())
		_, err := uc.Build(context.Background(), service.HighlightInput{})
		assert.ErrorIs(t, err, model.ErrFetchFailed)
	})

	t.Run("地図の形式不正", func(t *testing.T) {
		uc := NewMapViewUseCase(&fakeMaps{err: model.ErrMalformedPayload}, &fakePerformances{records: sampleRecords()}, nil, quietLogger())
		_, err := uc.Build(context.Background(), service.HighlightInput{})
		assert.ErrorIs(t, err, model.ErrMalformedPayload)
	})
}

func TestRenderSVG(t *testing.T) {
	uc := NewMapViewUseCase(&fakeMaps{features: sampleFeatures()}, &fakePerformances{records: sampleRecords()}, nil, quietLogger())
	view, err := uc.Build(context.Background(), service.HighlightInput{})
	require.NoError(t, err)

	svg := string(RenderSVG(view))
	assert.True(t, strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800 600"`))
	assert.True(t, strings.HasSuffix(svg, "</svg>\n"))
	// パスが空の地域は描かない
	assert.Equal(t, 3, strings.Count(svg, "<path "))
	assert.Contains(t, svg, `data-name="四川"`)
	assert.Contains(t, svg, `fill="#4c5563"`)
	assert.NotContains(t, svg, "壊れた省")
}

func TestRenderSVGEscapesNames(t *testing.T) {
	svg := string(RenderSVG(&MapView{
		Viewport: model.Viewport{Width: 800, Height: 600, Padding: 40},
		Features: []MapFeatureView{{Name: `<b>"x"`, NormalizedName: "x&y", Path: "M0,0 L1,1Z", Fill: model.FillDefault, Color: "#1f2938"}},
	}))
	assert.Contains(t, svg, `data-name="x&amp;y"`)
	assert.Contains(t, svg, "&lt;b&gt;")
}

func TestProvinceDetail(t *testing.T) {
	uc := NewPerformanceUseCase(&fakePerformances{records: sampleRecords()}, time.UTC, nil, quietLogger())

	detail, err := uc.ProvinceDetail(context.Background(), "北京市")
	require.NoError(t, err)
	assert.Equal(t, "北京", detail.NormalizedName)
	assert.Equal(t, 2, detail.Count)
	assert.Equal(t, "草东没有派对", detail.Performances[0].Artist)

	detail, err = uc.ProvinceDetail(context.Background(), "西藏")
	require.NoError(t, err)
	assert.NotNil(t, detail.Performances)
	assert.Zero(t, detail.Count)
}

func TestArtistHistory(t *testing.T) {
	uc := NewPerformanceUseCase(&fakePerformances{records: sampleRecords()}, time.UTC, nil, quietLogger())

	history, err := uc.ArtistHistory(context.Background(), "万能青年旅店")
	require.NoError(t, err)
	assert.Equal(t, 2, history.Count)
	assert.Equal(t, day(2024, 4, 2), history.Performances[0].Date)
	assert.Equal(t, []string{"北京", "四川"}, history.Provinces)

	history, err = uc.ArtistHistory(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Empty(t, history.Performances)
	assert.NotNil(t, history.Provinces)
}

func TestStatisticsAndSearch(t *testing.T) {
	uc := NewPerformanceUseCase(&fakePerformances{records: sampleRecords()}, time.UTC, nil, quietLogger())

	stats, err := uc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalPerformances)
	assert.Equal(t, 2, stats.TotalVenues)

	results, err := uc.Search(context.Background(), "MAO")
	require.NoError(t, err)
	assert.Len(t, results.Venues, 1)
}

func TestCalendarAndTimeline(t *testing.T) {
	now := func() time.Time { return time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC) }
	shanghai := time.FixedZone("CST", 8*3600)
	uc := NewPerformanceUseCase(&fakePerformances{records: sampleRecords()}, shanghai, now, quietLogger())

	calendar, err := uc.Calendar(context.Background(), 2024, time.March)
	require.NoError(t, err)
	assert.Equal(t, "2024年3月", calendar.Label)
	assert.Equal(t, 3, calendar.Month)
	assert.Len(t, calendar.Cells, 42)

	calendar, err = uc.Calendar(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2024, calendar.Year)
	assert.Equal(t, 3, calendar.Month)

	// 上海時間では3/10になっている
	timeline, err := uc.Timeline(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-10", timeline.Center)
	assert.Len(t, timeline.Days, 21)
	assert.Equal(t, "2024-03-03", timeline.Days[0].Date)
	// 3/10 と 4/2
	assert.Equal(t, 2, timeline.UpcomingCount)

	timeline, err = uc.Timeline(context.Background(), day(2024, 3, 8))
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", timeline.Center)
	assert.Equal(t, "2024-03-01", timeline.Days[0].Date)
	assert.Equal(t, 1, timeline.Days[0].Count)
}

func TestPerformanceUseCaseFetchError(t *testing.T) {
	uc := NewPerformanceUseCase(&fakePerformances{err: model.ErrMalformedPayload}, time.UTC, nil, quietLogger())

	_, err := uc.Statistics(context.Background())
	assert.True(t, errors.Is(err, model.ErrMalformedPayload))
	_, err = uc.Timeline(context.Background(), time.Time{})
	assert.Error(t, err)
}
