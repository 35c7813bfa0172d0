package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"PerfMap-App/internal/domain/geo"
	"PerfMap-App/internal/domain/model"
	"PerfMap-App/internal/domain/repository"
	"PerfMap-App/internal/domain/service"
)

// ProvinceDetail 省を選択したときの公演一覧
type ProvinceDetail struct {
	Province       string              `json:"province"`
	NormalizedName string              `json:"normalized_name"`
	Count          int                 `json:"count"`
	Performances   []model.Performance `json:"performances"`
}

// ArtistHistory アーティストの公演履歴（新しい順）
type ArtistHistory struct {
	Artist       string              `json:"artist"`
	Count        int                 `json:"count"`
	Provinces    []string            `json:"provinces"` // 公演のある省（正規化名、初出順）
	Performances []model.Performance `json:"performances"`
}

// CalendarView 月カレンダー
type CalendarView struct {
	Year  int                    `json:"year"`
	Month int                    `json:"month"`
	Label string                 `json:"label"`
	Cells []service.CalendarCell `json:"cells"`
}

// TimelineView 前後3週間のタイムライン
type TimelineView struct {
	Center        string            `json:"center"`
	Days          []service.DaySlot `json:"days"`
	UpcomingCount int               `json:"upcoming_count"`
}

type PerformanceUseCase interface {
	ProvinceDetail(ctx context.Context, province string) (*ProvinceDetail, error)
	ArtistHistory(ctx context.Context, artist string) (*ArtistHistory, error)
	Statistics(ctx context.Context) (*service.Statistics, error)
	Search(ctx context.Context, query string) (*service.SearchResults, error)
	// Calendar year か month がゼロ値なら今月
	Calendar(ctx context.Context, year int, month time.Month) (*CalendarView, error)
	// Timeline center がゼロ値なら今日を中心にする
	Timeline(ctx context.Context, center time.Time) (*TimelineView, error)
}

type performanceUseCaseImpl struct {
	performances repository.PerformanceRepository
	location     *time.Location
	now          func() time.Time
	logger       *logrus.Logger
}

// NewPerformanceUseCase now が nil なら time.Now を使う
func NewPerformanceUseCase(performances repository.PerformanceRepository, loc *time.Location, now func() time.Time, logger *logrus.Logger) PerformanceUseCase {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &performanceUseCaseImpl{
		performances: performances,
		location:     loc,
		now:          now,
		logger:       logger,
	}
}

func (u *performanceUseCaseImpl) load(ctx context.Context) ([]model.Performance, error) {
	records, err := u.performances.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("公演一覧の読み込みに失敗: %w", err)
	}
	return records, nil
}

func (u *performanceUseCaseImpl) ProvinceDetail(ctx context.Context, province string) (*ProvinceDetail, error) {
	records, err := u.load(ctx)
	if err != nil {
		return nil, err
	}

	normalized := geo.NormalizeProvinceName(province)
	performances := service.NewPerformanceIndex(records).ProvincePerformances(province)
	if performances == nil {
		performances = []model.Performance{}
	}

	return &ProvinceDetail{
		Province:       province,
		NormalizedName: normalized,
		Count:          len(performances),
		Performances:   performances,
	}, nil
}

func (u *performanceUseCaseImpl) ArtistHistory(ctx context.Context, artist string) (*ArtistHistory, error) {
	records, err := u.load(ctx)
	if err != nil {
		return nil, err
	}

	history := service.BuildArtistHistory(records, artist)

	provinces := []string{}
	seen := make(map[string]struct{})
	for _, performance := range history {
		name := geo.NormalizeProvinceName(performance.Province)
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		provinces = append(provinces, name)
	}

	return &ArtistHistory{
		Artist:       artist,
		Count:        len(history),
		Provinces:    provinces,
		Performances: history,
	}, nil
}

func (u *performanceUseCaseImpl) Statistics(ctx context.Context) (*service.Statistics, error) {
	records, err := u.load(ctx)
	if err != nil {
		return nil, err
	}
	return service.BuildStatistics(records), nil
}

func (u *performanceUseCaseImpl) Search(ctx context.Context, query string) (*service.SearchResults, error) {
	records, err := u.load(ctx)
	if err != nil {
		return nil, err
	}

	results := service.Search(records, query)
	u.logger.WithFields(logrus.Fields{
		"query":     query,
		"artists":   len(results.Artists),
		"venues":    len(results.Venues),
		"locations": len(results.Locations),
	}).Debug("🔍 検索")
	return results, nil
}

func (u *performanceUseCaseImpl) Calendar(ctx context.Context, year int, month time.Month) (*CalendarView, error) {
	records, err := u.load(ctx)
	if err != nil {
		return nil, err
	}

	if year == 0 || month == 0 {
		today := u.now().In(u.location)
		year, month = today.Year(), today.Month()
	}

	idx := service.NewPerformanceIndex(records)
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)

	return &CalendarView{
		Year:  year,
		Month: int(month),
		Label: service.MonthLabel(first),
		Cells: service.MonthGrid(year, month, idx),
	}, nil
}

func (u *performanceUseCaseImpl) Timeline(ctx context.Context, center time.Time) (*TimelineView, error) {
	records, err := u.load(ctx)
	if err != nil {
		return nil, err
	}

	today := model.CivilDate(u.now().In(u.location))
	if center.IsZero() {
		center = today
	}

	idx := service.NewPerformanceIndex(records)
	return &TimelineView{
		Center:        model.CivilDate(center).Format(model.DateKeyLayout),
		Days:          service.TimelineWindow(center, idx),
		UpcomingCount: service.UpcomingCount(today, records),
	}, nil
}
