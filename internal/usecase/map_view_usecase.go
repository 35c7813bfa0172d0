package usecase

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"PerfMap-App/internal/domain/geo"
	"PerfMap-App/internal/domain/model"
	"PerfMap-App/internal/domain/repository"
	"PerfMap-App/internal/domain/service"
)

// MapFeatureView 描画する地域ひとつ分
type MapFeatureView struct {
	Name             string             `json:"name"`
	NormalizedName   string             `json:"normalized_name"`
	Path             string             `json:"path"`
	Fill             model.FillCategory `json:"fill"`
	Color            string             `json:"color"`
	PerformanceCount int                `json:"performance_count"`
}

// MapView 地図画面の描画データ
type MapView struct {
	Viewport          model.Viewport   `json:"viewport"`
	Features          []MapFeatureView `json:"features"`
	TotalPerformances int              `json:"total_performances"`
	SelectedProvince  string           `json:"selected_province,omitempty"`
	FocusedArtist     string           `json:"focused_artist,omitempty"`
}

type MapViewUseCase interface {
	// Build 地図と公演一覧を並行して取得し、地域ごとのパスと塗り分けを組み立てる
	Build(ctx context.Context, in service.HighlightInput) (*MapView, error)
}

type mapViewUseCaseImpl struct {
	maps         repository.MapRepository
	performances repository.PerformanceRepository
	projector    *geo.Projector
	logger       *logrus.Logger
}

func NewMapViewUseCase(maps repository.MapRepository, performances repository.PerformanceRepository, projector *geo.Projector, logger *logrus.Logger) MapViewUseCase {
	if projector == nil {
		projector = geo.NewProjector(geo.DefaultViewport)
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &mapViewUseCaseImpl{
		maps:         maps,
		performances: performances,
		projector:    projector,
		logger:       logger,
	}
}

func (u *mapViewUseCaseImpl) Build(ctx context.Context, in service.HighlightInput) (*MapView, error) {
	var (
		features []model.GeoFeature
		records  []model.Performance
	)

	// どちらかが失敗したら画面全体を失敗にする
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		features, err = u.maps.LoadFeatures(gctx)
		if err != nil {
			return fmt.Errorf("地図データの読み込みに失敗: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		records, err = u.performances.FetchAll(gctx)
		if err != nil {
			return fmt.Errorf("公演一覧の読み込みに失敗: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(features) == 0 {
		return nil, model.ErrEmptyMap
	}

	idx := service.NewPerformanceIndex(records)
	bounds := geo.ComputeBounds(features)
	if !geo.BoundsValid(bounds) {
		u.logger.Warn("⚠️ 有効な座標を持つ地域がありません")
	}

	views := make([]MapFeatureView, 0, len(features))
	for _, feature := range features {
		normalized := geo.NormalizeProvinceName(feature.Name)
		fill := service.ResolveFill(normalized, idx, in)

		path := ""
		if geo.BoundsValid(bounds) {
			path = u.projector.GeneratePath(feature.Geometry, bounds)
		}
		if path == "" {
			u.logger.WithField("province", feature.Name).Debug("形状なし")
		}

		views = append(views, MapFeatureView{
			Name:             feature.Name,
			NormalizedName:   normalized,
			Path:             path,
			Fill:             fill,
			Color:            fill.Color(),
			PerformanceCount: len(idx.ByProvince[normalized]),
		})
	}

	u.logger.WithFields(logrus.Fields{
		"features":     len(views),
		"performances": len(records),
	}).Info("🗺️ 地図ビューを生成しました")

	return &MapView{
		Viewport:          u.projector.Viewport(),
		Features:          views,
		TotalPerformances: len(records),
		SelectedProvince:  in.SelectedProvince,
		FocusedArtist:     in.FocusedArtist,
	}, nil
}

// RenderSVG 地図ビューをSVG文書にする。パスが空の地域は描かない
func RenderSVG(view *MapView) []byte {
	var b strings.Builder

	vp := view.Viewport
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %g %g" width="%g" height="%g">`,
		vp.Width, vp.Height, vp.Width, vp.Height)
	b.WriteString("\n")

	for _, feature := range view.Features {
		if feature.Path == "" {
			continue
		}
		fmt.Fprintf(&b, `<path d="%s" fill="%s" stroke="#6b7280" stroke-width="0.5" data-name="%s" data-fill="%s"><title>%s (%d)</title></path>`,
			feature.Path,
			feature.Color,
			html.EscapeString(feature.NormalizedName),
			feature.Fill,
			html.EscapeString(feature.Name),
			feature.PerformanceCount,
		)
		b.WriteString("\n")
	}

	b.WriteString("</svg>\n")
	return []byte(b.String())
}
