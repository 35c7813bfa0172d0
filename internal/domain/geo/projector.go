package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/paulmach/orb"

	"PerfMap-App/internal/domain/model"
)

// DefaultViewport 中国地図の論理ビューポート (800x600, 余白40)
var DefaultViewport = model.Viewport{Width: 800, Height: 600, Padding: 40}

// ComputeBounds 全地域の全リングの座標から境界を求める
// 地域が空の場合は +Inf/-Inf の番兵値を返すので、呼び出し側で BoundsValid を確認すること
func ComputeBounds(features []model.GeoFeature) orb.Bound {
	bound := emptyBound()
	for _, feature := range features {
		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			bound = extendByPolygon(bound, g)
		case orb.MultiPolygon:
			for _, polygon := range g {
				bound = extendByPolygon(bound, polygon)
			}
		}
	}
	return bound
}

// BoundsValid 境界が有限かつ min <= max を満たすか
func BoundsValid(b orb.Bound) bool {
	for _, v := range []float64{b.Min[0], b.Min[1], b.Max[0], b.Max[1]} {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1]
}

func emptyBound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{math.Inf(1), math.Inf(1)},
		Max: orb.Point{math.Inf(-1), math.Inf(-1)},
	}
}

func extendByPolygon(b orb.Bound, polygon orb.Polygon) orb.Bound {
	for _, ring := range polygon {
		for _, point := range ring {
			b = b.Extend(point)
		}
	}
	return b
}

// Projector 経緯度をビューポート上のSVG座標に投影する
type Projector struct {
	viewport model.Viewport
}

// NewProjector 新しいProjectorを作成
func NewProjector(viewport model.Viewport) *Projector {
	return &Projector{viewport: viewport}
}

// Viewport 投影先のビューポート
func (p *Projector) Viewport() model.Viewport {
	return p.viewport
}

// Scale X/Y 両軸のうち小さい方の縮尺（縦横比を保ったまま必ず収まる）
// 幅も高さも0の境界では0を返す
func (p *Projector) Scale(b orb.Bound) float64 {
	scaleX := (p.viewport.Width - 2*p.viewport.Padding) / (b.Max[0] - b.Min[0])
	scaleY := (p.viewport.Height - 2*p.viewport.Padding) / (b.Max[1] - b.Min[1])
	scale := math.Min(scaleX, scaleY)
	if math.IsInf(scale, 0) || math.IsNaN(scale) {
		return 0
	}
	return scale
}

// ProjectPoint 座標を投影する。緯度は北向き、画面Yは下向きなのでYを反転する
func (p *Projector) ProjectPoint(point orb.Point, b orb.Bound) (float64, float64) {
	return p.project(point, b, p.Scale(b))
}

func (p *Projector) project(point orb.Point, b orb.Bound, scale float64) (float64, float64) {
	x := p.viewport.Padding + (point.X()-b.Min.X())*scale
	y := p.viewport.Height - (p.viewport.Padding + (point.Y()-b.Min.Y())*scale)
	return x, y
}

// GeneratePath ジオメトリをSVGのpathデータに変換する
// Polygonは外周リングのみ描画する（穴は未対応）。
// 座標が欠けているなど不正なジオメトリは空文字を返し、他の地域の描画を妨げない
func (p *Projector) GeneratePath(geometry orb.Geometry, b orb.Bound) string {
	scale := p.Scale(b)

	switch g := geometry.(type) {
	case orb.Polygon:
		path, ok := p.outerRingPath(g, b, scale)
		if !ok {
			return ""
		}
		return path
	case orb.MultiPolygon:
		var sb strings.Builder
		for _, polygon := range g {
			path, ok := p.outerRingPath(polygon, b, scale)
			if !ok {
				return ""
			}
			sb.WriteString(path)
			sb.WriteByte(' ')
		}
		return strings.TrimSpace(sb.String())
	default:
		return ""
	}
}

func (p *Projector) outerRingPath(polygon orb.Polygon, b orb.Bound, scale float64) (string, bool) {
	if len(polygon) == 0 || len(polygon[0]) == 0 {
		return "", false
	}

	var sb strings.Builder
	for i, point := range polygon[0] {
		x, y := p.project(point, b, scale)
		if i == 0 {
			sb.WriteByte('M')
		} else {
			sb.WriteString(" L")
		}
		sb.WriteString(formatCoord(x))
		sb.WriteByte(',')
		sb.WriteString(formatCoord(y))
	}
	sb.WriteByte('Z')
	return sb.String(), true
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
