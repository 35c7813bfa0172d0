package geo

import (
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PerfMap-App/internal/domain/model"
)

const tolerance = 1e-9

func square(minX, minY, maxX, maxY float64) orb.Polygon {
	return orb.Polygon{orb.Ring{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY},
	}}
}

func testFeatures() []model.GeoFeature {
	return []model.GeoFeature{
		{Name: "四川省", Geometry: square(100, 26, 108, 34)},
		{Name: "海南省", Geometry: orb.MultiPolygon{
			square(108, 18, 111, 20),
			square(112, 16, 113, 17),
		}},
	}
}

func TestComputeBounds(t *testing.T) {
	b := ComputeBounds(testFeatures())
	assert.Equal(t, orb.Point{100, 16}, b.Min)
	assert.Equal(t, orb.Point{113, 34}, b.Max)
	assert.True(t, BoundsValid(b))

	t.Run("穴のリングも走査する", func(t *testing.T) {
		polygon := orb.Polygon{
			orb.Ring{{0, 0}, {1, 0}, {1, 1}},
			orb.Ring{{-5, -5}, {-4, -5}, {-4, -4}},
		}
		b := ComputeBounds([]model.GeoFeature{{Name: "x", Geometry: polygon}})
		assert.Equal(t, orb.Point{-5, -5}, b.Min)
	})

	t.Run("空の入力は番兵値", func(t *testing.T) {
		b := ComputeBounds(nil)
		assert.True(t, math.IsInf(b.Min[0], 1))
		assert.True(t, math.IsInf(b.Max[1], -1))
		assert.False(t, BoundsValid(b))
	})

	t.Run("不正なジオメトリは無視する", func(t *testing.T) {
		features := append(testFeatures(), model.GeoFeature{Name: "壊れた地域"})
		assert.Equal(t, ComputeBounds(testFeatures()), ComputeBounds(features))
	})
}

func TestProjectPoint(t *testing.T) {
	p := NewProjector(DefaultViewport)
	b := orb.Bound{Min: orb.Point{100, 20}, Max: orb.Point{120, 30}}

	// scaleX = 720/20 = 36, scaleY = 520/10 = 52 -> 36
	assert.InDelta(t, 36.0, p.Scale(b), tolerance)

	x, y := p.ProjectPoint(orb.Point{100, 20}, b)
	assert.InDelta(t, 40.0, x, tolerance)
	assert.InDelta(t, 560.0, y, tolerance)

	x, y = p.ProjectPoint(orb.Point{120, 30}, b)
	assert.InDelta(t, 760.0, x, tolerance)
	assert.InDelta(t, 200.0, y, tolerance)
}

func TestProjectPointStaysInsideViewport(t *testing.T) {
	p := NewProjector(DefaultViewport)
	vp := DefaultViewport
	features := testFeatures()
	b := ComputeBounds(features)

	for _, feature := range features {
		var polygons []orb.Polygon
		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			polygons = append(polygons, g)
		case orb.MultiPolygon:
			polygons = append(polygons, g...)
		}
		for _, polygon := range polygons {
			for _, point := range polygon[0] {
				x, y := p.ProjectPoint(point, b)
				assert.GreaterOrEqual(t, x, vp.Padding-tolerance)
				assert.LessOrEqual(t, x, vp.Width-vp.Padding+tolerance)
				assert.GreaterOrEqual(t, y, vp.Padding-tolerance)
				assert.LessOrEqual(t, y, vp.Height-vp.Padding+tolerance)
			}
		}
	}
}

func TestProjectionPreservesAspectRatio(t *testing.T) {
	p := NewProjector(DefaultViewport)
	b := orb.Bound{Min: orb.Point{73, 18}, Max: orb.Point{135, 53}}

	x0, y0 := p.ProjectPoint(b.Min, b)
	x1, y1 := p.ProjectPoint(b.Max, b)

	projectedRatio := (x1 - x0) / (y0 - y1)
	geoRatio := (b.Max[0] - b.Min[0]) / (b.Max[1] - b.Min[1])
	assert.InDelta(t, geoRatio, projectedRatio, 1e-9)
}

func TestScaleDegenerateBounds(t *testing.T) {
	p := NewProjector(DefaultViewport)

	point := orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{1, 1}}
	assert.Equal(t, 0.0, p.Scale(point))
	x, y := p.ProjectPoint(orb.Point{1, 1}, point)
	assert.Equal(t, 40.0, x)
	assert.Equal(t, 560.0, y)

	// 縦線だけの境界はY方向の縮尺を使う
	line := orb.Bound{Min: orb.Point{1, 0}, Max: orb.Point{1, 10}}
	assert.InDelta(t, 52.0, p.Scale(line), tolerance)
}

func TestGeneratePath(t *testing.T) {
	p := NewProjector(DefaultViewport)
	b := orb.Bound{Min: orb.Point{0, 0}, Max: orb.Point{10, 10}}

	t.Run("Polygon", func(t *testing.T) {
		// scale = min(72, 52) = 52
		path := p.GeneratePath(orb.Polygon{orb.Ring{{0, 0}, {10, 0}, {10, 10}}}, b)
		assert.Equal(t, "M40,560 L560,560 L560,40Z", path)
	})

	t.Run("Polygonは外周のみ", func(t *testing.T) {
		polygon := orb.Polygon{
			orb.Ring{{0, 0}, {10, 0}, {10, 10}},
			orb.Ring{{2, 2}, {3, 2}, {3, 3}},
		}
		path := p.GeneratePath(polygon, b)
		assert.Equal(t, 1, strings.Count(path, "M"))
	})

	t.Run("MultiPolygon", func(t *testing.T) {
		multi := orb.MultiPolygon{
			{orb.Ring{{0, 0}, {10, 0}, {10, 10}}},
			{orb.Ring{{5, 5}, {10, 5}, {10, 10}}},
		}
		path := p.GeneratePath(multi, b)
		assert.Equal(t, "M40,560 L560,560 L560,40Z M300,300 L560,300 L560,40Z", path)
		assert.Equal(t, 2, strings.Count(path, "M"))
		assert.Equal(t, 2, strings.Count(path, "Z"))
	})

	t.Run("全ての地域のパスはMで始まりZで終わる", func(t *testing.T) {
		features := testFeatures()
		bounds := ComputeBounds(features)
		for _, feature := range features {
			path := p.GeneratePath(feature.Geometry, bounds)
			require.NotEmpty(t, path)
			assert.True(t, strings.HasPrefix(path, "M"), path)
			assert.True(t, strings.HasSuffix(path, "Z"), path)
		}
	})

	t.Run("不正なジオメトリは空文字", func(t *testing.T) {
		assert.Equal(t, "", p.GeneratePath(nil, b))
		assert.Equal(t, "", p.GeneratePath(orb.Polygon{}, b))
		assert.Equal(t, "", p.GeneratePath(orb.Polygon{orb.Ring{}}, b))
		assert.Equal(t, "", p.GeneratePath(orb.MultiPolygon{{orb.Ring{{0, 0}}}, {}}, b))
		assert.Equal(t, "", p.GeneratePath(orb.Point{1, 2}, b))
		assert.Equal(t, "", p.GeneratePath(orb.MultiPolygon{}, b))
	})
}

func TestNormalizeProvinceName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"四川省", "四川"},
		{"新疆维吾尔自治区", "新疆"},
		{"广西壮族自治区", "广西"},
		{"宁夏回族自治区", "宁夏"},
		{"内蒙古自治区", "内蒙古"},
		{"香港特别行政区", "香港"},
		{"北京市", "北京"},
		{"  上海 ", "上海"},
		{"四川", "四川"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := NormalizeProvinceName(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeProvinceName(got), "正規化は冪等であること")
		})
	}

	// 除去によって新たに接尾辞が現れる入力でも冪等
	tricky := "自治省区"
	once := NormalizeProvinceName(tricky)
	assert.Equal(t, once, NormalizeProvinceName(once))
}
