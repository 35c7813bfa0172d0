package model

import "github.com/paulmach/orb"

// GeoFeature 行政区域ひとつ分の地図データ
type GeoFeature struct {
	Name     string       // properties.name（接尾辞付きの元の表記）
	Geometry orb.Geometry // orb.Polygon / orb.MultiPolygon、不正な場合は nil
}

// Viewport SVG描画の論理サイズ
type Viewport struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
}

// FillCategory 地域の塗り分け区分
type FillCategory string

const (
	FillArtistMatch     FillCategory = "artist-match"
	FillSelected        FillCategory = "selected"
	FillHasPerformances FillCategory = "has-performances"
	FillDefault         FillCategory = "default"
)

// Color 塗り分け区分に対応する色
func (c FillCategory) Color() string {
	switch c {
	case FillArtistMatch, FillSelected:
		return "#bf3737"
	case FillHasPerformances:
		return "#4c5563"
	default:
		return "#1f2938"
	}
}
