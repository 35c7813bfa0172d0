package mapdata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"PerfMap-App/internal/domain/model"
)

type rawFeatureCollection struct {
	Type     string       `json:"type"`
	Features []rawFeature `json:"features"`
}

type rawFeature struct {
	Properties map[string]any  `json:"properties"`
	Geometry   json.RawMessage `json:"geometry"`
}

// DecodeFeatureCollection GeoJSONのFeatureCollectionを地域一覧に変換する
// 形状を読めない地域は Geometry=nil のまま残し、その件数を malformed で返す
func DecodeFeatureCollection(data []byte) ([]model.GeoFeature, int, error) {
	var collection rawFeatureCollection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, 0, fmt.Errorf("%w: GeoJSONのパースに失敗: %v", model.ErrMalformedPayload, err)
	}
	if !strings.EqualFold(collection.Type, "FeatureCollection") {
		return nil, 0, fmt.Errorf("%w: FeatureCollectionではありません: %q", model.ErrMalformedPayload, collection.Type)
	}

	features := make([]model.GeoFeature, 0, len(collection.Features))
	malformed := 0
	for _, raw := range collection.Features {
		geometry := decodeGeometry(raw.Geometry)
		if geometry == nil {
			malformed++
		}
		features = append(features, model.GeoFeature{
			Name:     featureName(raw.Properties),
			Geometry: geometry,
		})
	}

	return features, malformed, nil
}

func featureName(properties map[string]any) string {
	name, _ := properties["name"].(string)
	return name
}

// decodeGeometry Polygon / MultiPolygon 以外と読めない座標は nil
func decodeGeometry(data json.RawMessage) orb.Geometry {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if !validCoordinates(data) {
		return nil
	}

	g, err := geojson.UnmarshalGeometry(data)
	if err != nil || g == nil {
		return nil
	}

	switch geometry := g.Geometry().(type) {
	case orb.Polygon:
		if geometry == nil {
			return nil
		}
		return geometry
	case orb.MultiPolygon:
		if geometry == nil {
			return nil
		}
		return geometry
	default:
		return nil
	}
}

type rawGeometry struct {
	Type        string `json:"type"`
	Coordinates any    `json:"coordinates"`
}

// validCoordinates orb は欠けた緯度を 0 で埋めるため、先に座標配列を検査する
func validCoordinates(data json.RawMessage) bool {
	var raw rawGeometry
	if err := json.Unmarshal(data, &raw); err != nil {
		return false
	}

	switch raw.Type {
	case "Polygon":
		return validNesting(raw.Coordinates, 2)
	case "MultiPolygon":
		return validNesting(raw.Coordinates, 3)
	default:
		// 対象外の型は後段で nil になる
		return true
	}
}

// validNesting depth 段の配列の末端がすべて有効な位置であること
func validNesting(value any, depth int) bool {
	if depth == 0 {
		return validPosition(value)
	}
	items, ok := value.([]any)
	if !ok {
		return false
	}
	for _, item := range items {
		if !validNesting(item, depth-1) {
			return false
		}
	}
	return true
}

// validPosition 少なくとも経度・緯度の2つの有限な数値を持つ
func validPosition(value any) bool {
	position, ok := value.([]any)
	if !ok || len(position) < 2 {
		return false
	}
	for _, coordinate := range position[:2] {
		number, ok := coordinate.(float64)
		if !ok || math.IsNaN(number) || math.IsInf(number, 0) {
			return false
		}
	}
	return true
}
