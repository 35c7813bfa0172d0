package repository

import (
	"context"

	"PerfMap-App/internal/domain/model"
)

// PerformanceRepository 公演一覧の読み取り専用ソース
type PerformanceRepository interface {
	// FetchAll 全公演を取得順で返す。取得失敗は model.ErrFetchFailed、形式不正は model.ErrMalformedPayload
	FetchAll(ctx context.Context) ([]model.Performance, error)
}

// MapRepository 省境界の地図データのソース
type MapRepository interface {
	LoadFeatures(ctx context.Context) ([]model.GeoFeature, error)
}

// PayloadCache 取得したレスポンスボディのキャッシュ
type PayloadCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}
