package mapdata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"PerfMap-App/internal/domain/model"
	"PerfMap-App/internal/domain/repository"
	"PerfMap-App/internal/metrics"
)

// FileMapRepository ローカルのGeoJSONファイルから地図を読む
type FileMapRepository struct {
	path    string
	metrics *metrics.Collector
	logger  *logrus.Logger
}

func NewFileMapRepository(path string, collector *metrics.Collector, logger *logrus.Logger) repository.MapRepository {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &FileMapRepository{path: path, metrics: collector, logger: logger}
}

func (r *FileMapRepository) LoadFeatures(ctx context.Context) ([]model.GeoFeature, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrFetchFailed, err)
	}

	start := time.Now()
	data, err := os.ReadFile(r.path)
	r.metrics.RecordFetch("map_file", err, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("%w: 地図ファイルの読み込みに失敗: %v", model.ErrFetchFailed, err)
	}

	return decodeAndReport(data, r.path, r.metrics, r.logger)
}

// HTTPMapRepository URLからGeoJSONを取得する
type HTTPMapRepository struct {
	url        string
	httpClient *http.Client
	metrics    *metrics.Collector
	logger     *logrus.Logger
}

func NewHTTPMapRepository(url string, timeout time.Duration, collector *metrics.Collector, logger *logrus.Logger) repository.MapRepository {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &HTTPMapRepository{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		metrics:    collector,
		logger:     logger,
	}
}

func (r *HTTPMapRepository) LoadFeatures(ctx context.Context) ([]model.GeoFeature, error) {
	start := time.Now()
	data, err := r.get(ctx)
	r.metrics.RecordFetch("map_http", err, time.Since(start))
	if err != nil {
		r.logger.WithError(err).WithField("url", r.url).Error("❌ 地図データの取得に失敗")
		return nil, err
	}

	return decodeAndReport(data, r.url, r.metrics, r.logger)
}

func (r *HTTPMapRepository) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: リクエストの作成に失敗: %v", model.ErrFetchFailed, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: 地図データのリクエストに失敗: %v", model.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: エラーステータスが返されました: %s", model.ErrFetchFailed, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: レスポンスの読み込みに失敗: %v", model.ErrFetchFailed, err)
	}
	return data, nil
}

func decodeAndReport(data []byte, origin string, collector *metrics.Collector, logger *logrus.Logger) ([]model.GeoFeature, error) {
	features, malformed, err := DecodeFeatureCollection(data)
	if err != nil {
		logger.WithError(err).WithField("origin", origin).Warn("⚠️ 地図データの形式が不正です")
		return nil, err
	}

	if malformed > 0 {
		collector.RecordMalformedFeatures(malformed)
		logger.WithFields(logrus.Fields{
			"origin":    origin,
			"malformed": malformed,
		}).Warn("⚠️ 形状を読めない地域があります（空のパスで描画）")
	}

	logger.WithField("features", len(features)).Debug("🗺️ 地図データを読み込みました")
	return features, nil
}
