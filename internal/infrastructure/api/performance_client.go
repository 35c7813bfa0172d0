package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"PerfMap-App/internal/domain/model"
	"PerfMap-App/internal/domain/repository"
	"PerfMap-App/internal/metrics"
)

const (
	performancesPath = "/performances"
	performancesKey  = "perfmap:performances"
	sourceName       = "http"
)

// PerformanceClient 公演一覧REST APIのクライアント
type PerformanceClient struct {
	baseURL    string
	httpClient *http.Client
	location   *time.Location
	cache      repository.PayloadCache
	metrics    *metrics.Collector
	logger     *logrus.Logger
}

// NewPerformanceClient 新しいクライアントを生成する。cache と collector は nil でもよい
func NewPerformanceClient(baseURL string, timeout time.Duration, loc *time.Location, cache repository.PayloadCache, collector *metrics.Collector, logger *logrus.Logger) *PerformanceClient {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PerformanceClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		location:   loc,
		cache:      cache,
		metrics:    collector,
		logger:     logger,
	}
}

var _ repository.PerformanceRepository = (*PerformanceClient)(nil)

// FetchAll GET {base}/performances を取得して検証する
func (c *PerformanceClient) FetchAll(ctx context.Context) ([]model.Performance, error) {
	body, cached, err := c.fetchBody(ctx)
	if err != nil {
		return nil, err
	}

	performances, err := model.DecodePerformanceEnvelope(body, c.location)
	if err != nil {
		c.logger.WithError(err).Warn("⚠️ 公演一覧の形式が不正です")
		return nil, err
	}

	// 検証を通ったレスポンスだけをキャッシュする
	if c.cache != nil && !cached {
		if err := c.cache.Set(ctx, performancesKey, body); err != nil {
			c.logger.WithError(err).Warn("⚠️ キャッシュの書き込みに失敗")
		}
	}

	c.metrics.SetLoadedPerformances(len(performances))
	return performances, nil
}

func (c *PerformanceClient) fetchBody(ctx context.Context) ([]byte, bool, error) {
	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, performancesKey)
		if err != nil {
			// キャッシュ障害時は上流から取得する
			c.logger.WithError(err).Warn("⚠️ キャッシュの読み込みに失敗")
		} else if ok {
			c.metrics.RecordCacheHit()
			return cached, true, nil
		} else {
			c.metrics.RecordCacheMiss()
		}
	}

	start := time.Now()
	body, err := c.get(ctx)
	c.metrics.RecordFetch(sourceName, err, time.Since(start))
	if err != nil {
		c.logger.WithError(err).WithField("url", c.baseURL+performancesPath).Error("❌ 公演一覧の取得に失敗")
		return nil, false, err
	}
	return body, false, nil
}

func (c *PerformanceClient) get(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+performancesPath, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: リクエストの作成に失敗: %v", model.ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: APIリクエストに失敗: %v", model.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: APIからエラーステータスが返されました: %s", model.ErrFetchFailed, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: レスポンスの読み込みに失敗: %v", model.ErrFetchFailed, err)
	}
	return body, nil
}
