package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"PerfMap-App/internal/database"
	"PerfMap-App/internal/domain/model"
	"PerfMap-App/internal/domain/repository"
	"PerfMap-App/internal/metrics"
)

// performancesTable 公演テーブル／コレクション名
const performancesTable = "performances"

type SupabasePerformanceRepository struct {
	client   *database.SupabaseClient
	location *time.Location
	metrics  *metrics.Collector
	logger   *logrus.Logger
}

func NewSupabasePerformanceRepository(client *database.SupabaseClient, loc *time.Location, collector *metrics.Collector, logger *logrus.Logger) repository.PerformanceRepository {
	return &SupabasePerformanceRepository{
		client:   client,
		location: loc,
		metrics:  collector,
		logger:   orStandard(logger),
	}
}

func (r *SupabasePerformanceRepository) FetchAll(ctx context.Context) ([]model.Performance, error) {
	start := time.Now()
	data, _, err := r.client.GetClient().From(performancesTable).Select("*", "exact", false).Execute()
	r.metrics.RecordFetch("supabase", err, time.Since(start))
	if err != nil {
		r.logger.WithError(err).Error("❌ Supabaseから公演一覧の取得に失敗")
		return nil, fmt.Errorf("%w: 公演データの取得失敗: %v", model.ErrFetchFailed, err)
	}

	return decodePerformanceRows(data, r.location)
}

// decodePerformanceRows PostgRESTのJSON配列を公演に変換する
func decodePerformanceRows(data []byte, loc *time.Location) ([]model.Performance, error) {
	var dtos []model.PerformanceDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("%w: 公演データのJSONアンマーシャル失敗: %v", model.ErrMalformedPayload, err)
	}
	return model.ToPerformances(dtos, loc)
}

func orStandard(logger *logrus.Logger) *logrus.Logger {
	if logger == nil {
		return logrus.StandardLogger()
	}
	return logger
}
