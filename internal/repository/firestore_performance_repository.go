package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/iterator"

	"PerfMap-App/internal/domain/model"
	"PerfMap-App/internal/domain/repository"
	"PerfMap-App/internal/metrics"
)

// FirestorePerformanceRepository performances コレクションを読む
type FirestorePerformanceRepository struct {
	client   *firestore.Client
	location *time.Location
	metrics  *metrics.Collector
	logger   *logrus.Logger
}

func NewFirestorePerformanceRepository(client *firestore.Client, loc *time.Location, collector *metrics.Collector, logger *logrus.Logger) repository.PerformanceRepository {
	return &FirestorePerformanceRepository{
		client:   client,
		location: loc,
		metrics:  collector,
		logger:   orStandard(logger),
	}
}

func (r *FirestorePerformanceRepository) FetchAll(ctx context.Context) ([]model.Performance, error) {
	start := time.Now()
	dtos, err := r.documents(ctx)
	r.metrics.RecordFetch("firestore", err, time.Since(start))
	if err != nil {
		r.logger.WithError(err).Error("❌ Firestoreから公演一覧の取得に失敗")
		return nil, err
	}

	r.logger.WithField("count", len(dtos)).Debug("✅ Firestoreから公演一覧を取得")
	return model.ToPerformances(dtos, r.location)
}

func (r *FirestorePerformanceRepository) documents(ctx context.Context) ([]model.PerformanceDTO, error) {
	iter := r.client.Collection(performancesTable).Documents(ctx)
	defer iter.Stop()

	var dtos []model.PerformanceDTO
	for {
		doc, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: 公演ドキュメントの取得に失敗: %v", model.ErrFetchFailed, err)
		}
		dtos = append(dtos, DocumentToDTO(doc.Data()))
	}
	return dtos, nil
}

// DocumentToDTO Firestoreのドキュメントを検証前のDTOに変換する
// 日付は文字列でもタイムスタンプでもよい
func DocumentToDTO(data map[string]interface{}) model.PerformanceDTO {
	dto := model.PerformanceDTO{
		Artist:   stringField(data, "artist"),
		Province: stringField(data, "province"),
		City:     stringField(data, "city"),
		Venue:    stringField(data, "venue"),
		Date:     timeField(data, "date"),
	}
	if v, ok := data["notes"].(string); ok {
		dto.Notes = &v
	}
	if v, ok := data["poster"].(string); ok {
		dto.Poster = &v
	}
	if v := timeField(data, "created_at"); v != "" {
		dto.CreatedAt = &v
	}
	return dto
}

func stringField(data map[string]interface{}, key string) string {
	v, _ := data[key].(string)
	return v
}

func timeField(data map[string]interface{}, key string) string {
	switch v := data[key].(type) {
	case string:
		return v
	case time.Time:
		return v.Format(time.RFC3339Nano)
	default:
		return ""
	}
}
