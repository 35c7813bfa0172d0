package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"PerfMap-App/internal/domain/model"
	"PerfMap-App/internal/domain/repository"
	"PerfMap-App/internal/infrastructure/database"
	"PerfMap-App/internal/metrics"
)

type PostgresPerformanceRepository struct {
	client   *database.PostgreSQLClient
	location *time.Location
	metrics  *metrics.Collector
	logger   *logrus.Logger
}

func NewPostgresPerformanceRepository(client *database.PostgreSQLClient, loc *time.Location, collector *metrics.Collector, logger *logrus.Logger) repository.PerformanceRepository {
	return &PostgresPerformanceRepository{
		client:   client,
		location: loc,
		metrics:  collector,
		logger:   orStandard(logger),
	}
}

// PerformanceRow performances テーブルの1行
type PerformanceRow struct {
	Artist    string
	Province  string
	City      sql.NullString
	Venue     sql.NullString
	Date      string
	Notes     sql.NullString
	Poster    sql.NullString
	CreatedAt sql.NullString
}

// ToDTO 検証前のDTOに変換
func (pr *PerformanceRow) ToDTO() model.PerformanceDTO {
	dto := model.PerformanceDTO{
		Artist:   pr.Artist,
		Province: pr.Province,
		City:     pr.City.String,
		Venue:    pr.Venue.String,
		Date:     pr.Date,
	}
	if pr.Notes.Valid {
		dto.Notes = &pr.Notes.String
	}
	if pr.Poster.Valid {
		dto.Poster = &pr.Poster.String
	}
	if pr.CreatedAt.Valid {
		dto.CreatedAt = &pr.CreatedAt.String
	}
	return dto
}

const selectPerformancesQuery = `SELECT artist, province, city, venue, date::text, notes, poster, created_at::text
FROM performances
ORDER BY date, created_at`

func (r *PostgresPerformanceRepository) FetchAll(ctx context.Context) ([]model.Performance, error) {
	start := time.Now()
	dtos, err := r.query(ctx)
	r.metrics.RecordFetch("postgres", err, time.Since(start))
	if err != nil {
		r.logger.WithError(err).Error("❌ PostgreSQLから公演一覧の取得に失敗")
		return nil, err
	}

	return model.ToPerformances(dtos, r.location)
}

func (r *PostgresPerformanceRepository) query(ctx context.Context) ([]model.PerformanceDTO, error) {
	rows, err := r.client.DB.QueryContext(ctx, selectPerformancesQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: 公演データの取得失敗: %v", model.ErrFetchFailed, err)
	}
	defer rows.Close()

	var dtos []model.PerformanceDTO
	for rows.Next() {
		var row PerformanceRow
		err := rows.Scan(&row.Artist, &row.Province, &row.City, &row.Venue,
			&row.Date, &row.Notes, &row.Poster, &row.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: 公演データスキャンエラー: %v", model.ErrMalformedPayload, err)
		}
		dtos = append(dtos, row.ToDTO())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: 公演データの読み込み中にエラー: %v", model.ErrFetchFailed, err)
	}

	return dtos, nil
}
