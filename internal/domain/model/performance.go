package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Performance 公演レコード（取得後は変更しない）
type Performance struct {
	Artist    string     `json:"artist"`               // アーティスト名
	Province  string     `json:"province"`             // 省（取得元の表記のまま）
	City      string     `json:"city"`                 // 都市
	Venue     string     `json:"venue"`                // 会場
	Date      time.Time  `json:"date"`                 // 公演日（UTC 0時の暦日）
	Notes     string     `json:"notes,omitempty"`      // 備考
	Poster    string     `json:"poster,omitempty"`     // ポスター画像のパス
	CreatedAt *time.Time `json:"created_at,omitempty"` // 登録日時（表示専用）
}

// DateKey 公演日を YYYY-MM-DD 形式で返す
func (p Performance) DateKey() string {
	return p.Date.Format(DateKeyLayout)
}

// DateKeyLayout 日付キーのレイアウト
const DateKeyLayout = "2006-01-02"

// PerformanceDTO 取得元から受け取る生の公演レコード
type PerformanceDTO struct {
	Artist    string  `json:"artist" validate:"required"`
	Province  string  `json:"province" validate:"required"`
	City      string  `json:"city"`
	Venue     string  `json:"venue"`
	Date      string  `json:"date" validate:"required"`
	Notes     *string `json:"notes"`
	Poster    *string `json:"poster"`
	CreatedAt *string `json:"created_at"`
}

// PerformanceEnvelope 公演一覧APIのレスポンス {success, data}
type PerformanceEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

var validate = validator.New()

// DecodePerformanceEnvelope レスポンスボディを検証して公演レコードに変換する
func DecodePerformanceEnvelope(body []byte, loc *time.Location) ([]Performance, error) {
	var envelope PerformanceEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: JSONのパースに失敗: %v", ErrMalformedPayload, err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("%w: success=false", ErrMalformedPayload)
	}

	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || data[0] != '[' {
		return nil, fmt.Errorf("%w: dataが配列ではありません", ErrMalformedPayload)
	}

	var dtos []PerformanceDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("%w: レコードのパースに失敗: %v", ErrMalformedPayload, err)
	}

	return ToPerformances(dtos, loc)
}

// ToPerformances DTOを検証し、日付を暦日に変換する
func ToPerformances(dtos []PerformanceDTO, loc *time.Location) ([]Performance, error) {
	if loc == nil {
		loc = time.UTC
	}

	performances := make([]Performance, 0, len(dtos))
	for i, dto := range dtos {
		dto.Artist = strings.TrimSpace(dto.Artist)
		dto.Province = strings.TrimSpace(dto.Province)
		dto.Date = strings.TrimSpace(dto.Date)

		if err := validate.Struct(dto); err != nil {
			return nil, fmt.Errorf("%w: レコード%dの検証失敗: %v", ErrMalformedPayload, i, err)
		}

		date, err := ParseCivilDate(dto.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: レコード%dの日付が不正: %v", ErrMalformedPayload, i, err)
		}

		performance := Performance{
			Artist:   dto.Artist,
			Province: dto.Province,
			City:     strings.TrimSpace(dto.City),
			Venue:    strings.TrimSpace(dto.Venue),
			Date:     date,
		}
		if dto.Notes != nil {
			performance.Notes = *dto.Notes
		}
		if dto.Poster != nil {
			performance.Poster = *dto.Poster
		}
		if dto.CreatedAt != nil && strings.TrimSpace(*dto.CreatedAt) != "" {
			createdAt, err := ParseTimestamp(*dto.CreatedAt, loc)
			if err != nil {
				return nil, fmt.Errorf("%w: レコード%dのcreated_atが不正: %v", ErrMalformedPayload, i, err)
			}
			performance.CreatedAt = &createdAt
		}

		performances = append(performances, performance)
	}

	return performances, nil
}
