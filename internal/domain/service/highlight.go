package service

import (
	"PerfMap-App/internal/domain/geo"
	"PerfMap-App/internal/domain/model"
)

// HighlightInput 描画時にプレゼンテーション側から渡される選択状態
type HighlightInput struct {
	SelectedProvince string // ユーザーが選んだ省（正規化前でも可）
	FocusedArtist    string // 注目中のアーティスト
}

// ResolveFill 地域の塗り分け区分を決める
// 優先順位: アーティスト一致 > 選択中 > 公演あり > デフォルト
func ResolveFill(normalizedProvince string, idx *PerformanceIndex, in HighlightInput) model.FillCategory {
	if idx.HasArtistIn(normalizedProvince, in.FocusedArtist) {
		return model.FillArtistMatch
	}
	if in.SelectedProvince != "" && geo.NormalizeProvinceName(in.SelectedProvince) == normalizedProvince {
		return model.FillSelected
	}
	if len(idx.ByProvince[normalizedProvince]) > 0 {
		return model.FillHasPerformances
	}
	return model.FillDefault
}
