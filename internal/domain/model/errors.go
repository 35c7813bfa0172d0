package model

import "errors"

var (
	// ErrFetchFailed ネットワークエラーまたは非2xxステータス
	ErrFetchFailed = errors.New("データの取得に失敗しました")

	// ErrMalformedPayload レスポンスが {success, data[]} の形式を満たさない
	ErrMalformedPayload = errors.New("データの形式が不正です")

	// ErrEmptyMap 地図データに地域が1件もない
	ErrEmptyMap = errors.New("地図データに地域が含まれていません")
)
