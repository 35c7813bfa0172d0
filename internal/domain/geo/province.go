package geo

import "strings"

// 省名から取り除く行政区分の表記
var provinceQualifiers = []string{
	"特别行政区",
	"自治区",
	"维吾尔",
	"回族",
	"壮族",
	"省",
}

// 直轄市の接尾辞（末尾のみ）
const municipalitySuffix = "市"

// NormalizeProvinceName 地図側と公演側で共通の結合キーを作る
// 例: "新疆维吾尔自治区" -> "新疆", "北京市" -> "北京"
func NormalizeProvinceName(raw string) string {
	name := strings.TrimSpace(raw)
	for {
		prev := name
		for _, qualifier := range provinceQualifiers {
			name = strings.ReplaceAll(name, qualifier, "")
		}
		name = strings.TrimSpace(strings.TrimSuffix(name, municipalitySuffix))
		if name == prev {
			return name
		}
	}
}
