package service

import (
	"encoding/json"
	"sort"
)

// CountEntry 集計キーと件数
type CountEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// OrderedCounts 最初に出現した順序を保つ件数マップ
type OrderedCounts struct {
	keys   []string
	counts map[string]int
}

// NewOrderedCounts 空のOrderedCountsを作成
func NewOrderedCounts() *OrderedCounts {
	return &OrderedCounts{counts: make(map[string]int)}
}

// Add キーの件数を1増やす
func (c *OrderedCounts) Add(key string) {
	if _, exists := c.counts[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.counts[key]++
}

// Get キーの件数
func (c *OrderedCounts) Get(key string) int {
	if c == nil {
		return 0
	}
	return c.counts[key]
}

// Len キーの種類数
func (c *OrderedCounts) Len() int {
	if c == nil {
		return 0
	}
	return len(c.keys)
}

// Entries 挿入順のエントリ一覧
func (c *OrderedCounts) Entries() []CountEntry {
	if c == nil {
		return []CountEntry{}
	}
	entries := make([]CountEntry, 0, len(c.keys))
	for _, key := range c.keys {
		entries = append(entries, CountEntry{Key: key, Count: c.counts[key]})
	}
	return entries
}

// MarshalJSON 順序を保つため配列として出力する
func (c *OrderedCounts) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Entries())
}

// TopN 件数の降順に並べて上位n件を返す。同数は挿入順を保つ（n<0で全件）
func TopN(c *OrderedCounts, n int) []CountEntry {
	entries := c.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if n >= 0 && len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
