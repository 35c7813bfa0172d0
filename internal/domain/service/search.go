package service

import (
	"strings"

	"golang.org/x/text/cases"

	"PerfMap-App/internal/domain/model"
)

// 検索結果の種別
const (
	MatchArtist   = "artist"
	MatchVenue    = "venue"
	MatchLocation = "location"
)

// SearchMatch 検索候補ひとつ分
type SearchMatch struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Detail string `json:"detail"`
	Date   string `json:"date"`
}

// SearchResults 種別ごとの検索候補
type SearchResults struct {
	Artists   []SearchMatch `json:"artists"`
	Venues    []SearchMatch `json:"venues"`
	Locations []SearchMatch `json:"locations"`
}

func emptySearchResults() *SearchResults {
	return &SearchResults{
		Artists:   []SearchMatch{},
		Venues:    []SearchMatch{},
		Locations: []SearchMatch{},
	}
}

// Search アーティスト・会場・地域(省+市)を大文字小文字を区別せず部分一致で検索する
// 各種別とも最初に出現したレコードを代表とし、重複は除く
func Search(records []model.Performance, query string) *SearchResults {
	results := emptySearchResults()

	query = strings.TrimSpace(query)
	if query == "" {
		return results
	}

	folder := cases.Fold()
	needle := folder.String(query)
	contains := func(s string) bool {
		return s != "" && strings.Contains(folder.String(s), needle)
	}

	seenArtists := make(map[string]struct{})
	seenVenues := make(map[string]struct{})
	seenLocations := make(map[string]struct{})

	for _, record := range records {
		place := record.Province + " " + record.City
		date := DisplayDate(record.Date)

		if _, seen := seenArtists[record.Artist]; !seen && contains(record.Artist) {
			seenArtists[record.Artist] = struct{}{}
			results.Artists = append(results.Artists, SearchMatch{
				Type:   MatchArtist,
				Value:  record.Artist,
				Detail: place,
				Date:   date,
			})
		}

		if _, seen := seenVenues[record.Venue]; !seen && contains(record.Venue) {
			seenVenues[record.Venue] = struct{}{}
			results.Venues = append(results.Venues, SearchMatch{
				Type:   MatchVenue,
				Value:  record.Venue,
				Detail: place,
				Date:   date,
			})
		}

		location := record.Province + record.City
		if _, seen := seenLocations[location]; !seen && contains(location) {
			seenLocations[location] = struct{}{}
			results.Locations = append(results.Locations, SearchMatch{
				Type:   MatchLocation,
				Value:  place,
				Detail: record.Venue,
				Date:   date,
			})
		}
	}

	return results
}
