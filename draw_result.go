package dlt

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// RawRecord is one draw as the provider sent it, keyed by provider field names
type RawRecord map[string]any

// Query identifies one page of draws at an endpoint
type Query struct {
	Endpoint string `json:"endpoint"`
	Provider string `json:"provider"`
	GameNo   string `json:"game_no"`
	PageSize int    `json:"page_size"`
	PageNo   int    `json:"page_no"`
}

// Values returns the query string parameters sent to the provider
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.GameNo != "" {
		v.Set("gameNo", q.GameNo)
	}
	if q.PageSize > 0 {
		v.Set("pageSize", strconv.Itoa(q.PageSize))
	}
	if q.PageNo > 0 {
		v.Set("pageNo", strconv.Itoa(q.PageNo))
	}
	return v
}

// CacheKey is the endpoint+params tuple the fetch cache is keyed by
func (q Query) CacheKey() string {
	return q.Provider + "|" + q.Endpoint + "?" + q.Values().Encode()
}

// DrawRecord is one historical draw with canonical fields
type DrawRecord struct {
	ID       string     `json:"id"`
	Result   string     `json:"result"`
	DrawDate *time.Time `json:"date"`
}

// NumberSet holds the front and back zone numbers of a draw, each ascending
type NumberSet struct {
	Front []int `json:"front"`
	Back  []int `json:"back"`
}

// String renders the set as "03 11 19 27 35 + 02 09"
func (ns NumberSet) String() string {
	return joinPadded(ns.Front) + " + " + joinPadded(ns.Back)
}

func joinPadded(nums []int) string {
	parts := make([]string, len(nums))
	for i, n := range nums {
		parts[i] = fmt.Sprintf("%02d", n)
	}
	return strings.Join(parts, " ")
}

// ParsedDraw pairs a record with its split numbers; Numbers is nil when the
// result string was malformed
type ParsedDraw struct {
	Record   DrawRecord `json:"record"`
	Numbers  *NumberSet `json:"numbers"`
	Warnings []string   `json:"warnings,omitempty"`
	Err      error      `json:"-"`
}

// Valid reports whether the draw contributes to statistics
func (pd ParsedDraw) Valid() bool { return pd.Numbers != nil }

// CachedBatch is a cache entry: the raw page and when it was fetched
type CachedBatch struct {
	Query     Query       `json:"query"`
	Records   []RawRecord `json:"records"`
	FetchedAt time.Time   `json:"fetched_at"`
}
