// Package yahoo binds Yahoo Finance endpoints to the fetcher pipeline.
package yahoo

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"marketfetch/internal/fetcher"
)

const (
	// Name is the provider name used in keys and logs
	Name = "yahoo"
	// DefaultBaseURL is the production API host
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	optionsPath = "/v7/finance/options/"
	chartPath   = "/v8/finance/chart/"

	optionsWrapper = "optionChain"
	chartWrapper   = "chart"
)

// OptionRequest asks for the options chain of Symbol. When Expiration is set
// only the contracts expiring that day are requested; otherwise Yahoo picks
// the nearest expiration.
type OptionRequest struct {
	Symbol     string
	Expiration fetcher.Date
}

// HasExpiration reports whether the request is refined to one expiration.
func (r OptionRequest) HasExpiration() bool {
	return !r.Expiration.IsZero()
}

// Key returns the task key for this request
func (r OptionRequest) Key() string {
	if r.HasExpiration() {
		return fmt.Sprintf("fetcher:%s:options:%s:%s", Name, r.Symbol, r.Expiration)
	}
	return fmt.Sprintf("fetcher:%s:options:%s", Name, r.Symbol)
}

// ChartRequest asks for the price history of Symbol. Range (e.g. "1mo") and
// Interval (e.g. "1d") are optional; Yahoo applies its own defaults when they
// are empty.
type ChartRequest struct {
	Symbol   string
	Range    string
	Interval string
}

// Key returns the task key for this request
func (r ChartRequest) Key() string {
	key := fmt.Sprintf("fetcher:%s:chart:%s", Name, r.Symbol)
	if r.Range != "" {
		key += ":range=" + r.Range
	}
	if r.Interval != "" {
		key += ":interval=" + r.Interval
	}
	return key
}

// New returns the Yahoo provider rooted at baseURL. An empty baseURL selects
// DefaultBaseURL. Structured representations are not registered; see
// RegisterMappers.
func New(baseURL string) *fetcher.Provider {
	base := strings.TrimRight(baseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}

	p := fetcher.NewProvider(Name)
	fetcher.Bind(p, func(r OptionRequest) string {
		return OptionsURL(base, r)
	}, fetcher.ResultEnvelope(optionsWrapper))
	fetcher.Bind(p, func(r ChartRequest) string {
		return ChartURL(base, r)
	}, fetcher.ResultEnvelope(chartWrapper))
	return p
}

// OptionsURL builds <base>/v7/finance/options/<symbol>, adding
// ?date=<unix seconds of midnight UTC> when the request has an expiration.
func OptionsURL(base string, r OptionRequest) string {
	u := base + optionsPath + url.PathEscape(r.Symbol)
	if r.HasExpiration() {
		u += "?date=" + strconv.FormatInt(r.Expiration.Unix(), 10)
	}
	return u
}

// ChartURL builds <base>/v8/finance/chart/<symbol> with whichever of
// interval and range are set.
func ChartURL(base string, r ChartRequest) string {
	u := base + chartPath + url.PathEscape(r.Symbol)

	q := url.Values{}
	if r.Interval != "" {
		q.Set("interval", r.Interval)
	}
	if r.Range != "" {
		q.Set("range", r.Range)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}
