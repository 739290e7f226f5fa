package yahoo

import (
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"marketfetch/internal/document"
	"marketfetch/internal/fetcher"
)

// OptionChain is the structured form of an options payload.
type OptionChain struct {
	UnderlyingSymbol string            `json:"underlyingSymbol"`
	ExpirationDates  []int64           `json:"expirationDates"`
	Strikes          []decimal.Decimal `json:"strikes"`
	HasMiniOptions   bool              `json:"hasMiniOptions"`
	Quote            finance.Quote     `json:"quote"`
	Options          []OptionSet       `json:"options"`
}

// OptionSet holds the calls and puts of one expiration.
type OptionSet struct {
	ExpirationDate int64      `json:"expirationDate"`
	HasMiniOptions bool       `json:"hasMiniOptions"`
	Calls          []Contract `json:"calls"`
	Puts           []Contract `json:"puts"`
}

// Contract is a single option contract. It mirrors finance.Contract with
// money held as decimal.Decimal.
type Contract struct {
	ContractSymbol    string          `json:"contractSymbol"`
	Strike            decimal.Decimal `json:"strike"`
	Currency          string          `json:"currency"`
	LastPrice         decimal.Decimal `json:"lastPrice"`
	Change            decimal.Decimal `json:"change"`
	PercentChange     decimal.Decimal `json:"percentChange"`
	Volume            int64           `json:"volume"`
	OpenInterest      int64           `json:"openInterest"`
	Bid               decimal.Decimal `json:"bid"`
	Ask               decimal.Decimal `json:"ask"`
	ContractSize      string          `json:"contractSize"`
	Expiration        int64           `json:"expiration"`
	LastTradeDate     int64           `json:"lastTradeDate"`
	ImpliedVolatility float64         `json:"impliedVolatility"`
	InTheMoney        bool            `json:"inTheMoney"`
}

// ExpirationDay returns the calendar day the contract expires.
func (c Contract) ExpirationDay() fetcher.Date {
	return fetcher.DateOf(time.Unix(c.Expiration, 0).UTC())
}

// Expirations returns every expiration Yahoo lists for the underlying.
func (c OptionChain) Expirations() []fetcher.Date {
	out := make([]fetcher.Date, 0, len(c.ExpirationDates))
	for _, ts := range c.ExpirationDates {
		out = append(out, fetcher.DateOf(time.Unix(ts, 0).UTC()))
	}
	return out
}

// Contracts returns the number of calls and puts across all sets.
func (c OptionChain) Contracts() int {
	n := 0
	for _, set := range c.Options {
		n += len(set.Calls) + len(set.Puts)
	}
	return n
}

// MapOptionChain decodes an options payload. It rejects payloads without an
// underlying symbol.
func MapOptionChain(payload document.Document) (OptionChain, bool) {
	var chain OptionChain
	if err := payload.Decode(&chain); err != nil {
		return OptionChain{}, false
	}
	if chain.UnderlyingSymbol == "" {
		return OptionChain{}, false
	}
	return chain, true
}

// Chart is the structured form of a chart payload. Range is the history
// range Yahoo answered with, which finance.ChartMeta does not carry.
type Chart struct {
	Meta  finance.ChartMeta
	Range string
	Bars  []finance.ChartBar
}

// MapChart converts a chart payload. Samples whose close is null (halted or
// not yet traded) are dropped. AdjClose is filled when the payload carries
// an adjclose series.
func MapChart(payload document.Document) (Chart, bool) {
	if !payload.Has("meta") {
		return Chart{}, false
	}

	var chart Chart
	if err := payload.Get("meta").Decode(&chart.Meta); err != nil {
		return Chart{}, false
	}

	res := payload.Result()
	chart.Range = res.Get("meta.range").String()

	timestamps := res.Get("timestamp").Array()
	quote := res.Get("indicators.quote.0")
	opens := quote.Get("open").Array()
	highs := quote.Get("high").Array()
	lows := quote.Get("low").Array()
	closes := quote.Get("close").Array()
	volumes := quote.Get("volume").Array()
	adjCloses := res.Get("indicators.adjclose.0.adjclose").Array()

	for i, ts := range timestamps {
		closeVal, ok := number(closes, i)
		if !ok {
			continue
		}
		bar := finance.ChartBar{
			Close:     closeVal,
			Timestamp: int(ts.Int()),
		}
		bar.Open, _ = number(opens, i)
		bar.High, _ = number(highs, i)
		bar.Low, _ = number(lows, i)
		bar.AdjClose, _ = number(adjCloses, i)
		if i < len(volumes) {
			bar.Volume = int(volumes[i].Int())
		}

		chart.Bars = append(chart.Bars, bar)
	}
	return chart, true
}

func number(values []gjson.Result, i int) (decimal.Decimal, bool) {
	if i >= len(values) || values[i].Type != gjson.Number {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(values[i].Raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// RegisterMappers opts p into the structured representations OptionChain
// and Chart.
func RegisterMappers(p *fetcher.Provider) {
	fetcher.RegisterMapper[OptionRequest](p, MapOptionChain)
	fetcher.RegisterMapper[ChartRequest](p, MapChart)
}
