package yahoo

import (
	"context"
	"testing"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketfetch/internal/document"
	"marketfetch/internal/fetcher"
	"marketfetch/internal/testutil"
)

const optionsBody = `{
	"optionChain": {
		"result": [{
			"underlyingSymbol": "AAPL",
			"expirationDates": [1705622400, 1706227200],
			"strikes": [180, 185.5],
			"hasMiniOptions": false,
			"quote": {
				"symbol": "AAPL",
				"regularMarketPrice": 191.56
			},
			"options": [{
				"expirationDate": 1705622400,
				"hasMiniOptions": false,
				"calls": [{
					"contractSymbol": "AAPL240119C00180000",
					"strike": 180,
					"currency": "USD",
					"lastPrice": 11.85,
					"change": -0.35,
					"percentChange": -2.87,
					"volume": 1520,
					"openInterest": 30211,
					"bid": 11.7,
					"ask": 11.95,
					"contractSize": "REGULAR",
					"expiration": 1705622400,
					"lastTradeDate": 1705597195,
					"impliedVolatility": 0.2451,
					"inTheMoney": true
				}],
				"puts": [{
					"contractSymbol": "AAPL240119P00185500",
					"strike": 185.5,
					"lastPrice": 0.42,
					"expiration": 1705622400,
					"inTheMoney": false
				}]
			}]
		}],
		"error": null
	}
}`

const chartBody = `{
	"chart": {
		"result": [{
			"meta": {
				"symbol": "MSFT",
				"currency": "USD",
				"exchangeName": "NMS",
				"instrumentType": "EQUITY",
				"regularMarketPrice": 401.12,
				"dataGranularity": "1d",
				"range": "5d",
				"validRanges": ["1d", "5d"]
			},
			"timestamp": [1705415400, 1705501800, 1705588200],
			"indicators": {
				"quote": [{
					"open": [393.66, 394.2, null],
					"high": [394.97, 398.87, null],
					"low": [386.57, 392.25, null],
					"close": [390.27, 398.67, null],
					"volume": [23208900, 20941400, null]
				}],
				"adjclose": [{
					"adjclose": [389.51, 397.9, null]
				}]
			}
		}],
		"error": null
	}
}`

func structuredFetcher(body string) (*fetcher.Fetcher, *testutil.MockTransport) {
	transport := testutil.NewMockTransport(body, true)
	p := New("")
	RegisterMappers(p)
	return fetcher.New(p, transport, fetcher.WithObserver(nil)), transport
}

func TestFetch_OptionChain(t *testing.T) {
	f, transport := structuredFetcher(optionsBody)

	chain, ok := fetcher.Fetch[OptionChain](context.Background(), f, OptionRequest{Symbol: "AAPL"})
	require.True(t, ok)
	assert.Equal(t, aaplOptionsURL, transport.LastURL())

	assert.Equal(t, "AAPL", chain.UnderlyingSymbol)
	assert.Equal(t, "AAPL", chain.Quote.Symbol)
	assert.InDelta(t, 191.56, chain.Quote.RegularMarketPrice, 1e-9)
	assert.Equal(t, []fetcher.Date{
		fetcher.NewDate(2024, time.January, 19),
		fetcher.NewDate(2024, time.January, 26),
	}, chain.Expirations())
	require.Len(t, chain.Strikes, 2)
	assert.True(t, chain.Strikes[1].Equal(decimal.RequireFromString("185.5")))

	require.Len(t, chain.Options, 1)
	assert.Equal(t, 2, chain.Contracts())

	call := chain.Options[0].Calls[0]
	assert.Equal(t, "AAPL240119C00180000", call.ContractSymbol)
	assert.True(t, call.Strike.Equal(decimal.NewFromInt(180)))
	assert.True(t, call.Bid.Equal(decimal.RequireFromString("11.7")))
	assert.True(t, call.Ask.Equal(decimal.RequireFromString("11.95")))
	assert.Equal(t, int64(30211), call.OpenInterest)
	assert.True(t, call.InTheMoney)
	assert.Equal(t, fetcher.NewDate(2024, time.January, 19), call.ExpirationDay())

	put := chain.Options[0].Puts[0]
	assert.True(t, put.Strike.Equal(decimal.RequireFromString("185.5")))
	assert.False(t, put.InTheMoney)
}

func TestFetch_OptionChainRejected(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no underlying", `{"optionChain":{"result":[{"symbol":"AAPL","dummyField":42}],"error":null}}`},
		{"wrong field type", `{"optionChain":{"result":[{"underlyingSymbol":"AAPL","strikes":"many"}],"error":null}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, _ := structuredFetcher(tt.body)

			_, ok := fetcher.Fetch[OptionChain](context.Background(), f, OptionRequest{Symbol: "AAPL"})
			assert.False(t, ok)
		})
	}
}

func TestFetch_StructuredIsOptIn(t *testing.T) {
	f := fetcher.New(New(""), testutil.NewMockTransport(optionsBody, true), fetcher.WithObserver(nil))

	_, ok := fetcher.Fetch[OptionChain](context.Background(), f, OptionRequest{Symbol: "AAPL"})
	assert.False(t, ok)

	doc, ok := fetcher.Fetch[document.Document](context.Background(), f, OptionRequest{Symbol: "AAPL"})
	require.True(t, ok)
	assert.Equal(t, "AAPL", doc.Get("underlyingSymbol").Result().String())
}

func TestFetch_Chart_Structured(t *testing.T) {
	f, _ := structuredFetcher(chartBody)

	chart, ok := fetcher.Fetch[Chart](context.Background(), f, ChartRequest{Symbol: "MSFT", Range: "5d", Interval: "1d"})
	require.True(t, ok)

	assert.Equal(t, "MSFT", chart.Meta.Symbol)
	assert.Equal(t, "NMS", chart.Meta.ExchangeName)
	assert.Equal(t, finance.QuoteTypeEquity, chart.Meta.QuoteType)
	assert.Equal(t, "1d", chart.Meta.DataGranularity)
	assert.Equal(t, []string{"1d", "5d"}, chart.Meta.ValidRanges)
	assert.Equal(t, "5d", chart.Range)

	require.Len(t, chart.Bars, 2, "the null sample is dropped")
	first := chart.Bars[0]
	assert.Equal(t, 1705415400, first.Timestamp)
	assert.True(t, first.Open.Equal(decimal.RequireFromString("393.66")))
	assert.True(t, first.Close.Equal(decimal.RequireFromString("390.27")))
	assert.True(t, first.AdjClose.Equal(decimal.RequireFromString("389.51")))
	assert.Equal(t, 23208900, first.Volume)
	assert.True(t, chart.Bars[1].High.Equal(decimal.RequireFromString("398.87")))
}

func TestFetch_MappingIsPerRequestType(t *testing.T) {
	f, transport := structuredFetcher(chartBody)

	// A chart payload is never mapped into an option chain.
	_, ok := fetcher.Fetch[OptionChain](context.Background(), f, ChartRequest{Symbol: "MSFT"})
	assert.False(t, ok)
	assert.Len(t, transport.URLs(), 1)
}

func TestMapChart_MissingMeta(t *testing.T) {
	_, ok := MapChart(document.ParseString(`{"timestamp":[1],"indicators":{"quote":[{"close":[1]}]}}`))
	assert.False(t, ok)
}

func TestMapChart_EmptySeries(t *testing.T) {
	chart, ok := MapChart(document.ParseString(`{"meta":{"symbol":"X"}}`))
	require.True(t, ok)
	assert.Equal(t, "X", chart.Meta.Symbol)
	assert.Empty(t, chart.Bars)
}

func TestMapChart_NoAdjClose(t *testing.T) {
	chart, ok := MapChart(document.ParseString(`{"meta":{"symbol":"X"},"timestamp":[1705415400],"indicators":{"quote":[{"close":[10.5]}]}}`))
	require.True(t, ok)
	require.Len(t, chart.Bars, 1)
	assert.True(t, chart.Bars[0].Close.Equal(decimal.RequireFromString("10.5")))
	assert.True(t, chart.Bars[0].AdjClose.IsZero())
}
