package cli

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/tidwall/pretty"

	"marketfetch/internal/document"
	"marketfetch/internal/yahoo"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))
)

func printHeader(w io.Writer, title string) {
	fmt.Fprintln(w, headerStyle.Render(title))
}

func printDocument(w io.Writer, doc document.Document) {
	w.Write(pretty.Pretty([]byte(doc.Raw())))
}

func printOptionChain(w io.Writer, chain yahoo.OptionChain) {
	printHeader(w, fmt.Sprintf("%s options", chain.UnderlyingSymbol))
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render("last price:"), fmt.Sprint(chain.Quote.RegularMarketPrice))

	exps := chain.Expirations()
	if len(exps) > 0 {
		fmt.Fprintf(w, "%s %d (%s .. %s)\n", labelStyle.Render("expirations:"), len(exps), exps[0], exps[len(exps)-1])
	}

	for _, set := range chain.Options {
		for _, c := range set.Calls {
			fmt.Fprintf(w, "CALL %-22s %s  strike %-10s bid %-8s ask %-8s oi %d\n",
				c.ContractSymbol, c.ExpirationDay(), c.Strike, c.Bid, c.Ask, c.OpenInterest)
		}
		for _, c := range set.Puts {
			fmt.Fprintf(w, "PUT  %-22s %s  strike %-10s bid %-8s ask %-8s oi %d\n",
				c.ContractSymbol, c.ExpirationDay(), c.Strike, c.Bid, c.Ask, c.OpenInterest)
		}
	}
}

func printChart(w io.Writer, chart yahoo.Chart) {
	printHeader(w, fmt.Sprintf("%s %s (%s)", chart.Meta.Symbol, chart.Range, chart.Meta.DataGranularity))
	for _, b := range chart.Bars {
		fmt.Fprintf(w, "%s  O %-10s H %-10s L %-10s C %-10s V %d\n",
			time.Unix(int64(b.Timestamp), 0).UTC().Format("2006-01-02 15:04"), b.Open, b.High, b.Low, b.Close, b.Volume)
	}
}
