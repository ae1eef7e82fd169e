package models

// OHLCVFields lists the required field names for a stock data point.
// Unlike the news and social payloads these are case-sensitive TitleCase,
// matching the chart API the collector talks to.
var OHLCVFields = []string{"Open", "High", "Low", "Close", "Volume"}

// Bar is one validated daily price bar for a symbol.
type Bar struct {
	Symbol string  `json:"symbol" db:"symbol"`
	Date   string  `json:"date" db:"date"`
	Open   float64 `json:"Open" db:"open"`
	High   float64 `json:"High" db:"high"`
	Low    float64 `json:"Low" db:"low"`
	Close  float64 `json:"Close" db:"close"`
	Volume float64 `json:"Volume" db:"volume"`
}
