// Package predict fits a next-day close model over the per-symbol daily
// series assembled by the store: lagged price, volume and news-sentiment
// features plus a couple of technical indicators, solved as ordinary
// least squares.
package predict

import (
	"fmt"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/seenimoa/marketmood/internal/store"
)

// Indicator periods used as model features.
const (
	smaPeriod = 5
	rsiPeriod = 14
)

// minHistory is the smallest series the model accepts: enough for the
// longest indicator warm-up plus a usable number of training rows.
const minHistory = 30

// Result is one fitted next-day prediction.
type Result struct {
	Symbol    string  `json:"symbol"`
	LastDate  string  `json:"last_date"`
	LastClose float64 `json:"last_close"`
	Predicted float64 `json:"predicted_close"`
	Baseline  float64 `json:"baseline_sma"`
	R2        float64 `json:"r2"`
	Rows      int     `json:"training_rows"`
}

// NextDayClose fits the model on the series and predicts the close for
// the day after the last point.
func NextDayClose(symbol string, points []store.DailyPoint) (*Result, error) {
	if len(points) < minHistory {
		return nil, fmt.Errorf("insufficient history for %s: have %d points, need %d", symbol, len(points), minHistory)
	}

	features, targets, last := buildDataset(points)
	if len(targets) == 0 {
		return nil, fmt.Errorf("no training rows for %s", symbol)
	}

	coef, err := fitOLS(features, targets)
	if err != nil {
		return nil, fmt.Errorf("fit %s: %w", symbol, err)
	}

	fitted := make([]float64, len(targets))
	for i, row := range features {
		fitted[i] = dot(coef, row)
	}

	closes := closesOf(points)
	sma := talib.Sma(closes, smaPeriod)

	return &Result{
		Symbol:    symbol,
		LastDate:  points[len(points)-1].Date,
		LastClose: closes[len(closes)-1],
		Predicted: dot(coef, last),
		Baseline:  sma[len(sma)-1],
		R2:        stat.RSquaredFrom(fitted, targets, nil),
		Rows:      len(targets),
	}, nil
}

// buildDataset turns the daily series into training rows. Row t carries
// today's close/volume/sentiment, yesterday's lags, and SMA/RSI values;
// the target is tomorrow's close. The returned last row holds the same
// features for the final day, used for the actual prediction.
func buildDataset(points []store.DailyPoint) (features [][]float64, targets []float64, last []float64) {
	closes := closesOf(points)
	sma := talib.Sma(closes, smaPeriod)
	rsi := talib.Rsi(closes, rsiPeriod)

	row := func(t int) []float64 {
		return []float64{
			1, // intercept
			points[t].Close,
			points[t].Volume,
			points[t].Sentiment,
			points[t-1].Close,
			points[t-1].Volume,
			points[t-1].Sentiment,
			sma[t],
			rsi[t],
		}
	}

	// Start past the indicator warm-up so every feature is populated.
	start := rsiPeriod + 1
	for t := start; t < len(points)-1; t++ {
		features = append(features, row(t))
		targets = append(targets, points[t+1].Close)
	}
	last = row(len(points) - 1)
	return features, targets, last
}

// fitOLS solves least squares via QR decomposition.
func fitOLS(features [][]float64, targets []float64) ([]float64, error) {
	rows := len(features)
	cols := len(features[0])
	if rows < cols {
		return nil, fmt.Errorf("underdetermined system: %d rows for %d coefficients", rows, cols)
	}

	x := mat.NewDense(rows, cols, nil)
	for i, row := range features {
		x.SetRow(i, row)
	}
	y := mat.NewDense(rows, 1, targets)

	var qr mat.QR
	qr.Factorize(x)

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, y); err != nil {
		// A poorly conditioned system still yields usable coefficients;
		// anything else is a real failure.
		if _, ok := err.(mat.Condition); !ok {
			return nil, fmt.Errorf("solve least squares: %w", err)
		}
	}

	coef := make([]float64, cols)
	for i := range coef {
		coef[i] = beta.At(i, 0)
	}
	return coef, nil
}

func dot(coef, row []float64) float64 {
	sum := 0.0
	for i := range coef {
		sum += coef[i] * row[i]
	}
	return sum
}

func closesOf(points []store.DailyPoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}
	return closes
}
