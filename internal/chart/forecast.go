package chart

import (
	"errors"
	"fmt"
	"image/color"

	"StockSimulator/internal/model"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var (
	historyColor  = color.RGBA{B: 255, A: 255}
	forecastColor = color.RGBA{G: 128, A: 255}
)

// ForecastPlot builds the historical close line (solid blue) followed by the
// predicted prices (dashed green) on a date axis.
func ForecastPlot(symbol string, history []model.OHLCV, fc *model.Forecast) (*plot.Plot, error) {
	if len(history) == 0 {
		return nil, errors.New("no history to plot")
	}
	if fc == nil || len(fc.Points) == 0 {
		return nil, errors.New("no forecast to plot")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Future Stock Price Prediction for %s", symbol)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = "Stock Price"
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	hist := make(plotter.XYs, len(history))
	for i, b := range history {
		hist[i].X = float64(b.Time.Unix())
		hist[i].Y = b.Close
	}
	future := make(plotter.XYs, len(fc.Points))
	for i, pt := range fc.Points {
		future[i].X = float64(pt.Date.Unix())
		future[i].Y = pt.Price
	}

	histLine, err := plotter.NewLine(hist)
	if err != nil {
		return nil, fmt.Errorf("history line: %w", err)
	}
	histLine.Color = historyColor

	futureLine, err := plotter.NewLine(future)
	if err != nil {
		return nil, fmt.Errorf("forecast line: %w", err)
	}
	futureLine.Color = forecastColor
	futureLine.Dashes = []vg.Length{vg.Points(5), vg.Points(3)}

	p.Add(histLine, futureLine)
	p.Legend.Add("Historical Prices", histLine)
	p.Legend.Add("Predicted Future Prices", futureLine)
	return p, nil
}

// RenderForecast writes the forecast plot to path. The image format follows
// the file extension (png, svg, pdf...).
func RenderForecast(path, symbol string, history []model.OHLCV, fc *model.Forecast) error {
	p, err := ForecastPlot(symbol, history, fc)
	if err != nil {
		return err
	}
	if err := p.Save(10*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}
