package generator

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"StockSimulator/internal/model"
)

const dateLayout = "2006-01-02"

var csvHeader = []string{"Date", "Company", "Open", "High", "Low", "Close", "Volume"}

// WriteCSVFile writes bars to a CSV file at the given path.
func WriteCSVFile(path string, bars []model.OHLCV) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	if err := WriteCSV(f, bars); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV writes bars to any io.Writer as CSV with a header row.
func WriteCSV(w io.Writer, bars []model.OHLCV) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, b := range bars {
		record := []string{
			b.Time.Format(dateLayout),
			b.Symbol,
			strconv.FormatFloat(b.Open, 'f', -1, 64),
			strconv.FormatFloat(b.High, 'f', -1, 64),
			strconv.FormatFloat(b.Low, 'f', -1, 64),
			strconv.FormatFloat(b.Close, 'f', -1, 64),
			strconv.FormatInt(b.Volume, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ReadCSVFile loads bars previously written by WriteCSVFile.
func ReadCSVFile(path string) ([]model.OHLCV, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses the CSV layout produced by WriteCSV.
func ReadCSV(r io.Reader) ([]model.OHLCV, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(csvHeader)

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty csv")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	if !strings.EqualFold(strings.Join(header, ","), strings.Join(csvHeader, ",")) {
		return nil, fmt.Errorf("unexpected header %v", header)
	}

	var bars []model.OHLCV
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bar, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseRecord(rec []string) (model.OHLCV, error) {
	var bar model.OHLCV
	t, err := parseDate(rec[0])
	if err != nil {
		return bar, err
	}
	bar.Time = t
	bar.Symbol = strings.ToUpper(strings.TrimSpace(rec[1]))
	if bar.Symbol == "" {
		return bar, errors.New("empty company")
	}

	fields := []*float64{&bar.Open, &bar.High, &bar.Low, &bar.Close}
	for i, dst := range fields {
		v, err := parseFinite(rec[2+i])
		if err != nil {
			return bar, fmt.Errorf("parse %s: %w", csvHeader[2+i], err)
		}
		*dst = v
	}

	vol, err := parseFinite(rec[6])
	if err != nil {
		return bar, fmt.Errorf("parse Volume: %w", err)
	}
	bar.Volume = int64(vol)
	return bar, nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// parseDate accepts plain dates and the timestamp forms other tools emit.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{dateLayout, time.RFC3339, "2006-01-02 15:04:05.999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("parse Date %q", s)
}
