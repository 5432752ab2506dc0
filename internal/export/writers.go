package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/parquet-go/parquet-go"
)

// Writer receives records in export order
type Writer interface {
	Write(records []Record) error
	Close() error
}

// CSVWriter writes RFC 4180 CSV with a header row
type CSVWriter struct {
	w           *csv.Writer
	wroteHeader bool
}

// NewCSVWriter creates a CSV writer over w
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: csv.NewWriter(w)}
}

func (c *CSVWriter) header() error {
	if c.wroteHeader {
		return nil
	}
	c.wroteHeader = true
	return c.w.Write(Header)
}

func (c *CSVWriter) Write(records []Record) error {
	if err := c.header(); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.DateRecorded,
			strconv.FormatInt(r.EntryID, 10),
			r.IndoorTemp,
			r.OutdoorTemp,
			strconv.FormatInt(r.ChannelID, 10),
		}
		if err := c.w.Write(row); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}
	return nil
}

// Close writes the header if nothing was exported and flushes
func (c *CSVWriter) Close() error {
	if err := c.header(); err != nil {
		return err
	}
	c.w.Flush()
	return c.w.Error()
}

// ParquetRow is the Parquet schema of an exported record
type ParquetRow struct {
	DateRecorded time.Time `parquet:"date_recorded,snappy"`
	EntryID      int64     `parquet:"entry_id,snappy"`
	IndoorTemp   *float64  `parquet:"indoor_temp,optional,snappy"`
	OutdoorTemp  *float64  `parquet:"outdoor_temp,optional,snappy"`
	ChannelID    int64     `parquet:"channel_id,snappy"`
}

// ParquetWriter writes records as ParquetRow
type ParquetWriter struct {
	w *parquet.GenericWriter[ParquetRow]
}

// NewParquetWriter creates a Parquet writer over w
func NewParquetWriter(w io.Writer) *ParquetWriter {
	return &ParquetWriter{w: parquet.NewGenericWriter[ParquetRow](w)}
}

func parseTemp(s string) *float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (p *ParquetWriter) Write(records []Record) error {
	rows := make([]ParquetRow, 0, len(records))
	for _, r := range records {
		t, err := r.Time()
		if err != nil {
			return fmt.Errorf("entry %d: %w", r.EntryID, err)
		}
		rows = append(rows, ParquetRow{
			DateRecorded: t.UTC(),
			EntryID:      r.EntryID,
			IndoorTemp:   parseTemp(r.IndoorTemp),
			OutdoorTemp:  parseTemp(r.OutdoorTemp),
			ChannelID:    r.ChannelID,
		})
	}
	if _, err := p.w.Write(rows); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

func (p *ParquetWriter) Close() error {
	return p.w.Close()
}
