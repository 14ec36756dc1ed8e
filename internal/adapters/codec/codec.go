// Package codec reads and writes delimited medal tables.
//
// Input is a comma- or tab-separated byte stream with a required header
// row. The delimiter is sniffed from the header line unless set
// explicitly. Output always uses the canonical column order with the
// recomputed Total_Medals column.
package codec

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/podiumhq/podium/internal/domain/model"
)

// Sentinel kinds for codec errors.
var (
	ErrEmptyInput = errors.New("empty input")
)

// exportHeader is the canonical column order for encoded tables.
var exportHeader = []string{
	"Athlete", "Age", "Country", "Year", "Sport",
	"Gold", "Silver", "Bronze", "Total_Medals",
}

// summaryHeader matches the summary export of the download surface.
var summaryHeader = []string{
	"total_medals", "total_gold", "total_silver", "total_bronze",
	"total_athletes", "total_countries",
}

// Option configures decoding.
type Option func(*decoder)

// WithDelimiter forces the field delimiter instead of sniffing it.
func WithDelimiter(d rune) Option {
	return func(dec *decoder) { dec.delimiter = d }
}

type decoder struct {
	delimiter rune // 0 means sniff from the header line
}

// Decode reads a delimited table into a RawTable. The first line is the
// header; short rows are padded so the normalizer sees a cell for every
// column. Returns ErrEmptyInput when the stream holds no header.
func Decode(r io.Reader, opts ...Option) (model.RawTable, error) {
	dec := &decoder{}
	for _, opt := range opts {
		opt(dec)
	}

	br := bufio.NewReader(r)
	if dec.delimiter == 0 {
		d, err := sniffDelimiter(br)
		if err != nil {
			return model.RawTable{}, err
		}
		dec.delimiter = d
	}

	cr := csv.NewReader(br)
	cr.Comma = dec.delimiter
	cr.FieldsPerRecord = -1 // ragged rows are tolerated; normalization pads
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return model.RawTable{}, fmt.Errorf("decode table: %w", err)
	}
	if len(records) == 0 {
		return model.RawTable{}, ErrEmptyInput
	}

	header := records[0]
	width := len(header)
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) < width {
			padded := make([]string, width)
			copy(padded, rec)
			rec = padded
		}
		rows = append(rows, rec)
	}
	return model.RawTable{Header: header, Rows: rows}, nil
}

// sniffDelimiter peeks at the first line and picks tab when it splits the
// header into more fields than a comma does.
func sniffDelimiter(br *bufio.Reader) (rune, error) {
	const peekSize = 4096
	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, fmt.Errorf("sniff delimiter: %w", err)
	}
	if len(buf) == 0 {
		return 0, ErrEmptyInput
	}
	line := string(buf)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if strings.Count(line, "\t") > strings.Count(line, ",") {
		return '\t', nil
	}
	return ',', nil
}

// EncodeTable writes a normalized table in the canonical column order.
func EncodeTable(w io.Writer, t model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("encode table: %w", err)
	}
	for _, r := range t.Rows {
		age := ""
		if r.Age != nil {
			age = strconv.FormatFloat(*r.Age, 'f', -1, 64)
		}
		row := []string{
			r.Athlete,
			age,
			r.Country,
			strconv.Itoa(r.Year),
			r.Sport,
			strconv.Itoa(r.Gold),
			strconv.Itoa(r.Silver),
			strconv.Itoa(r.Bronze),
			strconv.Itoa(r.TotalMedals),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("encode table: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encode table: %w", err)
	}
	return nil
}

// EncodeSummary writes a one-row summary in the download format.
func EncodeSummary(w io.Writer, s model.Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	row := []string{
		strconv.Itoa(s.TotalMedals),
		strconv.Itoa(s.TotalGold),
		strconv.Itoa(s.TotalSilver),
		strconv.Itoa(s.TotalBronze),
		strconv.Itoa(s.TotalAthletes),
		strconv.Itoa(s.TotalCountries),
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}
