package dataprocessing

import (
	"context"
	"database/sql"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"salesreport/internal/config"
	apperrors "salesreport/internal/errors"
	"salesreport/internal/infrastructure"
	"salesreport/pkg/contracts/domain"
)

const utf8BOM = "\ufeff"

// encodingAliases covers the spellings commonly passed for the single-byte
// encodings sales exports use. Anything else goes through the IANA index.
var encodingAliases = map[string]encoding.Encoding{
	"latin1":       charmap.ISO8859_1,
	"latin-1":      charmap.ISO8859_1,
	"iso-8859-1":   charmap.ISO8859_1,
	"iso8859-1":    charmap.ISO8859_1,
	"cp1252":       charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"utf-8":        unicode.UTF8,
	"utf8":         unicode.UTF8,
}

// ResolveEncoding looks up a text encoding by name
func ResolveEncoding(name string) (encoding.Encoding, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if enc, ok := encodingAliases[key]; ok {
		return enc, nil
	}

	enc, err := ianaindex.IANA.Encoding(key)
	if err != nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("unknown encoding %q", name), err)
	}
	if enc == nil {
		return nil, apperrors.NewConfigError(fmt.Sprintf("unsupported encoding %q", name), nil)
	}
	return enc, nil
}

// LoadResult is a parsed sales table plus facts about the source file
type LoadResult struct {
	Table         *domain.SalesTable
	SizeBytes     int64
	Checksum      string         // hex BLAKE2b-256 of the raw file
	MissingValues map[string]int // numeric column -> blank or unparseable cells
}

// Loader reads delimited sales files into a SalesTable
type Loader struct {
	encodingName string
	encoding     encoding.Encoding
	dateColumn   string
	delimiter    rune
	logger       *slog.Logger
}

// NewLoader creates a loader for the given input settings
func NewLoader(cfg config.InputConfig, logger *slog.Logger) (*Loader, error) {
	enc, err := ResolveEncoding(cfg.Encoding)
	if err != nil {
		return nil, err
	}

	delimiter := ','
	if cfg.Delimiter != "" {
		r, size := utf8.DecodeRuneInString(cfg.Delimiter)
		if size != len(cfg.Delimiter) || r == utf8.RuneError {
			return nil, apperrors.NewConfigError(fmt.Sprintf("invalid delimiter %q", cfg.Delimiter), nil)
		}
		delimiter = r
	}

	dateColumn := cfg.DateColumn
	if dateColumn == "" {
		dateColumn = domain.ColumnOrderDate
	}

	return &Loader{
		encodingName: cfg.Encoding,
		encoding:     enc,
		dateColumn:   dateColumn,
		delimiter:    delimiter,
		logger:       infrastructure.WithComponent(logger, "loader"),
	}, nil
}

// Load reads and parses the file at path
func (l *Loader) Load(ctx context.Context, path string) (*LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.NewNotFoundError("input file "+path, err)
		}
		return nil, apperrors.NewStorageError("failed to open input file "+path, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, apperrors.NewStorageError("failed to stat input file "+path, err)
	}

	hash, err := blake2b.New256(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create checksum: %w", err)
	}

	table, missing, err := l.Parse(ctx, io.TeeReader(file, hash))
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "Loaded sales data",
		slog.String("path", path),
		slog.String("encoding", l.encodingName),
		slog.Int("records", table.Len()),
		slog.Int64("bytes", info.Size()))

	return &LoadResult{
		Table:         table,
		SizeBytes:     info.Size(),
		Checksum:      hex.EncodeToString(hash.Sum(nil)),
		MissingValues: missing,
	}, nil
}

// Parse decodes r and parses every row. The returned map counts missing
// numeric cells per column.
func (l *Loader) Parse(ctx context.Context, r io.Reader) (*domain.SalesTable, map[string]int, error) {
	reader := csv.NewReader(transform.NewReader(r, l.encoding.NewDecoder()))
	reader.Comma = l.delimiter
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, apperrors.NewSchemaError("input has no header row")
	}
	if err != nil {
		return nil, nil, parseError(err)
	}
	if err := checkDecoded(reader, header); err != nil {
		return nil, nil, err
	}

	cols, err := l.mapColumns(header)
	if err != nil {
		return nil, nil, err
	}

	table := &domain.SalesTable{
		Header:         header,
		DateColumn:     cols.date,
		NumericColumns: []int{cols.sales, cols.priceEach, cols.msrp, cols.quantity},
	}
	missing := map[string]int{}
	unparsedDates := 0

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, parseError(err)
		}

		line, _ := reader.FieldPos(0)
		if len(row) > len(header) {
			return nil, nil, apperrors.NewParsingError(
				fmt.Sprintf("line %d has %d fields, header has %d", line, len(row), len(header)), nil)
		}
		if err := checkDecoded(reader, row); err != nil {
			return nil, nil, err
		}
		for len(row) < len(header) {
			row = append(row, "")
		}

		rec := domain.SalesRecord{
			ProductCode: strings.TrimSpace(row[cols.product]),
			Fields:      row,
		}

		if t, ok := parseDate(row[cols.date]); ok {
			rec.OrderDate = t
			rec.DateValid = true
		} else {
			unparsedDates++
		}

		rec.Sales = parseDecimal(row[cols.sales], domain.ColumnSales, missing)
		rec.PriceEach = parseDecimal(row[cols.priceEach], domain.ColumnPriceEach, missing)
		rec.MSRP = parseDecimal(row[cols.msrp], domain.ColumnMSRP, missing)
		rec.Quantity = parseQuantity(row[cols.quantity], missing)

		table.Records = append(table.Records, rec)
	}

	if unparsedDates > 0 {
		l.logger.DebugContext(ctx, "Rows without a usable order date",
			slog.String("column", l.dateColumn),
			slog.Int("count", unparsedDates))
	}
	for column, n := range missing {
		l.logger.WarnContext(ctx, "Missing numeric values",
			slog.String("column", column),
			slog.Int("count", n))
	}

	return table, missing, nil
}

type columnIndex struct {
	date, sales, product, priceEach, msrp, quantity int
}

// mapColumns normalizes header names in place and locates the required columns
func (l *Loader) mapColumns(header []string) (columnIndex, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	positions := make(map[string]int, len(header))
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
		if _, seen := positions[header[i]]; !seen {
			positions[header[i]] = i
		}
	}

	var missing []string
	lookup := func(name string) int {
		i, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			return -1
		}
		return i
	}

	cols := columnIndex{
		date:      lookup(l.dateColumn),
		sales:     lookup(domain.ColumnSales),
		product:   lookup(domain.ColumnProduct),
		priceEach: lookup(domain.ColumnPriceEach),
		msrp:      lookup(domain.ColumnMSRP),
		quantity:  lookup(domain.ColumnQuantity),
	}

	if len(missing) > 0 {
		return cols, apperrors.NewSchemaError("missing required columns: " + strings.Join(missing, ", "))
	}
	return cols, nil
}

// checkDecoded rejects cells the decoder could not map to valid text
func checkDecoded(reader *csv.Reader, row []string) error {
	for i, cell := range row {
		if utf8.ValidString(cell) && !strings.ContainsRune(cell, utf8.RuneError) {
			continue
		}
		line, column := reader.FieldPos(i)
		return apperrors.NewEncodingError(
			fmt.Sprintf("undecodable text at line %d, column %d", line, column), nil)
	}
	return nil
}

func parseError(err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return apperrors.NewParsingError(fmt.Sprintf("malformed input at line %d", perr.Line), err)
	}
	return apperrors.NewStorageError("failed to read input", err)
}

// parseDate accepts any layout dateparse recognizes, month-first when ambiguous
func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func parseDecimal(value, column string, missing map[string]int) decimal.NullDecimal {
	value = strings.TrimSpace(value)
	if value != "" {
		if d, err := decimal.NewFromString(value); err == nil {
			return decimal.NullDecimal{Decimal: d, Valid: true}
		}
	}
	missing[column]++
	return decimal.NullDecimal{}
}

// parseQuantity accepts integers and integral decimals such as "30.0"
func parseQuantity(value string, missing map[string]int) sql.NullInt64 {
	value = strings.TrimSpace(value)
	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return sql.NullInt64{Int64: n, Valid: true}
	}
	if d, err := decimal.NewFromString(value); err == nil && d.IsInteger() {
		return sql.NullInt64{Int64: d.IntPart(), Valid: true}
	}
	missing[domain.ColumnQuantity]++
	return sql.NullInt64{}
}
