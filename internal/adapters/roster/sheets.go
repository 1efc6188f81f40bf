package roster

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/okian/clanmove/internal/domain/model"
	"github.com/okian/clanmove/pkg/logger"
	"github.com/okian/clanmove/pkg/metrics"
)

// Default sheet locations.
const (
	defaultRosterRange = "Roster!A1:H60"
	defaultStateCell   = "State!A1"
)

// SheetsStore implements Store against a Google Sheets spreadsheet.
type SheetsStore struct {
	svc           *sheets.Service
	spreadsheetID string
	rosterRange   string
	stateCell     string
	fieldMap      FieldMap
	log           logger.Logger
}

// SheetsOption applies a configuration option to the SheetsStore.
type SheetsOption func(*SheetsStore) error

// WithCredentialsFile authenticates with a service-account key file.
// An empty path falls back to application default credentials.
func WithCredentialsFile(path string) SheetsOption {
	return func(s *SheetsStore) error {
		if path == "" {
			return nil
		}
		svc, err := sheets.NewService(context.Background(),
			option.WithCredentialsFile(path),
			option.WithScopes(sheets.SpreadsheetsScope),
		)
		if err != nil {
			return fmt.Errorf("create sheets client: %w", err)
		}
		s.svc = svc
		return nil
	}
}

// WithService injects a preconfigured sheets service.
func WithService(svc *sheets.Service) SheetsOption {
	return func(s *SheetsStore) error {
		s.svc = svc
		return nil
	}
}

// WithRosterRange sets the working roster range, header row first.
func WithRosterRange(rng string) SheetsOption {
	return func(s *SheetsStore) error {
		if rng != "" {
			s.rosterRange = rng
		}
		return nil
	}
}

// WithStateCell sets the cell holding the persisted state blob.
func WithStateCell(cell string) SheetsOption {
	return func(s *SheetsStore) error {
		if cell != "" {
			s.stateCell = cell
		}
		return nil
	}
}

// WithFieldMap sets the header alias table.
func WithFieldMap(fm FieldMap) SheetsOption {
	return func(s *SheetsStore) error {
		s.fieldMap = fm
		return nil
	}
}

// NewSheetsStore creates a sheets-backed store for one spreadsheet.
func NewSheetsStore(spreadsheetID string, opts ...SheetsOption) (*SheetsStore, error) {
	if spreadsheetID == "" {
		return nil, fmt.Errorf("%w: empty spreadsheet id", ErrBadRange)
	}
	s := &SheetsStore{
		spreadsheetID: spreadsheetID,
		rosterRange:   defaultRosterRange,
		stateCell:     defaultStateCell,
		fieldMap:      DefaultFieldMap(),
		log:           logger.Named("sheets"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.svc == nil {
		svc, err := sheets.NewService(context.Background(), option.WithScopes(sheets.SpreadsheetsScope))
		if err != nil {
			return nil, fmt.Errorf("create sheets client: %w", err)
		}
		s.svc = svc
	}
	return s, nil
}

// Fetch reads and parses the working roster.
func (s *SheetsStore) Fetch(ctx context.Context, sel Selector) ([]model.PlayerRecord, error) {
	rng := sel.Range
	if rng == "" {
		rng = s.rosterRange
	}

	start := time.Now()
	header, rows, err := s.readStrings(ctx, rng)
	metrics.RecordRosterFetchLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordRosterError()
		return nil, fmt.Errorf("fetch roster %s: %w", rng, err)
	}
	if header == nil {
		return nil, nil
	}
	records := ParseRows(header, rows, s.fieldMap, sel.Metric)
	s.log.Debug(ctx, "fetched roster", logger.String("range", rng), logger.Int("players", len(records)))
	return records, nil
}

// WriteAction updates the manual action cell of the row matching key.
func (s *SheetsStore) WriteAction(ctx context.Context, key, action string) error {
	header, rows, err := s.readStrings(ctx, s.rosterRange)
	if err != nil {
		metrics.RecordRosterError()
		return fmt.Errorf("read roster for action write: %w", err)
	}
	cellRef, err := actionCellRef(s.rosterRange, header, rows, s.fieldMap, key)
	if err != nil {
		return err
	}

	start := time.Now()
	err = s.update(ctx, cellRef, [][]interface{}{{action}})
	metrics.RecordRosterWriteLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordRosterError()
		return fmt.Errorf("write action for %q: %w", key, err)
	}
	return nil
}

// actionCellRef locates the manual action cell of the row matching key.
// Rows are walked by their raw sheet position, not their parsed index:
// blank rows in the middle of the range still occupy a sheet row, so a
// parsed-slice index would shift every write below them.
func actionCellRef(rosterRange string, header []string, rows [][]string, fm FieldMap, key string) (string, error) {
	cols := resolveColumns(header, fm, "")
	if cols.action < 0 {
		return "", fmt.Errorf("%w: no action column in %s", ErrBadRange, rosterRange)
	}

	claimed := claimedColumns(cols)
	rowIdx := -1
	for i, row := range rows {
		rec := parseRow(row, cols, claimed)
		if blank(rec) {
			continue
		}
		if matchesKey(rec, key) {
			rowIdx = i
			break
		}
	}
	if rowIdx < 0 {
		return "", ErrNotFound
	}

	sheet, startCol, startRow, err := parseRangeStart(rosterRange)
	if err != nil {
		return "", err
	}
	// +1 past the header row; startRow is already 1-based.
	return fmt.Sprintf("%s!%s%d", sheet, colLetter(startCol+cols.action), startRow+1+rowIdx), nil
}

// ClearActions empties the whole manual action column.
func (s *SheetsStore) ClearActions(ctx context.Context) (int, error) {
	header, rows, err := s.readStrings(ctx, s.rosterRange)
	if err != nil {
		metrics.RecordRosterError()
		return 0, fmt.Errorf("read roster for clear: %w", err)
	}
	cols := resolveColumns(header, s.fieldMap, "")
	if cols.action < 0 {
		return 0, fmt.Errorf("%w: no action column in %s", ErrBadRange, s.rosterRange)
	}

	cleared := 0
	blanks := make([][]interface{}, len(rows))
	for i, row := range rows {
		if cell(row, cols.action) != "" {
			cleared++
		}
		blanks[i] = []interface{}{""}
	}
	if len(blanks) == 0 {
		return 0, nil
	}

	sheet, startCol, startRow, err := parseRangeStart(s.rosterRange)
	if err != nil {
		return 0, err
	}
	col := colLetter(startCol + cols.action)
	columnRange := fmt.Sprintf("%s!%s%d:%s%d", sheet, col, startRow+1, col, startRow+len(rows))
	if err := s.update(ctx, columnRange, blanks); err != nil {
		metrics.RecordRosterError()
		return 0, fmt.Errorf("clear actions: %w", err)
	}
	return cleared, nil
}

// CopyRange copies src values over dst.
func (s *SheetsStore) CopyRange(ctx context.Context, src, dst string) error {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, src).Context(ctx).Do()
	if err != nil {
		metrics.RecordRosterError()
		return fmt.Errorf("read source range %s: %w", src, err)
	}
	if err := s.update(ctx, dst, resp.Values); err != nil {
		metrics.RecordRosterError()
		return fmt.Errorf("copy to %s: %w", dst, err)
	}
	s.log.Info(ctx, "copied range", logger.String("src", src), logger.String("dst", dst))
	return nil
}

// SaveState writes the blob into the state cell.
func (s *SheetsStore) SaveState(ctx context.Context, blob []byte) error {
	if err := s.update(ctx, s.stateCell, [][]interface{}{{string(blob)}}); err != nil {
		metrics.RecordRosterError()
		return fmt.Errorf("save state: %w", err)
	}
	metrics.RecordStateSave()
	return nil
}

// LoadState reads the blob from the state cell.
func (s *SheetsStore) LoadState(ctx context.Context) ([]byte, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.stateCell).Context(ctx).Do()
	if err != nil {
		metrics.RecordRosterError()
		return nil, fmt.Errorf("load state: %w", err)
	}
	if len(resp.Values) == 0 || len(resp.Values[0]) == 0 {
		return nil, ErrNoState
	}
	raw, ok := resp.Values[0][0].(string)
	if !ok || raw == "" {
		return nil, ErrNoState
	}
	metrics.RecordStateLoad()
	return []byte(raw), nil
}

// readStrings fetches a range and flattens it to trimmed strings,
// returning the header row separately.
func (s *SheetsStore) readStrings(ctx context.Context, rng string) (header []string, rows [][]string, err error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, nil, err
	}
	if len(resp.Values) == 0 {
		return nil, nil, nil
	}
	all := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = strings.TrimSpace(fmt.Sprint(v))
		}
		all[i] = cells
	}
	return all[0], all[1:], nil
}

func (s *SheetsStore) update(ctx context.Context, rng string, values [][]interface{}) error {
	_, err := s.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rng, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// parseRangeStart splits "Sheet!B2:H60" into the sheet name, the
// zero-based start column and the 1-based start row.
func parseRangeStart(rng string) (sheet string, col, row int, err error) {
	bang := strings.IndexByte(rng, '!')
	if bang < 0 {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrBadRange, rng)
	}
	sheet = rng[:bang]
	ref := rng[bang+1:]
	if colon := strings.IndexByte(ref, ':'); colon >= 0 {
		ref = ref[:colon]
	}

	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A') + 1
		i++
	}
	if i == 0 || i == len(ref) {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrBadRange, rng)
	}
	row, err = strconv.Atoi(ref[i:])
	if err != nil || row < 1 {
		return "", 0, 0, fmt.Errorf("%w: %q", ErrBadRange, rng)
	}
	return sheet, col - 1, row, nil
}

// colLetter renders a zero-based column index as A, B, ..., Z, AA, AB.
func colLetter(idx int) string {
	var b []byte
	for idx >= 0 {
		b = append([]byte{byte('A' + idx%26)}, b...)
		idx = idx/26 - 1
	}
	return string(b)
}
