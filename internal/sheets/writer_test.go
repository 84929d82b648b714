package sheets

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/spending"
)

func testTable() *spending.Table {
	months := []string{"2025-01", "2025-02"}
	return &spending.Table{
		Year:   2025,
		Months: months,
		Rows: []spending.Row{
			{
				Kind:  spending.RowCategory,
				ID:    1,
				Label: "Food",
				Cells: []spending.Cell{{Amount: 8.004}, {Amount: 12.456, Over: true}},
				Total: spending.Cell{Amount: 20.46},
			},
			{
				Kind:  spending.RowItem,
				ID:    1,
				Label: "Groceries",
				Cells: []spending.Cell{{Amount: 8.004}, {Amount: 12.456, Over: true}},
				Total: spending.Cell{Amount: 20.46},
			},
			{
				Kind:  spending.RowTotal,
				Label: "TOTAL",
				Cells: []spending.Cell{{Amount: 8.004}, {Amount: 12.456}},
				Total: spending.Cell{Amount: 20.46},
			},
		},
	}
}

func TestNewReport(t *testing.T) {
	report := NewReport(testTable())

	assert.Equal(t, "Spending 2025", report.Title)
	require.Len(t, report.Rows, 3)

	assert.Equal(t, "Food", report.Rows[0].Label)
	assert.Equal(t, "  Groceries", report.Rows[1].Label)
	assert.True(t, report.Rows[1].Months[0].Equal(decimal.RequireFromString("8")))
	assert.True(t, report.Rows[1].Months[1].Equal(decimal.RequireFromString("12.46")))
	assert.Equal(t, []bool{false, true}, report.Rows[1].Over)
}

func TestReport_Values(t *testing.T) {
	values := NewReport(testTable()).Values()

	require.Len(t, values, headerRows+3)
	assert.Equal(t, []any{"Spending 2025"}, values[0])
	assert.Equal(t, []any{"", "2025-01", "2025-02", "Total"}, values[2])
	assert.Equal(t, []any{"  Groceries", 8.0, 12.46, 20.46}, values[4])
}

func TestFormattingRequests(t *testing.T) {
	requests := formattingRequests(NewReport(testTable()))

	var over, bold int
	for _, req := range requests {
		if req.RepeatCell == nil {
			continue
		}
		format := req.RepeatCell.Cell.UserEnteredFormat
		if format.BackgroundColor != nil {
			over++
			assert.Equal(t, int64(2), req.RepeatCell.Range.StartColumnIndex)
		}
		if format.TextFormat != nil && format.TextFormat.Bold && req.RepeatCell.Range.StartRowIndex >= headerRows {
			bold++
		}
	}
	assert.Equal(t, 2, over)
	assert.Equal(t, 2, bold, "category and total rows")
}

type sheetsServer struct {
	failFormatting bool
	calls          []string
	written        [][]any
	mu             sync.Mutex
}

func (s *sheetsServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := r.URL.Path
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.Method == http.MethodPost && path == "/v4/spreadsheets":
		s.calls = append(s.calls, "create")
		_, _ = io.WriteString(w, `{"spreadsheetId":"new-sheet","spreadsheetUrl":"https://example.test/new-sheet"}`)
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/v4/spreadsheets/"):
		s.calls = append(s.calls, "get")
		_, _ = io.WriteString(w, `{"spreadsheetId":"sheet-1"}`)
	case strings.HasSuffix(path, ":clear"):
		s.calls = append(s.calls, "clear "+strings.TrimPrefix(path, "/v4/spreadsheets/"))
		_, _ = io.WriteString(w, `{}`)
	case r.Method == http.MethodPut && strings.Contains(path, "/values/"):
		s.calls = append(s.calls, "update")
		var body sheets.ValueRange
		_ = json.NewDecoder(r.Body).Decode(&body)
		for _, row := range body.Values {
			s.written = append(s.written, row)
		}
		_, _ = io.WriteString(w, `{}`)
	case strings.HasSuffix(path, ":batchUpdate"):
		s.calls = append(s.calls, "format")
		if s.failFormatting {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"error":{"code":400,"message":"bad format"}}`)
			return
		}
		_, _ = io.WriteString(w, `{}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestWriter(t *testing.T, handler *sheetsServer, config Config) *Writer {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	srv, err := sheets.NewService(context.Background(),
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()))
	require.NoError(t, err)

	return NewWriterWithService(config, srv, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestWriter_Write(t *testing.T) {
	handler := &sheetsServer{}
	config := DefaultConfig()
	config.SpreadsheetID = "sheet-1"
	config.BatchSize = 2
	config.RetryAttempts = 1
	config.RetryDelay = time.Millisecond

	writer := newTestWriter(t, handler, config)
	require.NoError(t, writer.Write(context.Background(), testTable()))

	assert.Equal(t, []string{"get", "clear sheet-1/values/A:Z:clear", "update", "update", "update", "format"}, handler.calls)
	require.Len(t, handler.written, headerRows+3)
	assert.Equal(t, "TOTAL", handler.written[5][0])
}

func TestWriter_WriteCreatesSpreadsheet(t *testing.T) {
	handler := &sheetsServer{}
	config := DefaultConfig()
	config.EnableFormatting = false

	writer := newTestWriter(t, handler, config)
	require.NoError(t, writer.Write(context.Background(), testTable()))

	assert.Equal(t, []string{"create", "clear new-sheet/values/A:Z:clear", "update"}, handler.calls)
}

func TestWriter_FormattingFailureIsNotFatal(t *testing.T) {
	handler := &sheetsServer{failFormatting: true}
	config := DefaultConfig()
	config.SpreadsheetID = "sheet-1"
	config.RetryAttempts = 1

	writer := newTestWriter(t, handler, config)
	require.NoError(t, writer.Write(context.Background(), testTable()))
	assert.Contains(t, handler.calls, "format")
}

func TestWriter_NilTable(t *testing.T) {
	writer := newTestWriter(t, &sheetsServer{}, DefaultConfig())
	err := writer.Write(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestMockWriter(t *testing.T) {
	mock := NewMockWriter()
	table := testTable()

	require.NoError(t, mock.Write(context.Background(), table))
	mock.SetWriteError(assert.AnError)
	assert.ErrorIs(t, mock.Write(context.Background(), table), assert.AnError)

	calls := mock.GetWriteCalls()
	require.Len(t, calls, 2)
	assert.Same(t, table, mock.LastTable)
	assert.NoError(t, calls[0].Error)
	assert.Equal(t, 2, mock.WriteCallCount)
}
