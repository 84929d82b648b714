// Package api implements the HTTP client for the budget server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/budgetview/internal/common"
	"github.com/Veraticus/budgetview/internal/expenses"
	"github.com/Veraticus/budgetview/internal/model"
	"github.com/Veraticus/budgetview/internal/service"
)

// RequestIDHeader carries a unique id per request for server-side log correlation.
const RequestIDHeader = "X-Request-ID"

var datePattern = regexp.MustCompile(`^20\d\d-[01]\d-[0123]\d$`)

// Client talks to the budget server's JSON API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	retry      common.RetryOptions
}

var _ service.BudgetAPI = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryOptions sets the retry policy for idempotent failures.
func WithRetryOptions(opts common.RetryOptions) Option {
	return func(c *Client) {
		c.retry = opts
	}
}

// NewClient creates a client for the server at baseURL.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid server url %q: %v", common.ErrInvalidConfig, baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: server url must be http or https, got %q", common.ErrInvalidConfig, baseURL)
	}

	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := &Client{
		baseURL: u,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retry: common.RetryOptions{
			MaxAttempts:  3,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2,
		},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// errorBody is the shape of every non-2xx response.
type errorBody struct {
	Error string `json:"error"`
}

// request describes one API call. The body is fully buffered so that it can
// be replayed on retry. Requests marked once are never retried.
type request struct {
	out         any
	method      string
	path        string
	contentType string
	body        []byte
	once        bool
}

func (c *Client) do(ctx context.Context, req request) error {
	if req.once {
		return c.attempt(ctx, req)
	}
	return common.WithRetry(ctx, func() error {
		return c.attempt(ctx, req)
	}, c.retry)
}

func (c *Client) attempt(ctx context.Context, req request) error {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL.String()+req.path, body)
	if err != nil {
		return &common.RetryableError{Err: fmt.Errorf("failed to create request: %w", err), Retryable: false}
	}

	requestID := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, requestID)
	httpReq.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &common.RetryableError{Err: fmt.Errorf("failed to reach budget server: %w", err), Retryable: true}
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("Budget API request",
		"method", req.method,
		"path", req.path,
		"request_id", requestID,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if req.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(req.out); err != nil {
		return &common.RetryableError{Err: fmt.Errorf("failed to decode response: %w", err), Retryable: false}
	}

	return nil
}

func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	apiErr := &common.APIError{StatusCode: resp.StatusCode}
	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(data))
	}

	return apiErr
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, request{method: http.MethodGet, path: path, out: out})
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	return c.sendJSON(ctx, path, in, out, false)
}

// createJSON posts in without retrying, since a retried create may store
// the record twice.
func (c *Client) createJSON(ctx context.Context, path string, in any) error {
	return c.sendJSON(ctx, path, in, nil, true)
}

func (c *Client) sendJSON(ctx context.Context, path string, in, out any, once bool) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        data,
		contentType: "application/json; charset=utf-8",
		out:         out,
		once:        once,
	})
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, request{method: http.MethodDelete, path: path})
}

// GetBudget fetches the budget of a year.
func (c *Client) GetBudget(ctx context.Context, year int) (*model.Budget, error) {
	var b model.Budget
	if err := c.getJSON(ctx, fmt.Sprintf("/api/budget/%d", year), &b); err != nil {
		return nil, fmt.Errorf("failed to fetch budget: %w", err)
	}
	if b.Year == 0 {
		b.Year = year
	}
	return &b, nil
}

type cloneRequest struct {
	FromYear int `json:"from_year"`
	ToYear   int `json:"to_year"`
}

// CloneBudget copies the categories and items of one year into another.
func (c *Client) CloneBudget(ctx context.Context, fromYear, toYear int) error {
	if fromYear == toYear {
		return common.NewValidationError("year", "cannot clone %d onto itself", fromYear)
	}
	if err := c.postJSON(ctx, "/api/budget/clone", cloneRequest{FromYear: fromYear, ToYear: toYear}, nil); err != nil {
		return fmt.Errorf("failed to clone budget: %w", err)
	}
	return nil
}

// GetSpending fetches the monthly spending facts of a year.
func (c *Client) GetSpending(ctx context.Context, year int) (*model.SpendingData, error) {
	var data model.SpendingData
	if err := c.getJSON(ctx, fmt.Sprintf("/api/spending/%d", year), &data); err != nil {
		return nil, fmt.Errorf("failed to fetch spending: %w", err)
	}
	return &data, nil
}

// GetAccounts fetches all accounts.
func (c *Client) GetAccounts(ctx context.Context) (*model.Accounts, error) {
	var accts model.Accounts
	if err := c.getJSON(ctx, "/api/accounts", &accts); err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}
	return &accts, nil
}

// GetStatementSchemas fetches the statement formats the server can parse.
func (c *Client) GetStatementSchemas(ctx context.Context) (*model.StatementSchemas, error) {
	var schemas model.StatementSchemas
	if err := c.getJSON(ctx, "/api/schemas", &schemas); err != nil {
		return nil, fmt.Errorf("failed to fetch statement schemas: %w", err)
	}
	return &schemas, nil
}

// QueryExpenses runs an expense query request.
func (c *Client) QueryExpenses(ctx context.Context, req expenses.Request) ([]model.Expense, error) {
	var list model.Expenses
	if err := c.postJSON(ctx, "/api/expenses/query", req, &list); err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	return list.Expenses, nil
}

// GetItemMonthExpenses fetches the expenses of one item in one month.
func (c *Client) GetItemMonthExpenses(ctx context.Context, itemID int, month string) ([]model.Expense, error) {
	if !expenses.ValidMonth(month) {
		return nil, common.NewValidationError("month", "expected YYYY-MM, got %q", month)
	}

	var list model.Expenses
	if err := c.getJSON(ctx, fmt.Sprintf("/api/expenses/monthly/%d/%s", itemID, month), &list); err != nil {
		return nil, fmt.Errorf("failed to fetch item expenses: %w", err)
	}
	return list.Expenses, nil
}

// Expenses resolves query against the endpoint that serves it.
func (c *Client) Expenses(ctx context.Context, query expenses.Query) ([]model.Expense, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if query.Variant == expenses.VariantItemMonth {
		return c.GetItemMonthExpenses(ctx, query.ItemID, query.Month)
	}

	req, err := query.Request()
	if err != nil {
		return nil, err
	}
	return c.QueryExpenses(ctx, req)
}

type updateExpenseRequest struct {
	BudgetItemID *int `json:"budget_item_id"`
}

// UpdateExpenseCategory assigns an expense to an item, or clears the
// assignment when itemID is nil.
func (c *Client) UpdateExpenseCategory(ctx context.Context, expenseID int, itemID *int) error {
	path := fmt.Sprintf("/api/expenses/%d", expenseID)
	if err := c.postJSON(ctx, path, updateExpenseRequest{BudgetItemID: itemID}, nil); err != nil {
		return fmt.Errorf("failed to update expense %d: %w", expenseID, err)
	}
	return nil
}

// ImportStatement uploads a bank statement for the server to parse into
// expenses of the account.
func (c *Client) ImportStatement(ctx context.Context, accountID int, filename string, r io.Reader, size int64) error {
	if size == 0 {
		return common.NewValidationError("file", "statement %s is empty", filename)
	}

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("failed to create upload form: %w", err)
	}
	n, err := io.Copy(part, r)
	if err != nil {
		return fmt.Errorf("failed to read statement: %w", err)
	}
	if n == 0 {
		return common.NewValidationError("file", "statement %s is empty", filename)
	}
	if err := form.Close(); err != nil {
		return fmt.Errorf("failed to finish upload form: %w", err)
	}

	err = c.do(ctx, request{
		method:      http.MethodPost,
		path:        fmt.Sprintf("/api/accounts/%d/expenses", accountID),
		body:        buf.Bytes(),
		contentType: form.FormDataContentType(),
		once:        true, // a failed import may have stored some rows already
	})
	if err != nil {
		return fmt.Errorf("failed to import statement: %w", err)
	}

	slog.Info("Imported statement", "account_id", accountID, "file", filename, "bytes", n)
	return nil
}

type deleteExpensesRequest struct {
	NewerThanDate string `json:"newer_than_date"`
}

// DeleteExpensesNewerThan deletes the account's expenses dated after date
// (YYYY-MM-DD).
func (c *Client) DeleteExpensesNewerThan(ctx context.Context, accountID int, date string) error {
	if !datePattern.MatchString(date) {
		return common.NewValidationError("date", "expected YYYY-MM-DD, got %q", date)
	}

	path := fmt.Sprintf("/api/accounts/%d/expenses/delete", accountID)
	if err := c.postJSON(ctx, path, deleteExpensesRequest{NewerThanDate: date}, nil); err != nil {
		return fmt.Errorf("failed to delete expenses: %w", err)
	}
	return nil
}
