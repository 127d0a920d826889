package woffu

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/username/woffu-attendance-bot/internal/dayoff"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const (
	holidaysPath = "/api/users/calendar-events/next"
	requestsPath = "/api/users/requests/list?pageIndex=0&pageSize=10&statusType=null"
	signsPath    = "/api/signs"
	signPath     = "/api/svc/signs/signs"
)

// Client represents Woffu API client bound to one authenticated session
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Woffu API client.
// Every request carries the session's bearer token.
func NewClient(session *Session, logger *zap.Logger) *Client {
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(session.token))
	httpClient.Timeout = defaultTimeout

	return &Client{
		baseURL:    session.baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Holidays returns the upcoming company holidays
func (c *Client) Holidays(ctx context.Context) ([]dayoff.Holiday, error) {
	var events []CalendarEvent
	if err := c.doRequest(ctx, http.MethodGet, holidaysPath, nil, &events); err != nil {
		return nil, fmt.Errorf("%w: failed to fetch holidays: %w", ErrRemoteQuery, err)
	}

	holidays := make([]dayoff.Holiday, 0, len(events))
	for _, event := range events {
		holidays = append(holidays, event.ToHoliday())
	}

	c.logger.Info("Holidays retrieved", zap.Int("count", len(holidays)))

	return holidays, nil
}

// Absences returns the first page of the account's leave and presence requests
func (c *Client) Absences(ctx context.Context) ([]dayoff.Absence, error) {
	var requests []Request
	if err := c.doRequest(ctx, http.MethodGet, requestsPath, nil, &requests); err != nil {
		return nil, fmt.Errorf("%w: failed to fetch requests: %w", ErrRemoteQuery, err)
	}

	absences := make([]dayoff.Absence, 0, len(requests))
	for _, request := range requests {
		absences = append(absences, request.ToAbsence())
	}

	c.logger.Info("Requests retrieved", zap.Int("count", len(absences)))

	return absences, nil
}

// SignHistory returns the chronological sign events of the account
func (c *Client) SignHistory(ctx context.Context) ([]Sign, error) {
	var signs []Sign
	if err := c.doRequest(ctx, http.MethodGet, signsPath, nil, &signs); err != nil {
		return nil, fmt.Errorf("%w: failed to fetch signs: %w", ErrRemoteQuery, err)
	}

	c.logger.Debug("Sign history retrieved", zap.Int("count", len(signs)))

	return signs, nil
}

// SubmitSign submits a check-in or check-out
func (c *Client) SubmitSign(ctx context.Context, req SignRequest) error {
	if err := c.doRequest(ctx, http.MethodPost, signPath, req, nil); err != nil {
		return fmt.Errorf("%w: failed to submit sign: %w", ErrRemoteMutation, err)
	}

	fields := []zap.Field{
		zap.String("device_id", req.DeviceID),
		zap.Int("timezone_offset", req.TimezoneOffset),
	}
	if req.AgreementEventID != nil {
		fields = append(fields, zap.Int64("agreement_event_id", *req.AgreementEventID))
	}
	c.logger.Info("Sign submitted", fields...)

	return nil
}

// doRequest performs a single authenticated HTTP request.
// Failures are returned as-is: the caller decides, nothing is retried here.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			c.logger.Error("Unexpected response shape",
				zap.String("path", path),
				zap.String("body", string(respBody)),
				zap.Error(err))
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}
