// Package bookingclient talks to the booking HTTP API. It is used by the
// chat flow when the API runs as a separate process, and by bookctl.
package bookingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/catalog"
	domain "github.com/BruksfildServices01/salon-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/salon-scheduler/internal/dto"
	"github.com/BruksfildServices01/salon-scheduler/internal/httperr"
	"github.com/BruksfildServices01/salon-scheduler/internal/httpresp"
)

const DefaultTimeout = 10 * time.Second

type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func New(baseURL string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		log:     log.Named("bookingclient"),
	}
}

// ======================================================
// Bookings
// ======================================================

func (c *Client) AvailableTimes(
	ctx context.Context,
	service string,
	from time.Time,
) (domain.Availability, error) {

	u := fmt.Sprintf("%s/bookings/available-times/%s?service=%s",
		c.baseURL, domain.FormatDate(from), url.QueryEscape(service))

	var body dto.AvailableTimesDTO
	if _, err := c.do(ctx, http.MethodGet, u, nil, &body); err != nil {
		return domain.Availability{}, err
	}

	if body.Error != "" {
		return domain.Availability{}, httperr.Wrap(
			httperr.CodeCollaboratorBadResponse,
			fmt.Errorf("server reported: %s", body.Error),
		)
	}
	if body.Date == nil || len(body.Available) == 0 {
		return domain.Availability{}, nil
	}

	date, err := domain.ParseDate(*body.Date)
	if err != nil {
		return domain.Availability{}, httperr.Wrap(httperr.CodeCollaboratorBadResponse, err)
	}

	times := make([]domain.TimeOfDay, 0, len(body.Available))
	for _, hm := range body.Available {
		t, err := domain.ParseTimeOfDay(hm)
		if err != nil {
			return domain.Availability{}, httperr.Wrap(httperr.CodeCollaboratorBadResponse, err)
		}
		times = append(times, t)
	}

	return domain.Availability{Date: date, Times: times}, nil
}

func (c *Client) CreateBooking(
	ctx context.Context,
	req dto.CreateBookingRequest,
) (*dto.BookingDTO, error) {

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var out dto.BookingDTO
	if _, err := c.do(ctx, http.MethodPost, c.baseURL+"/bookings", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ======================================================
// Reference data
// ======================================================

func (c *Client) Catalog(ctx context.Context) ([]catalog.Group, error) {
	var out httpresp.ListResponse[catalog.Group]
	if _, err := c.do(ctx, http.MethodGet, c.baseURL+"/catalog", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *Client) Hours(ctx context.Context) (*dto.HoursDTO, error) {
	var out dto.HoursDTO
	if _, err := c.do(ctx, http.MethodGet, c.baseURL+"/hours", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ======================================================
// Transport
// ======================================================

// do sends the request and decodes a JSON body into out. Failures are
// classified into business codes; raw details stay in the wrapped cause.
func (c *Client) do(ctx context.Context, method, u string, body []byte, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("url", u), zap.Error(err))
		return 0, httperr.Wrap(httperr.CodeCollaboratorUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return resp.StatusCode, httperr.Wrap(httperr.CodeCollaboratorUnreachable, err)
	}

	if resp.StatusCode >= 300 {
		return resp.StatusCode, classifyStatus(resp.StatusCode, raw)
	}

	if !isJSON(resp.Header.Get("Content-Type")) {
		return resp.StatusCode, httperr.Wrap(
			httperr.CodeCollaboratorBadResponse,
			fmt.Errorf("unexpected content type %q", resp.Header.Get("Content-Type")),
		)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, httperr.Wrap(httperr.CodeCollaboratorBadResponse, err)
	}
	return resp.StatusCode, nil
}

func classifyStatus(status int, raw []byte) error {
	var apiErr httperr.HTTPError
	_ = json.Unmarshal(raw, &apiErr)
	cause := fmt.Errorf("status %d: %s", status, apiErr.Message)

	switch {
	case status == http.StatusConflict:
		return httperr.Wrap(httperr.CodePersistenceConflict, cause)
	case status == http.StatusBadRequest && apiErr.Code != "":
		return httperr.Wrap(apiErr.Code, cause)
	case status >= 500:
		return httperr.Wrap(httperr.CodeCollaboratorUnreachable, cause)
	}
	return httperr.Wrap(httperr.CodeCollaboratorBadResponse, cause)
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}

// ErrorText returns a short operator-facing description of err.
func ErrorText(err error) string {
	var be httperr.BusinessError
	if errors.As(err, &be) && be.Cause != nil {
		return be.Code + " (" + be.Cause.Error() + ")"
	}
	return err.Error()
}
