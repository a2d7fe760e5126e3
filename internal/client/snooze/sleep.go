package snooze

import (
	"context"
	"net/http"

	"github.com/garrettladley/snooze/internal/sleep"
)

type SleepService interface {
	List(ctx context.Context, params *ListParams) (*Page[sleep.Record], error)
	Get(ctx context.Context, date string) (*sleep.Record, error)
	Put(ctx context.Context, record sleep.Record) (*sleep.Record, error)
	// Batch stores records in one request and returns how many were saved.
	Batch(ctx context.Context, records []sleep.Record) (int, error)
	Delete(ctx context.Context, date string) error
}

type sleepService struct {
	client *Client
}

func (s *sleepService) List(ctx context.Context, params *ListParams) (*Page[sleep.Record], error) {
	var page Page[sleep.Record]
	if err := s.client.do(ctx, http.MethodGet, "/api/sleep", params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *sleepService) Get(ctx context.Context, date string) (*sleep.Record, error) {
	var rec sleep.Record
	if err := s.client.do(ctx, http.MethodGet, "/api/sleep/"+date, nil, nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *sleepService) Put(ctx context.Context, record sleep.Record) (*sleep.Record, error) {
	record.ID, record.UserID = "", ""
	var saved sleep.Record
	if err := s.client.do(ctx, http.MethodPut, "/api/sleep/"+record.Date, nil, record, &saved); err != nil {
		return nil, err
	}
	return &saved, nil
}

func (s *sleepService) Batch(ctx context.Context, records []sleep.Record) (int, error) {
	payload := make([]sleep.Record, len(records))
	for i, r := range records {
		r.ID, r.UserID = "", ""
		payload[i] = r
	}
	var resp batchResponse
	if err := s.client.do(ctx, http.MethodPost, "/api/sleep/batch", nil, payload, &resp); err != nil {
		return 0, err
	}
	return resp.Saved, nil
}

func (s *sleepService) Delete(ctx context.Context, date string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/sleep/"+date, nil, nil, nil)
}

type batchResponse struct {
	Saved int `json:"saved"`
}
