package snooze

import (
	"context"
	"net/http"
	"net/url"

	"github.com/garrettladley/snooze/internal/workout"
)

type WorkoutService interface {
	List(ctx context.Context, params *ListParams) (*Page[workout.Workout], error)
	Create(ctx context.Context, m workout.Manual) (*workout.Workout, error)
	// Halo imports the workout encoded in a Halo share URL.
	Halo(ctx context.Context, shareURL string) (*workout.Workout, error)
	Batch(ctx context.Context, workouts []workout.Workout) (int, error)
	Delete(ctx context.Context, id string) error
}

type workoutService struct {
	client *Client
}

func (s *workoutService) List(ctx context.Context, params *ListParams) (*Page[workout.Workout], error) {
	var page Page[workout.Workout]
	if err := s.client.do(ctx, http.MethodGet, "/api/workouts", params.values(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *workoutService) Create(ctx context.Context, m workout.Manual) (*workout.Workout, error) {
	var w workout.Workout
	if err := s.client.do(ctx, http.MethodPost, "/api/workouts", nil, m, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *workoutService) Halo(ctx context.Context, shareURL string) (*workout.Workout, error) {
	body := struct {
		URL string `json:"url"`
	}{URL: shareURL}

	var w workout.Workout
	if err := s.client.do(ctx, http.MethodPost, "/api/workouts/halo", nil, body, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *workoutService) Batch(ctx context.Context, workouts []workout.Workout) (int, error) {
	payload := make([]workout.Workout, len(workouts))
	for i, w := range workouts {
		w.UserID = ""
		payload[i] = w
	}
	var resp batchResponse
	if err := s.client.do(ctx, http.MethodPost, "/api/workouts/batch", nil, payload, &resp); err != nil {
		return 0, err
	}
	return resp.Saved, nil
}

func (s *workoutService) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, http.MethodDelete, "/api/workouts/"+url.PathEscape(id), nil, nil, nil)
}
