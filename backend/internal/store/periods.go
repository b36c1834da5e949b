package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"honors_gwa/backend/internal/honors"
	"honors_gwa/backend/internal/shared"
)

const windowDateFormat = "January 2, 2006"

// GetActivePeriod returns the active academic period, or nil when none is.
// If several are flagged active the latest start date wins.
func (s *Store) GetActivePeriod(ctx context.Context) (*shared.AcademicPeriod, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "start_date", Value: -1}})
	return s.findPeriod(queryCtx, bson.M{"is_active": true}, opts)
}

// GetPeriod returns an academic period by id, or nil when it does not exist.
func (s *Store) GetPeriod(ctx context.Context, id string) (*shared.AcademicPeriod, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	return s.findPeriod(queryCtx, bson.M{"_id": id})
}

func (s *Store) findPeriod(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*shared.AcademicPeriod, error) {
	var p shared.AcademicPeriod
	err := s.periodsCol.FindOne(ctx, filter, opts...).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find academic period: %w", err)
	}
	return &p, nil
}

// UpsertPeriod writes an academic period. It is used by the seeder.
func (s *Store) UpsertPeriod(ctx context.Context, p shared.AcademicPeriod) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.periodsCol.ReplaceOne(queryCtx, bson.M{"_id": p.ID}, p, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert academic period %s: %w", p.ID, err)
	}
	return nil
}

// CanApply opens the application window while the active period's date range
// contains the current time.
func (s *Store) CanApply(ctx context.Context, studentID string) (honors.ApplicationWindow, error) {
	active, err := s.GetActivePeriod(ctx)
	if err != nil {
		return honors.ApplicationWindow{}, err
	}

	now := s.now()
	next, err := s.nextPeriod(ctx, now)
	if err != nil {
		return honors.ApplicationWindow{}, err
	}

	window := honors.ApplicationWindow{ActivePeriod: active, NextPeriod: next}
	switch {
	case active == nil:
		window.Reason = "There is no active academic period."
		if next != nil {
			window.Reason = fmt.Sprintf("Applications open on %s.", next.StartDate.Format(windowDateFormat))
		}
	case now.Before(active.StartDate):
		window.Reason = fmt.Sprintf("Applications for %s open on %s.", active.Label(), active.StartDate.Format(windowDateFormat))
	case now.After(active.EndDate):
		window.Reason = fmt.Sprintf("Applications for %s closed on %s.", active.Label(), active.EndDate.Format(windowDateFormat))
	default:
		window.CanApply = true
	}
	return window, nil
}

func (s *Store) nextPeriod(ctx context.Context, after time.Time) (*shared.AcademicPeriod, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.FindOne().SetSort(bson.D{{Key: "start_date", Value: 1}})
	return s.findPeriod(queryCtx, bson.M{"start_date": bson.M{"$gt": after}}, opts)
}
