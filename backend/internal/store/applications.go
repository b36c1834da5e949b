package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"honors_gwa/backend/internal/honors"
	"honors_gwa/backend/internal/shared"
)

type applicationDoc struct {
	ID          string    `bson:"_id"`
	StudentID   string    `bson:"student_id"`
	PeriodID    string    `bson:"period_id"`
	HonorType   string    `bson:"honor_type"`
	Status      string    `bson:"status"`
	GWA         float64   `bson:"gwa"`
	RequiredGWA float64   `bson:"required_gwa"`
	SubmittedAt time.Time `bson:"submitted_at"`
	UpdatedAt   time.Time `bson:"updated_at"`
	ReviewedBy  string    `bson:"reviewed_by,omitempty"`
}

func (d applicationDoc) toApplication() shared.Application {
	gwa, _ := shared.GetDecimal(d.GWA)
	required, _ := shared.GetDecimal(d.RequiredGWA)
	return shared.Application{
		ID:          d.ID,
		StudentID:   d.StudentID,
		PeriodID:    d.PeriodID,
		HonorType:   shared.HonorType(d.HonorType),
		Status:      shared.ApplicationStatus(d.Status),
		GWA:         gwa,
		RequiredGWA: required,
		SubmittedAt: d.SubmittedAt,
		UpdatedAt:   d.UpdatedAt,
		ReviewedBy:  d.ReviewedBy,
	}
}

func pendingStatusValues() []string {
	out := make([]string, len(shared.PendingStatuses))
	for i, st := range shared.PendingStatuses {
		out[i] = string(st)
	}
	return out
}

// HasPendingApplication reports whether the student has a pending application
// submitted within r.
func (s *Store) HasPendingApplication(ctx context.Context, studentID string, r honors.DateRange) (bool, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"student_id":   studentID,
		"status":       bson.M{"$in": pendingStatusValues()},
		"submitted_at": bson.M{"$gte": r.Start, "$lte": r.End},
	}
	count, err := s.applicationsCol.CountDocuments(queryCtx, filter)
	if err != nil {
		return false, fmt.Errorf("count pending applications: %w", err)
	}
	return count > 0, nil
}

// InsertApplication stores a new application under a generated id.
func (s *Store) InsertApplication(ctx context.Context, app shared.Application) (string, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	doc := applicationDoc{
		ID:          uuid.New().String(),
		StudentID:   app.StudentID,
		PeriodID:    app.PeriodID,
		HonorType:   string(app.HonorType),
		Status:      string(app.Status),
		GWA:         shared.ToBSONDecimal(app.GWA),
		RequiredGWA: shared.ToBSONDecimal(app.RequiredGWA),
		SubmittedAt: app.SubmittedAt,
		UpdatedAt:   app.UpdatedAt,
		ReviewedBy:  app.ReviewedBy,
	}
	if _, err := s.applicationsCol.InsertOne(queryCtx, doc); err != nil {
		return "", fmt.Errorf("insert application: %w", err)
	}
	return doc.ID, nil
}

// GetApplication returns an application by id, or nil when it does not exist.
func (s *Store) GetApplication(ctx context.Context, id string) (*shared.Application, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc applicationDoc
	err := s.applicationsCol.FindOne(queryCtx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find application %s: %w", id, err)
	}
	app := doc.toApplication()
	return &app, nil
}

// UpdateStatus performs a compare-and-set on the status field.
func (s *Store) UpdateStatus(ctx context.Context, id string, from, to shared.ApplicationStatus, reviewer string) (bool, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"status":      string(to),
			"reviewed_by": reviewer,
			"updated_at":  s.now(),
		},
	}
	result, err := s.applicationsCol.UpdateOne(queryCtx, bson.M{"_id": id, "status": string(from)}, update)
	if err != nil {
		return false, fmt.Errorf("update application %s: %w", id, err)
	}
	return result.MatchedCount == 1, nil
}

// ApprovedHonors returns, per student, the honor types of their approved applications.
func (s *Store) ApprovedHonors(ctx context.Context, studentIDs []string) (map[string][]shared.HonorType, error) {
	out := make(map[string][]shared.HonorType)
	if len(studentIDs) == 0 {
		return out, nil
	}

	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"student_id": bson.M{"$in": studentIDs},
		"status":     bson.M{"$in": []string{string(shared.StatusApproved), string(shared.StatusFinalApproved)}},
	}
	cursor, err := s.applicationsCol.Find(queryCtx, filter)
	if err != nil {
		return nil, fmt.Errorf("query approved applications: %w", err)
	}
	defer cursor.Close(queryCtx)

	for cursor.Next(queryCtx) {
		var doc applicationDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode application: %w", err)
		}
		out[doc.StudentID] = append(out[doc.StudentID], shared.HonorType(doc.HonorType))
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate approved applications: %w", err)
	}
	return out, nil
}
