package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"honors_gwa/backend/internal/shared"
)

type snapshotDoc struct {
	ID            string    `bson:"_id"`
	StudentID     string    `bson:"student_id"`
	PeriodID      string    `bson:"period_id"`
	GWA           float64   `bson:"gwa"`
	TotalUnits    float64   `bson:"total_units"`
	SubjectsCount int       `bson:"subjects_count"`
	SourcePeriod  string    `bson:"source_period_id,omitempty"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func (d snapshotDoc) toSnapshot() shared.GWASnapshot {
	gwa, _ := shared.GetDecimal(d.GWA)
	units, _ := shared.GetDecimal(d.TotalUnits)
	return shared.GWASnapshot{
		ID:            d.ID,
		StudentID:     d.StudentID,
		PeriodID:      d.PeriodID,
		GWA:           gwa,
		TotalUnits:    units,
		SubjectsCount: d.SubjectsCount,
		SourcePeriod:  d.SourcePeriod,
		UpdatedAt:     d.UpdatedAt,
	}
}

// Upsert writes the snapshot of (studentID, periodID) in a single
// find-and-modify so concurrent submissions converge on one document.
func (s *Store) Upsert(ctx context.Context, studentID, periodID string, res shared.GWAResult) (string, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"student_id": studentID, "period_id": periodID}
	update := bson.M{
		"$set": bson.M{
			"gwa":              shared.ToBSONDecimal(res.Value),
			"total_units":      shared.ToBSONDecimal(res.TotalUnits),
			"subjects_count":   res.SubjectsCount,
			"source_period_id": res.PeriodID,
			"updated_at":       s.now(),
		},
		"$setOnInsert": bson.M{"_id": uuid.New().String()},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc snapshotDoc
	if err := s.snapshotsCol.FindOneAndUpdate(queryCtx, filter, update, opts).Decode(&doc); err != nil {
		return "", fmt.Errorf("upsert GWA snapshot: %w", err)
	}
	return doc.ID, nil
}

// GetSnapshot returns the snapshot of (studentID, periodID), or nil.
func (s *Store) GetSnapshot(ctx context.Context, studentID, periodID string) (*shared.GWASnapshot, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc snapshotDoc
	err := s.snapshotsCol.FindOne(queryCtx, bson.M{"student_id": studentID, "period_id": periodID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find GWA snapshot: %w", err)
	}
	snap := doc.toSnapshot()
	return &snap, nil
}
