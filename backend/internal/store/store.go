// ============================================================================
// backend/internal/store/store.go
// MongoDB implementations of the honors collaborators
// ============================================================================

package store

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"honors_gwa/backend/internal/honors"
)

// Collection names
const (
	UsersCollection        = "users"
	GradesCollection       = "grade_records"
	PeriodsCollection      = "academic_periods"
	ApplicationsCollection = "honor_applications"
	SnapshotsCollection    = "gwa_snapshots"
)

const queryTimeout = 10 * time.Second

// Store reads grades, periods and users and persists applications and snapshots.
type Store struct {
	db              *mongo.Database
	usersCol        *mongo.Collection
	gradesCol       *mongo.Collection
	periodsCol      *mongo.Collection
	applicationsCol *mongo.Collection
	snapshotsCol    *mongo.Collection

	now func() time.Time
}

var (
	_ honors.GradeStore               = (*Store)(nil)
	_ honors.PeriodStore              = (*Store)(nil)
	_ honors.ApplicationPeriodService = (*Store)(nil)
	_ honors.ApplicationRepository    = (*Store)(nil)
	_ honors.GWASnapshotStore         = (*Store)(nil)
	_ honors.UserDirectory            = (*Store)(nil)
)

// New creates a new Store instance
func New(db *mongo.Database) *Store {
	return &Store{
		db:              db,
		usersCol:        db.Collection(UsersCollection),
		gradesCol:       db.Collection(GradesCollection),
		periodsCol:      db.Collection(PeriodsCollection),
		applicationsCol: db.Collection(ApplicationsCollection),
		snapshotsCol:    db.Collection(SnapshotsCollection),
		now:             time.Now,
	}
}

// Dependencies wires the store into every persistence slot of the honors service.
func (s *Store) Dependencies() honors.Dependencies {
	return honors.Dependencies{
		Grades:       s,
		Periods:      s,
		Window:       s,
		Applications: s,
		Snapshots:    s,
		Users:        s,
	}
}

// EnsureIndexes creates the indexes the queries rely on. The unique snapshot
// index is what makes Upsert atomic per (student, period).
func (s *Store) EnsureIndexes(ctx context.Context) error {
	queryCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := map[*mongo.Collection][]mongo.IndexModel{
		s.gradesCol: {
			{Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "submission_status", Value: 1}, {Key: "academic_period_id", Value: 1}}},
			{Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "semester_taken", Value: 1}}},
		},
		s.periodsCol: {
			{Keys: bson.D{{Key: "is_active", Value: 1}}},
			{Keys: bson.D{{Key: "start_date", Value: 1}}},
		},
		s.applicationsCol: {
			{Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "submitted_at", Value: 1}}},
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		s.snapshotsCol: {
			{
				Keys:    bson.D{{Key: "student_id", Value: 1}, {Key: "period_id", Value: 1}},
				Options: options.Index().SetUnique(true),
			},
		},
		s.usersCol: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "role", Value: 1}, {Key: "department", Value: 1}}},
		},
	}

	for col, models := range indexes {
		if _, err := col.Indexes().CreateMany(queryCtx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", col.Name(), err)
		}
	}
	log.Println("INFO: MongoDB indexes ensured")
	return nil
}
