package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"honors_gwa/backend/internal/shared"
)

// GetYearLevel returns the student's year level. ok is false for unknown
// students and accounts without one.
func (s *Store) GetYearLevel(ctx context.Context, studentID string) (int, bool, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var doc bson.M
	opts := options.FindOne().SetProjection(bson.M{"year_level": 1})
	err := s.usersCol.FindOne(queryCtx, bson.M{"_id": studentID}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("find user %s: %w", studentID, err)
	}

	level, err := shared.GetInt(doc["year_level"])
	if err != nil || level == 0 {
		return 0, false, nil
	}
	return level, true, nil
}

// ListStudents returns the active students of a department ordered by id.
func (s *Store) ListStudents(ctx context.Context, department string) ([]shared.Student, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"role":       shared.RoleStudent,
		"department": department,
		"is_active":  true,
	}
	cursor, err := s.usersCol.Find(queryCtx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("query students: %w", err)
	}
	defer cursor.Close(queryCtx)

	var students []shared.Student
	for cursor.Next(queryCtx) {
		var u shared.User
		if err := cursor.Decode(&u); err != nil {
			return nil, fmt.Errorf("decode student: %w", err)
		}
		students = append(students, shared.Student{
			ID:         u.ID,
			FirstName:  u.FirstName,
			LastName:   u.LastName,
			Section:    u.Section,
			YearLevel:  u.YearLevel,
			Department: u.Department,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate students: %w", err)
	}
	return students, nil
}

// FindByIdentifier looks an account up by email or student number. Unknown
// identifiers are (nil, nil).
func (s *Store) FindByIdentifier(ctx context.Context, identifier string) (*shared.User, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"$or": []bson.M{
		{"email": identifier},
		{"student_number": identifier},
	}}
	var u shared.User
	err := s.usersCol.FindOne(queryCtx, filter).Decode(&u)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// UpsertUser writes an account. It is used by the seeder.
func (s *Store) UpsertUser(ctx context.Context, u shared.User) error {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := s.usersCol.ReplaceOne(queryCtx, bson.M{"_id": u.ID}, u, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert user %s: %w", u.ID, err)
	}
	return nil
}
