package store

import (
	"context"
	"fmt"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"honors_gwa/backend/internal/honors"
	"honors_gwa/backend/internal/shared"
)

// FetchProcessedGrades returns the student's grade rows whose submission has
// been processed. Grade rows carry their submission's status and period
// denormalized, so this is a single query.
func (s *Store) FetchProcessedGrades(ctx context.Context, studentID string, f honors.GradeFilter) ([]shared.GradeRecord, error) {
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{
		"student_id":        studentID,
		"submission_status": shared.SubmissionProcessed,
	}
	if f.PeriodID != "" {
		filter["academic_period_id"] = f.PeriodID
	}
	if f.SemesterTaken != "" {
		filter["semester_taken"] = f.SemesterTaken
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "semester_taken", Value: 1}, {Key: "subject_code", Value: 1}})

	cursor, err := s.gradesCol.Find(queryCtx, filter, findOptions)
	if err != nil {
		return nil, fmt.Errorf("query grades: %w", err)
	}
	defer cursor.Close(queryCtx)

	var records []shared.GradeRecord
	for cursor.Next(queryCtx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode grade: %w", err)
		}
		rec, err := documentToGrade(doc)
		if err != nil {
			log.Printf("WARN: skipping malformed grade row %v: %v", doc["_id"], err)
			continue
		}
		records = append(records, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate grades: %w", err)
	}
	return records, nil
}

// InsertGrades writes grade rows as-is. It is used by the seeder.
func (s *Store) InsertGrades(ctx context.Context, records []shared.GradeRecord) error {
	if len(records) == 0 {
		return nil
	}
	queryCtx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	docs := make([]interface{}, len(records))
	for i, r := range records {
		docs[i] = gradeToDocument(r)
	}
	if _, err := s.gradesCol.InsertMany(queryCtx, docs); err != nil {
		return fmt.Errorf("insert grades: %w", err)
	}
	return nil
}

func documentToGrade(doc bson.M) (shared.GradeRecord, error) {
	var rec shared.GradeRecord

	id, err := shared.GetString(doc["_id"])
	if err != nil {
		return rec, fmt.Errorf("missing _id")
	}
	rec.ID = id

	if rec.Units, err = shared.GetDecimal(doc["units"]); err != nil {
		return rec, fmt.Errorf("units: %w", err)
	}
	if rec.Grade, err = shared.GetDecimal(doc["grade"]); err != nil {
		return rec, fmt.Errorf("grade: %w", err)
	}

	rec.StudentID, _ = shared.GetString(doc["student_id"])
	rec.SubjectCode, _ = shared.GetString(doc["subject_code"])
	rec.SubjectName, _ = shared.GetString(doc["subject_name"])
	rec.SemesterTaken, _ = shared.GetString(doc["semester_taken"])
	rec.SubmissionID, _ = shared.GetString(doc["submission_id"])
	rec.PeriodID, _ = shared.GetString(doc["academic_period_id"])
	rec.SubmissionStatus, _ = shared.GetString(doc["submission_status"])

	return rec, nil
}

func gradeToDocument(r shared.GradeRecord) bson.M {
	return bson.M{
		"_id":                r.ID,
		"student_id":         r.StudentID,
		"subject_code":       r.SubjectCode,
		"subject_name":       r.SubjectName,
		"units":              shared.ToBSONDecimal(r.Units),
		"grade":              shared.ToBSONDecimal(r.Grade),
		"semester_taken":     r.SemesterTaken,
		"submission_id":      r.SubmissionID,
		"academic_period_id": r.PeriodID,
		"submission_status":  r.SubmissionStatus,
	}
}
