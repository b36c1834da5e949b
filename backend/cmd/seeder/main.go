package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"honors_gwa/backend/internal/auth"
	"honors_gwa/backend/internal/shared"
	"honors_gwa/backend/internal/store"
)

// Seed accounts
const (
	AdminID1   = "admin-001"
	FacultyID1 = "faculty-001"
	StudentID1 = "student-001" // Maria Santos, consistent 1.25 record
	StudentID2 = "student-002" // Jose Reyes, dean's list only
	StudentID3 = "student-003" // Ana Cruz, one grade above 2.5

	CommonPassword = "password"
	Department     = "CCS"
)

// SubjectSeed is one subject taken in every seeded semester
type SubjectSeed struct {
	Code  string
	Name  string
	Units string
}

var subjects = []SubjectSeed{
	{"CS101", "Introduction to Computing", "3"},
	{"MATH101", "Calculus I", "3"},
	{"ENG101", "Purposive Communication", "3"},
	{"NSTP1", "National Service Training Program 1", "3"},
}

// studentGrades is the grade each student gets per subject, in subject order
var studentGrades = map[string][]string{
	StudentID1: {"1.25", "1.00", "1.50", "1.00"},
	StudentID2: {"1.75", "1.50", "1.75", "1.25"},
	StudentID3: {"1.25", "2.75", "1.50", "1.00"},
}

func main() {
	log.Println("Starting Honors Database Seeder...")

	if err := shared.LoadEnv(".env"); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	cfg, err := shared.LoadServiceConfig("seeder")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	client, db, err := shared.ConnectMongoDB(&cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer shared.DisconnectMongoDB(client)

	if err := db.Drop(context.Background()); err != nil {
		log.Fatalf("Failed to drop database: %v", err)
	}
	log.Println("Database cleared successfully.")

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	st := store.New(db)
	if err := st.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	// --- 1. Seed Periods ---
	periods := seedPeriods(ctx, st, time.Now())

	// --- 2. Seed Users ---
	seedUsers(ctx, st, auth.NewAuthService(nil, cfg.Security))

	// --- 3. Seed Grades (History & Current) ---
	seedGrades(ctx, st, periods)

	log.Println("All data seeding completed successfully.")
}

// ============================================================================
// SEEDING FUNCTIONS
// ============================================================================

// seedPeriods creates eight consecutive regular semesters ending with an
// active one that contains now
func seedPeriods(ctx context.Context, st *store.Store, now time.Time) []shared.AcademicPeriod {
	log.Println("--- Seeding Academic Periods ---")

	year := now.Year()
	sem := shared.SemesterFirst
	if now.Month() < time.July {
		sem = shared.SemesterSecond
		year--
	}

	periods := make([]shared.AcademicPeriod, 8)
	for i := len(periods) - 1; i >= 0; i-- {
		p := shared.AcademicPeriod{
			ID:         fmt.Sprintf("period-%d-%s", year, sem),
			Semester:   sem,
			SchoolYear: fmt.Sprintf("%d-%d", year, year+1),
		}
		if sem == shared.SemesterFirst {
			p.StartDate = time.Date(year, time.August, 1, 0, 0, 0, 0, time.UTC)
			p.EndDate = time.Date(year, time.December, 20, 23, 59, 59, 0, time.UTC)
		} else {
			p.StartDate = time.Date(year+1, time.January, 8, 0, 0, 0, 0, time.UTC)
			p.EndDate = time.Date(year+1, time.May, 31, 23, 59, 59, 0, time.UTC)
		}
		if i == len(periods)-1 {
			p.IsActive = true
			p.StartDate = now.AddDate(0, -1, 0)
			p.EndDate = now.AddDate(0, 3, 0)
		}
		periods[i] = p

		if sem == shared.SemesterSecond {
			sem = shared.SemesterFirst
		} else {
			sem = shared.SemesterSecond
			year--
		}
	}

	for _, p := range periods {
		if err := st.UpsertPeriod(ctx, p); err != nil {
			log.Fatalf("Error seeding period %s: %v", p.ID, err)
		}
		log.Printf("Seeded Period: %s (active: %t)", p.Label(), p.IsActive)
	}
	return periods
}

func seedUsers(ctx context.Context, st *store.Store, tokens *auth.AuthService) {
	log.Println("--- Seeding Users ---")

	now := time.Now()
	users := []shared.User{
		{ID: AdminID1, FirstName: "Super", LastName: "Admin", Email: "admin@example.com", Role: shared.RoleAdmin, IsActive: true, CreatedAt: now},
		{ID: FacultyID1, FirstName: "Jane", LastName: "Professor", Email: "faculty@example.com", Role: shared.RoleFaculty, IsActive: true, CreatedAt: now, Department: Department},
		{ID: StudentID1, FirstName: "Maria", LastName: "Santos", Email: "student@example.com", Role: shared.RoleStudent, IsActive: true, CreatedAt: now, StudentNumber: "2021-00001", Section: "BSCS 4A", YearLevel: 4, Department: Department},
		{ID: StudentID2, FirstName: "Jose", LastName: "Reyes", Email: "student2@example.com", Role: shared.RoleStudent, IsActive: true, CreatedAt: now, StudentNumber: "2021-00002", Section: "BSCS 4A", YearLevel: 4, Department: Department},
		{ID: StudentID3, FirstName: "Ana", LastName: "Cruz", Email: "student3@example.com", Role: shared.RoleStudent, IsActive: true, CreatedAt: now, StudentNumber: "2021-00003", Section: "BSCS 4B", YearLevel: 4, Department: Department},
	}

	hashedPassword, err := tokens.HashPassword(CommonPassword)
	if err != nil {
		log.Fatalf("Error hashing seed password: %v", err)
	}

	for _, u := range users {
		u.PasswordHash = hashedPassword
		if err := st.UpsertUser(ctx, u); err != nil {
			log.Fatalf("Error seeding user %s: %v", u.Email, err)
		}
		log.Printf("Seeded %s: %s", u.Role, u.Email)
	}
}

func seedGrades(ctx context.Context, st *store.Store, periods []shared.AcademicPeriod) {
	log.Println("--- Seeding Grades ---")

	for studentID, grades := range studentGrades {
		var records []shared.GradeRecord
		for _, p := range periods {
			submissionID := fmt.Sprintf("SUB-%s-%s", studentID, p.ID)
			for i, subj := range subjects {
				records = append(records, shared.GradeRecord{
					ID:               fmt.Sprintf("%s-%s", submissionID, subj.Code),
					StudentID:        studentID,
					SubjectCode:      subj.Code,
					SubjectName:      subj.Name,
					Units:            decimal.RequireFromString(subj.Units),
					Grade:            decimal.RequireFromString(grades[i]),
					SemesterTaken:    p.Label(),
					SubmissionID:     submissionID,
					PeriodID:         p.ID,
					SubmissionStatus: shared.SubmissionProcessed,
				})
			}
		}

		if err := st.InsertGrades(ctx, records); err != nil {
			log.Fatalf("Error seeding grades for %s: %v", studentID, err)
		}
		log.Printf("Seeded %d grades for %s", len(records), studentID)
	}
}
