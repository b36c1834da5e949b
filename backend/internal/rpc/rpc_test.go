package rpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"honors_gwa/backend/internal/honors"
	"honors_gwa/backend/internal/honors/honorstest"
	"honors_gwa/backend/internal/shared"
)

const bufSize = 1024 * 1024

func setupTestClient(t *testing.T, store *honorstest.Store) *Client {
	t.Helper()

	deps := store.Dependencies()
	deps.Now = func() time.Time { return honorstest.Now }
	svc := honors.NewService(deps)

	lis := bufconn.Listen(bufSize)
	s := grpc.NewServer()
	RegisterHonorsServer(s, NewServer(svc, 5*time.Second))
	go func() { s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough://bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("Failed to dial bufnet: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return NewClient(conn)
}

func seededStore() *honorstest.Store {
	store := honorstest.Fixture()
	store.AddUser(honorstest.Student("s1", "Santos", 4))
	store.AddHistory("s1", 7, "1.25")
	store.AddGrades(
		honorstest.Grade("s1", honorstest.ActivePeriod, "Calculus", "1.25", "3"),
		honorstest.Grade("s1", honorstest.ActivePeriod, "Physics", "1.50", "3"),
	)
	return store
}

func TestHonorsServiceOverGRPC(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	client := setupTestClient(t, store)

	t.Run("Current Period GWA", func(t *testing.T) {
		resp, err := client.ComputeCurrentPeriodGWA(ctx, "s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.GWA == nil || !resp.GWA.Value.Equal(decimal.RequireFromString("1.37")) {
			t.Errorf("expected 1.37, got %+v", resp.GWA)
		}
	})

	t.Run("No Data Is Not An Error", func(t *testing.T) {
		resp, err := client.ComputeCurrentPeriodGWA(ctx, "nobody")
		if err != nil || resp.GWA != nil {
			t.Errorf("expected an empty response, got %+v, %v", resp, err)
		}
	})

	t.Run("Application Period GWA", func(t *testing.T) {
		resp, err := client.ComputeApplicationPeriodGWA(ctx, "s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Period == nil || resp.Period.ID != honorstest.ActivePeriodID {
			t.Errorf("expected the active period, got %+v", resp.Period)
		}
	})

	t.Run("Overall GWA", func(t *testing.T) {
		resp, err := client.ComputeOverallGWA(ctx, "s1")
		if err != nil || resp.GWA == nil {
			t.Fatalf("expected an overall GWA, got %+v, %v", resp, err)
		}
		if resp.GWA.SubjectsCount != 9 {
			t.Errorf("expected 9 subjects, got %d", resp.GWA.SubjectsCount)
		}
	})

	t.Run("Eligibility", func(t *testing.T) {
		resp, err := client.CheckEligibility(ctx, "s1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		r := resp.Report
		if !r.Result.DeansList || !r.Result.MagnaCumLaude || r.TotalSemesters != 8 {
			t.Errorf("unexpected report %+v", r)
		}
		if r.Result.Reasons[shared.HonorSummaCumLaude] == "" {
			t.Error("expected a reason for summa cum laude")
		}
	})

	t.Run("Missing Student ID", func(t *testing.T) {
		_, err := client.CheckEligibility(ctx, "")
		var ve *shared.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("expected a validation error, got %v", err)
		}
	})

	var appID string
	t.Run("Submit", func(t *testing.T) {
		caller := shared.RequestContext{UserID: "s1", Role: shared.RoleStudent}
		app, err := client.SubmitApplication(ctx, caller, "deans_list")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if app.Status != shared.StatusSubmitted || !app.RequiredGWA.Equal(decimal.RequireFromString("1.75")) {
			t.Errorf("unexpected application %+v", app)
		}
		appID = app.ID

		_, err = client.SubmitApplication(ctx, caller, "deans_list")
		var ce *shared.ConflictError
		if !errors.As(err, &ce) {
			t.Errorf("expected a conflict on resubmission, got %v", err)
		}
	})

	t.Run("Review", func(t *testing.T) {
		caller := shared.RequestContext{UserID: "fac-1", Role: shared.RoleFaculty}
		app, err := client.UpdateApplicationStatus(ctx, caller, appID, "under_review")
		if err != nil || app.Status != shared.StatusUnderReview {
			t.Fatalf("unexpected result %+v, %v", app, err)
		}

		_, err = client.UpdateApplicationStatus(ctx, caller, "missing", "approved")
		var de *shared.DataUnavailableError
		if !errors.As(err, &de) {
			t.Errorf("expected data unavailable, got %v", err)
		}
	})

	t.Run("Ranking", func(t *testing.T) {
		resp, err := client.BuildHonorRanking(ctx, RankingRequest{
			Department: honorstest.Department,
			Period:     honorstest.ActivePeriod.Label(),
			HonorType:  "deans_list",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(resp.Entries) != 1 || resp.Entries[0].Rank != 1 || !resp.Entries[0].GWA.Equal(decimal.RequireFromString("1.375")) {
			t.Errorf("unexpected ranking %+v", resp.Entries)
		}
	})
}

func TestPersistenceFailureOverGRPC(t *testing.T) {
	store := seededStore()
	store.FailInsert = errors.New("write concern timeout")
	client := setupTestClient(t, store)

	_, err := client.SubmitApplication(context.Background(), shared.RequestContext{UserID: "s1", Role: shared.RoleStudent}, "deans_list")
	var pe *shared.PersistenceError
	if !errors.As(err, &pe) {
		t.Fatalf("expected a persistence error, got %v", err)
	}
	if msg, sev := shared.Recover(err); sev != shared.SeverityError || msg == "write concern timeout" {
		t.Errorf("cause must not leak to the caller: %q (%s)", msg, sev)
	}
}

func TestToStatus(t *testing.T) {
	cases := []struct {
		err  error
		want codes.Code
	}{
		{shared.NewValidationError("bad"), codes.InvalidArgument},
		{shared.NewConflictError("dup"), codes.AlreadyExists},
		{shared.NewDataUnavailableError("none"), codes.NotFound},
		{shared.NewPersistenceError("save", errors.New("boom")), codes.Internal},
		{context.DeadlineExceeded, codes.DeadlineExceeded},
		{errors.New("surprise"), codes.Unknown},
	}
	for _, tc := range cases {
		if got := status.Code(toStatus("Test", tc.err)); got != tc.want {
			t.Errorf("%v: got %s, want %s", tc.err, got, tc.want)
		}
	}

	if err := fromStatus(status.Error(codes.Unavailable, "down")); status.Code(err) != codes.Unavailable {
		t.Errorf("transport codes should pass through, got %v", err)
	}
}
