package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"honors_gwa/backend/internal/auth"
	"honors_gwa/backend/internal/gateway/handlers"
	"honors_gwa/backend/internal/honors"
	"honors_gwa/backend/internal/honors/honorstest"
	"honors_gwa/backend/internal/rpc"
	"honors_gwa/backend/internal/shared"
)

const (
	bufSize      = 1024 * 1024
	testPassword = "secret123"
)

var testCORS = shared.CORSConfig{
	AllowedOrigins: []string{"http://localhost:5173"},
	AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
	AllowedHeaders: []string{"Authorization", "Content-Type"},
	MaxAge:         300,
}

// TestEnv holds the running components for one gateway test
type TestEnv struct {
	Router http.Handler
	Store  *honorstest.Store
	Tokens *auth.AuthService
}

// setupGatewayTestEnv serves the honors service over bufconn and routes the
// gateway at it, all backed by the in-memory store
func setupGatewayTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	store := honorstest.Fixture()
	tokens := auth.NewAuthService(store, shared.SecurityConfig{JWTSecret: "gateway-test", JWTExpirationHours: 1, BCryptCost: 4})
	hash, err := tokens.HashPassword(testPassword)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	student := honorstest.Student("s1", "Santos", 4)
	student.PasswordHash = hash
	store.AddUser(student)
	store.AddHistory("s1", 7, "1.25")
	store.AddGrades(
		honorstest.Grade("s1", honorstest.ActivePeriod, "Calculus", "1.25", "3"),
		honorstest.Grade("s1", honorstest.ActivePeriod, "Physics", "1.50", "3"),
	)

	deps := store.Dependencies()
	deps.Now = func() time.Time { return honorstest.Now }
	svc := honors.NewService(deps)

	lis := bufconn.Listen(bufSize)
	s := grpc.NewServer()
	rpc.RegisterHonorsServer(s, rpc.NewServer(svc, 5*time.Second))
	go func() { s.Serve(lis) }()
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough://bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.Dial() }),
		grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		t.Fatalf("Failed to dial bufnet: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	clients := &ServiceClients{Honors: rpc.NewClient(conn), Auth: tokens}
	return &TestEnv{Router: SetupRoutes(clients, testCORS), Store: store, Tokens: tokens}
}

func (env *TestEnv) token(t *testing.T, u shared.User) string {
	t.Helper()
	tok, _, err := env.Tokens.GenerateToken(&u)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return tok
}

func (env *TestEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	env.Router.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rr.Body.String(), err)
	}
	return resp
}

func faculty() shared.User {
	return shared.User{ID: "fac-1", Role: shared.RoleFaculty, Department: honorstest.Department, IsActive: true}
}

func TestGateway_Auth(t *testing.T) {
	env := setupGatewayTestEnv(t)

	var authToken string
	t.Run("Login Success", func(t *testing.T) {
		rr := env.do("POST", "/api/auth/login", "", map[string]string{
			"identifier": "s1@school.edu.ph",
			"password":   testPassword,
		})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200 OK, got %d. Body: %s", rr.Code, rr.Body.String())
		}
		token, ok := decode(t, rr)["token"].(string)
		if !ok || token == "" {
			t.Fatal("Token missing in response")
		}
		authToken = token
	})

	t.Run("Login Failures", func(t *testing.T) {
		if rr := env.do("POST", "/api/auth/login", "", map[string]string{"identifier": "s1@school.edu.ph", "password": "wrong"}); rr.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for a wrong password, got %d", rr.Code)
		}
		rr := env.do("POST", "/api/auth/login", "", map[string]string{"identifier": "s1@school.edu.ph"})
		if rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 for a missing password, got %d", rr.Code)
		}
		if msg := decode(t, rr)["message"]; msg != "password is required" {
			t.Errorf("unexpected message %v", msg)
		}
	})

	t.Run("Validate Token", func(t *testing.T) {
		rr := env.do("GET", "/api/auth/validate", authToken, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200 OK, got %d", rr.Code)
		}
		user := decode(t, rr)["user"].(map[string]interface{})
		if user["user_id"] != "s1" || user["role"] != shared.RoleStudent {
			t.Errorf("unexpected identity %v", user)
		}
	})

	t.Run("Missing Or Bad Token", func(t *testing.T) {
		if rr := env.do("GET", "/api/honors/eligibility", "", nil); rr.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 without a token, got %d", rr.Code)
		}
		if rr := env.do("GET", "/api/honors/eligibility", "not-a-jwt", nil); rr.Code != http.StatusUnauthorized {
			t.Errorf("Expected 401 for a malformed token, got %d", rr.Code)
		}
	})
}

func TestGateway_Honors(t *testing.T) {
	env := setupGatewayTestEnv(t)
	studentToken := env.token(t, env.Store.Users["s1"])
	facultyToken := env.token(t, faculty())

	t.Run("Eligibility Keys", func(t *testing.T) {
		rr := env.do("GET", "/api/honors/eligibility", studentToken, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200 OK, got %d. Body: %s", rr.Code, rr.Body.String())
		}
		resp := decode(t, rr)
		want := []string{
			"success", "has_grades", "gwa", "total_semesters", "year_level",
			"eligible_for_deans", "eligible_for_summa", "eligible_for_magna", "eligible_for_cum_laude",
			"can_apply_latin_honors", "latin_honors_message", "has_grade_above_25",
		}
		if len(resp) != len(want) {
			t.Errorf("expected %d keys, got %d: %v", len(want), len(resp), resp)
		}
		for _, k := range want {
			if _, ok := resp[k]; !ok {
				t.Errorf("missing key %q", k)
			}
		}
		if resp["has_grades"] != true || resp["gwa"] != 1.37 || resp["total_semesters"] != float64(8) {
			t.Errorf("unexpected values %v", resp)
		}
	})

	t.Run("GWA Endpoints", func(t *testing.T) {
		rr := env.do("GET", "/api/honors/gwa/current", studentToken, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200 OK, got %d", rr.Code)
		}
		resp := decode(t, rr)
		if resp["gwa_display"] != "1.37" || resp["period_id"] != honorstest.ActivePeriodID {
			t.Errorf("unexpected current GWA %v", resp)
		}

		for _, path := range []string{"/api/honors/gwa/application", "/api/honors/gwa/overall"} {
			if rr := env.do("GET", path, studentToken, nil); rr.Code != http.StatusOK || decode(t, rr)["has_data"] != true {
				t.Errorf("%s: unexpected response %d %s", path, rr.Code, rr.Body.String())
			}
		}

		if rr := env.do("GET", "/api/honors/gwa/current", facultyToken, nil); rr.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for faculty, got %d", rr.Code)
		}
	})

	var appID string
	t.Run("Submit Application", func(t *testing.T) {
		rr := env.do("POST", "/api/honors/applications", studentToken, map[string]string{"honor_type": "deans_list"})
		if rr.Code != http.StatusCreated {
			t.Fatalf("Expected 201 Created, got %d. Body: %s", rr.Code, rr.Body.String())
		}
		app := decode(t, rr)["application"].(map[string]interface{})
		appID, _ = app["id"].(string)
		if appID == "" {
			t.Fatalf("application id missing: %v", app)
		}

		rr = env.do("POST", "/api/honors/applications", studentToken, map[string]string{"honor_type": "deans_list"})
		if rr.Code != http.StatusConflict {
			t.Errorf("Expected 409 on resubmission, got %d", rr.Code)
		}

		rr = env.do("POST", "/api/honors/applications", studentToken, map[string]string{"honor_type": "valedictorian"})
		if rr.Code != http.StatusBadRequest || !strings.Contains(decode(t, rr)["message"].(string), "honor_type must be one of") {
			t.Errorf("Expected 400 for an unknown honor, got %d %s", rr.Code, rr.Body.String())
		}
	})

	t.Run("Review Application", func(t *testing.T) {
		path := "/api/honors/applications/" + appID + "/status"
		if rr := env.do("PATCH", path, studentToken, map[string]string{"status": "approved"}); rr.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for a student reviewer, got %d", rr.Code)
		}
		if rr := env.do("PATCH", path, facultyToken, map[string]string{"status": "approved"}); rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 when skipping review, got %d", rr.Code)
		}
		rr := env.do("PATCH", path, facultyToken, map[string]string{"status": "under_review"})
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200 OK, got %d. Body: %s", rr.Code, rr.Body.String())
		}
		if got := env.Store.Applications[appID].Status; got != shared.StatusUnderReview {
			t.Errorf("expected the stored status to change, got %s", got)
		}
		if rr := env.do("PATCH", "/api/honors/applications/missing/status", facultyToken, map[string]string{"status": "approved"}); rr.Code != http.StatusNotFound {
			t.Errorf("Expected 404 for an unknown application, got %d", rr.Code)
		}
	})

	t.Run("Rankings", func(t *testing.T) {
		q := url.Values{"period": {honorstest.ActivePeriod.Label()}, "honor": {"deans_list"}}
		rr := env.do("GET", "/api/honors/rankings?"+q.Encode(), facultyToken, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200 OK, got %d. Body: %s", rr.Code, rr.Body.String())
		}
		resp := decode(t, rr)
		if resp["department"] != honorstest.Department || resp["count"] != float64(1) {
			t.Errorf("unexpected ranking %v", resp)
		}

		if rr := env.do("GET", "/api/honors/rankings?"+q.Encode(), studentToken, nil); rr.Code != http.StatusForbidden {
			t.Errorf("Expected 403 for a student, got %d", rr.Code)
		}
		if rr := env.do("GET", "/api/honors/rankings?honor=deans_list", facultyToken, nil); rr.Code != http.StatusBadRequest {
			t.Errorf("Expected 400 without a period, got %d", rr.Code)
		}
	})

	t.Run("Metrics", func(t *testing.T) {
		rr := env.do("GET", "/metrics", "", nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("Expected 200 OK, got %d", rr.Code)
		}
		body := rr.Body.String()
		if !strings.Contains(body, "honors_gateway_http_requests_total") || !strings.Contains(body, `route="/api/honors/eligibility"`) {
			t.Errorf("expected request counters in the exposition, got:\n%s", body)
		}
	})
}

// unavailableHonors fails every call the way a lazy gRPC client does while
// the honors service is down
type unavailableHonors struct{ handlers.HonorsAPI }

func (unavailableHonors) CheckEligibility(context.Context, string) (*rpc.EligibilityResponse, error) {
	return nil, status.Error(codes.Unavailable, "connection refused")
}

func (unavailableHonors) ComputeCurrentPeriodGWA(context.Context, string) (*rpc.GWAResponse, error) {
	return nil, status.Error(codes.DeadlineExceeded, "deadline exceeded")
}

func TestGateway_ServiceDown(t *testing.T) {
	tokens := auth.NewAuthService(nil, shared.SecurityConfig{JWTSecret: "gateway-test", JWTExpirationHours: 1})
	env := &TestEnv{
		Router: SetupRoutes(&ServiceClients{Honors: unavailableHonors{}, Auth: tokens}, testCORS),
		Tokens: tokens,
	}
	token := env.token(t, honorstest.Student("s1", "Santos", 4))

	if rr := env.do("GET", "/api/honors/eligibility", token, nil); rr.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rr.Code)
	}
	if rr := env.do("GET", "/api/honors/gwa/current", token, nil); rr.Code != http.StatusGatewayTimeout {
		t.Errorf("Expected 504, got %d", rr.Code)
	}
}
