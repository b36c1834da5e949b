package rpc

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"honors_gwa/backend/internal/honors"
	"honors_gwa/backend/internal/shared"
)

// Server implements HonorsServer on top of honors.Service
type Server struct {
	svc     *honors.Service
	timeout time.Duration
}

var _ HonorsServer = (*Server)(nil)

// NewServer creates a new Server instance. Each call runs under timeout when it is positive.
func NewServer(svc *honors.Service, timeout time.Duration) *Server {
	return &Server{svc: svc, timeout: timeout}
}

func (s *Server) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func requireStudent(req *StudentRequest) error {
	if req == nil || strings.TrimSpace(req.StudentID) == "" {
		return status.Error(codes.InvalidArgument, "student_id is required")
	}
	return nil
}

// ComputeCurrentPeriodGWA returns the GWA of the active period
func (s *Server) ComputeCurrentPeriodGWA(ctx context.Context, req *StudentRequest) (*GWAResponse, error) {
	if err := requireStudent(req); err != nil {
		return nil, err
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	res, err := s.svc.ComputeCurrentPeriodGWA(ctx, req.StudentID)
	if err != nil {
		return nil, toStatus(MethodComputeCurrentPeriodGWA, err)
	}
	return &GWAResponse{GWA: res}, nil
}

// ComputeApplicationPeriodGWA returns the GWA of the designated application period
func (s *Server) ComputeApplicationPeriodGWA(ctx context.Context, req *StudentRequest) (*GWAResponse, error) {
	if err := requireStudent(req); err != nil {
		return nil, err
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	res, period, err := s.svc.ComputeDesignatedApplicationPeriodGWA(ctx, req.StudentID)
	if err != nil {
		return nil, toStatus(MethodComputeApplicationPeriodGWA, err)
	}
	return &GWAResponse{GWA: res, Period: period}, nil
}

// ComputeOverallGWA returns the cumulative GWA
func (s *Server) ComputeOverallGWA(ctx context.Context, req *StudentRequest) (*GWAResponse, error) {
	if err := requireStudent(req); err != nil {
		return nil, err
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	res, err := s.svc.ComputeOverallGWA(ctx, req.StudentID)
	if err != nil {
		return nil, toStatus(MethodComputeOverallGWA, err)
	}
	return &GWAResponse{GWA: res}, nil
}

// CheckEligibility evaluates every honor for a student
func (s *Server) CheckEligibility(ctx context.Context, req *StudentRequest) (*EligibilityResponse, error) {
	if err := requireStudent(req); err != nil {
		return nil, err
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	report, err := s.svc.EvaluateEligibility(ctx, req.StudentID)
	if err != nil {
		return nil, toStatus(MethodCheckEligibility, err)
	}
	return &EligibilityResponse{Report: report}, nil
}

// SubmitApplication records an honor application
func (s *Server) SubmitApplication(ctx context.Context, req *SubmitApplicationRequest) (*ApplicationResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	app, err := s.svc.SubmitApplication(ctx, req.Caller, req.HonorType)
	if err != nil {
		return nil, toStatus(MethodSubmitApplication, err)
	}
	return &ApplicationResponse{Application: app}, nil
}

// UpdateApplicationStatus moves an application along the review workflow
func (s *Server) UpdateApplicationStatus(ctx context.Context, req *UpdateApplicationStatusRequest) (*ApplicationResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	app, err := s.svc.UpdateApplicationStatus(ctx, req.Caller, req.ApplicationID, req.Status)
	if err != nil {
		return nil, toStatus(MethodUpdateApplicationStatus, err)
	}
	return &ApplicationResponse{Application: app}, nil
}

// BuildHonorRanking builds an honor roll
func (s *Server) BuildHonorRanking(ctx context.Context, req *RankingRequest) (*RankingResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	ctx, cancel := s.callContext(ctx)
	defer cancel()

	entries, err := s.svc.BuildHonorRanking(ctx, req.Department, req.Period, req.HonorType)
	if err != nil {
		return nil, toStatus(MethodBuildHonorRanking, err)
	}
	return &RankingResponse{Entries: entries}, nil
}

// toStatus maps a service error onto a gRPC status. Persistence failures
// become Internal and anything unclassified becomes Unknown; both are logged
// with their cause and sent with the generic recovery message.
func toStatus(method string, err error) error {
	var (
		validation *shared.ValidationError
		conflict   *shared.ConflictError
		missing    *shared.DataUnavailableError
		persist    *shared.PersistenceError
	)
	msg, _ := shared.Recover(err)
	switch {
	case errors.As(err, &validation):
		return status.Error(codes.InvalidArgument, msg)
	case errors.As(err, &conflict):
		return status.Error(codes.AlreadyExists, msg)
	case errors.As(err, &missing):
		return status.Error(codes.NotFound, msg)
	case errors.As(err, &persist):
		log.Printf("ERROR: %s: %v", method, err)
		return status.Error(codes.Internal, msg)
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "the request timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "the request was canceled")
	default:
		log.Printf("ERROR: %s: %v", method, err)
		return status.Error(codes.Unknown, msg)
	}
}
