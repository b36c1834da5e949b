package rpc

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"honors_gwa/backend/internal/shared"
)

// Client calls a remote honors service. Domain failures come back as the
// shared error kinds, so callers handle local and remote errors alike.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a Client over an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method string, in, out any) error {
	err := c.cc.Invoke(ctx, fullMethod(method), in, out, grpc.CallContentSubtype(CodecName))
	return fromStatus(err)
}

// ComputeCurrentPeriodGWA returns the active period GWA, or nil
func (c *Client) ComputeCurrentPeriodGWA(ctx context.Context, studentID string) (*GWAResponse, error) {
	out := new(GWAResponse)
	if err := c.invoke(ctx, MethodComputeCurrentPeriodGWA, &StudentRequest{StudentID: studentID}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ComputeApplicationPeriodGWA returns the designated application period GWA, or nil
func (c *Client) ComputeApplicationPeriodGWA(ctx context.Context, studentID string) (*GWAResponse, error) {
	out := new(GWAResponse)
	if err := c.invoke(ctx, MethodComputeApplicationPeriodGWA, &StudentRequest{StudentID: studentID}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// ComputeOverallGWA returns the cumulative GWA, or nil
func (c *Client) ComputeOverallGWA(ctx context.Context, studentID string) (*GWAResponse, error) {
	out := new(GWAResponse)
	if err := c.invoke(ctx, MethodComputeOverallGWA, &StudentRequest{StudentID: studentID}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// CheckEligibility returns the student's eligibility report
func (c *Client) CheckEligibility(ctx context.Context, studentID string) (*EligibilityResponse, error) {
	out := new(EligibilityResponse)
	if err := c.invoke(ctx, MethodCheckEligibility, &StudentRequest{StudentID: studentID}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitApplication submits an application for the caller
func (c *Client) SubmitApplication(ctx context.Context, caller shared.RequestContext, honorType string) (*shared.Application, error) {
	out := new(ApplicationResponse)
	in := &SubmitApplicationRequest{Caller: caller, HonorType: honorType}
	if err := c.invoke(ctx, MethodSubmitApplication, in, out); err != nil {
		return nil, err
	}
	return out.Application, nil
}

// UpdateApplicationStatus changes an application's status
func (c *Client) UpdateApplicationStatus(ctx context.Context, caller shared.RequestContext, applicationID, st string) (*shared.Application, error) {
	out := new(ApplicationResponse)
	in := &UpdateApplicationStatusRequest{Caller: caller, ApplicationID: applicationID, Status: st}
	if err := c.invoke(ctx, MethodUpdateApplicationStatus, in, out); err != nil {
		return nil, err
	}
	return out.Application, nil
}

// BuildHonorRanking returns the ranked honor roll
func (c *Client) BuildHonorRanking(ctx context.Context, req RankingRequest) (*RankingResponse, error) {
	out := new(RankingResponse)
	if err := c.invoke(ctx, MethodBuildHonorRanking, &req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// fromStatus turns the status codes produced by toStatus back into shared
// error kinds. Transport codes are returned unchanged.
func fromStatus(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.InvalidArgument:
		return shared.NewValidationError(st.Message())
	case codes.AlreadyExists:
		return shared.NewConflictError(st.Message())
	case codes.NotFound:
		return shared.NewDataUnavailableError(st.Message())
	case codes.Internal:
		return shared.NewPersistenceError("honors service", errors.New(st.Message()))
	default:
		return err
	}
}
