package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully-qualified gRPC service name
const ServiceName = "honors.HonorsService"

// Method names
const (
	MethodComputeCurrentPeriodGWA     = "ComputeCurrentPeriodGWA"
	MethodComputeApplicationPeriodGWA = "ComputeApplicationPeriodGWA"
	MethodComputeOverallGWA           = "ComputeOverallGWA"
	MethodCheckEligibility            = "CheckEligibility"
	MethodSubmitApplication           = "SubmitApplication"
	MethodUpdateApplicationStatus     = "UpdateApplicationStatus"
	MethodBuildHonorRanking           = "BuildHonorRanking"
)

// HonorsServer is the server API of the honors service
type HonorsServer interface {
	ComputeCurrentPeriodGWA(context.Context, *StudentRequest) (*GWAResponse, error)
	ComputeApplicationPeriodGWA(context.Context, *StudentRequest) (*GWAResponse, error)
	ComputeOverallGWA(context.Context, *StudentRequest) (*GWAResponse, error)
	CheckEligibility(context.Context, *StudentRequest) (*EligibilityResponse, error)
	SubmitApplication(context.Context, *SubmitApplicationRequest) (*ApplicationResponse, error)
	UpdateApplicationStatus(context.Context, *UpdateApplicationStatusRequest) (*ApplicationResponse, error)
	BuildHonorRanking(context.Context, *RankingRequest) (*RankingResponse, error)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary adapts a typed server method to a grpc.MethodDesc
func unary[Req, Resp any](name string, call func(HonorsServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(HonorsServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(HonorsServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes HonorsService for grpc.Server.RegisterService
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*HonorsServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodComputeCurrentPeriodGWA, HonorsServer.ComputeCurrentPeriodGWA),
		unary(MethodComputeApplicationPeriodGWA, HonorsServer.ComputeApplicationPeriodGWA),
		unary(MethodComputeOverallGWA, HonorsServer.ComputeOverallGWA),
		unary(MethodCheckEligibility, HonorsServer.CheckEligibility),
		unary(MethodSubmitApplication, HonorsServer.SubmitApplication),
		unary(MethodUpdateApplicationStatus, HonorsServer.UpdateApplicationStatus),
		unary(MethodBuildHonorRanking, HonorsServer.BuildHonorRanking),
	},
	Streams: []grpc.StreamDesc{},
}

// RegisterHonorsServer registers srv on s
func RegisterHonorsServer(s grpc.ServiceRegistrar, srv HonorsServer) {
	s.RegisterService(&ServiceDesc, srv)
}
