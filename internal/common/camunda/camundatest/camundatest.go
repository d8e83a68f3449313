// Package camundatest provides a worker.JobClient whose commands reach a
// testify mock gateway instead of a broker.
package camundatest

import (
	"context"
	"encoding/json"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/mock"
	"google.golang.org/grpc"
)

// MockGateway records the job commands sent by workers. Only CompleteJob,
// FailJob and ThrowError are implemented.
type MockGateway struct {
	pb.GatewayClient
	mock.Mock
}

func (m *MockGateway) CompleteJob(ctx context.Context, in *pb.CompleteJobRequest, _ ...grpc.CallOption) (*pb.CompleteJobResponse, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pb.CompleteJobResponse), args.Error(1)
}

func (m *MockGateway) FailJob(ctx context.Context, in *pb.FailJobRequest, _ ...grpc.CallOption) (*pb.FailJobResponse, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pb.FailJobResponse), args.Error(1)
}

func (m *MockGateway) ThrowError(ctx context.Context, in *pb.ThrowErrorRequest, _ ...grpc.CallOption) (*pb.ThrowErrorResponse, error) {
	args := m.Called(in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pb.ThrowErrorResponse), args.Error(1)
}

// JobClient builds real zeebe commands on top of Gateway.
type JobClient struct {
	Gateway *MockGateway
}

func NewJobClient() *JobClient {
	return &JobClient{Gateway: new(MockGateway)}
}

func noRetry(context.Context, error) bool { return false }

func (c *JobClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	return commands.NewCompleteJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	return commands.NewFailJobCommand(c.Gateway, noRetry)
}

func (c *JobClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	return commands.NewThrowErrorCommand(c.Gateway, noRetry)
}

// Variables decodes the JSON variables carried by a command request.
func Variables(raw string) map[string]interface{} {
	vars := map[string]interface{}{}
	_ = json.Unmarshal([]byte(raw), &vars)
	return vars
}
