package handler

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rl1809/sam-reclaim/internal/core/service"
)

func dialReclamation(t *testing.T) *ReclamationClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)

	srv := grpc.NewServer()
	RegisterReclamationServer(srv, NewGRPCHandler(startReclamation(t), service.DefaultInactivityThresholdDays))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return NewReclamationClient(conn)
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestGRPCHandler_GetSnapshot(t *testing.T) {
	client := dialReclamation(t)

	out, err := client.GetSnapshot(context.Background())
	require.NoError(t, err)

	snap := out.AsMap()
	assert.NotEmpty(t, snap["session_id"])
	assert.Len(t, snap["candidates"], 15)
	assert.Equal(t, "all", snap["filter"])

	first := snap["visible"].([]any)[0].(map[string]any)
	assert.Equal(t, "u-004", first["user_id"])
	assert.Equal(t, "moderate", first["severity"])
}

func TestGRPCHandler_Execute(t *testing.T) {
	client := dialReclamation(t)
	ctx := context.Background()

	_, err := client.Execute(ctx, mustStruct(t, map[string]any{"command": "select_software_group", "software_id": "sw-004"}))
	require.NoError(t, err)

	out, err := client.Execute(ctx, mustStruct(t, map[string]any{"command": "select_all_visible"}))
	require.NoError(t, err)
	assert.Equal(t, []any{"u-011", "u-012", "u-013", "u-014"}, out.AsMap()["selection"])

	out, err = client.Execute(ctx, mustStruct(t, map[string]any{"command": "notify_selected"}))
	require.NoError(t, err)

	counts := out.AsMap()["metrics"].(map[string]any)["status_counts"].(map[string]any)
	assert.Equal(t, 4.0, counts["notified"])
}

func TestGRPCHandler_Errors(t *testing.T) {
	client := dialReclamation(t)
	ctx := context.Background()

	_, err := client.Execute(ctx, mustStruct(t, map[string]any{"command": "archive"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Execute(ctx, mustStruct(t, map[string]any{"command": 7}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	req := mustStruct(t, map[string]any{"command": "clear_selection", "request_id": "grpc-1"})
	_, err = client.Execute(ctx, req)
	require.NoError(t, err)
	_, err = client.Execute(ctx, req)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = client.Reset(ctx, mustStruct(t, map[string]any{"threshold_days": -3}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPCHandler_Reset(t *testing.T) {
	client := dialReclamation(t)

	out, err := client.Reset(context.Background(), mustStruct(t, map[string]any{"threshold_days": 90}))
	require.NoError(t, err)
	assert.Equal(t, 90.0, out.AsMap()["threshold_days"])
	assert.Len(t, out.AsMap()["candidates"], 7)

	out, err = client.Reset(context.Background(), &structpb.Struct{})
	require.NoError(t, err)
	assert.Equal(t, 60.0, out.AsMap()["threshold_days"])
}

func TestGRPCError(t *testing.T) {
	assert.Equal(t, codes.Unavailable, status.Code(grpcError(service.ErrServiceClosed)))
	assert.Equal(t, codes.Internal, status.Code(grpcError(assert.AnError)))
	assert.Equal(t, codes.DeadlineExceeded, status.Code(grpcError(context.DeadlineExceeded)))
}
