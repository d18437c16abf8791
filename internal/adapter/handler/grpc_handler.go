package handler

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/rl1809/sam-reclaim/internal/core/service"
)

type GRPCHandler struct {
	reclamation      *service.ReclamationService
	defaultThreshold int
}

var _ ReclamationServer = (*GRPCHandler)(nil)

func NewGRPCHandler(reclamation *service.ReclamationService, defaultThreshold int) *GRPCHandler {
	return &GRPCHandler{reclamation: reclamation, defaultThreshold: defaultThreshold}
}

func (h *GRPCHandler) GetSnapshot(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	snap, err := h.reclamation.Snapshot(ctx)
	if err != nil {
		return nil, grpcError(err)
	}
	return snapshotStruct(snap)
}

func (h *GRPCHandler) Execute(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req CommandRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid command: %v", err)
	}

	snap, err := h.reclamation.Execute(ctx, req.toCommand())
	if err != nil {
		return nil, grpcError(err)
	}
	return snapshotStruct(snap)
}

func (h *GRPCHandler) Reset(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req ResetRequest
	if err := decodeStruct(in, &req); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid reset request: %v", err)
	}

	snap, err := h.reclamation.Reset(ctx, req.threshold(h.defaultThreshold))
	if err != nil {
		return nil, grpcError(err)
	}
	return snapshotStruct(snap)
}

func decodeStruct(in *structpb.Struct, target any) error {
	if in == nil {
		return nil
	}
	b, err := protojson.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, target)
}

func snapshotStruct(snap service.Snapshot) (*structpb.Struct, error) {
	b, err := json.Marshal(snap)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode snapshot: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode snapshot: %v", err)
	}
	return out, nil
}

func grpcError(err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidCommand):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, service.ErrDuplicateRequest):
		return status.Error(codes.AlreadyExists, "duplicate request")
	case errors.Is(err, service.ErrServiceClosed):
		return status.Error(codes.Unavailable, "service unavailable")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
