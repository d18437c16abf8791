package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rl1809/sam-reclaim/internal/port"
)

var (
	ErrInvalidCommand   = errors.New("invalid command")
	ErrDuplicateRequest = errors.New("duplicate request")
	ErrServiceClosed    = errors.New("reclamation service closed")
)

const (
	defaultQueueSize     = 64
	idempotencyKeyPrefix = "command:"
)

type Options struct {
	ThresholdDays int
	QueueSize     int
	// Idempotency deduplicates request ids. Nil disables deduplication.
	Idempotency port.IdempotencyStore
	Logger      *slog.Logger
}

type operation func(ctx context.Context) (Snapshot, error)

type request struct {
	ctx   context.Context
	op    operation
	reply chan result
}

type result struct {
	snapshot Snapshot
	err      error
}

// ReclamationService is the single owner of a view session. Commands are
// queued and applied one at a time by Run.
type ReclamationService struct {
	inventory   port.InventorySource
	idempotency port.IdempotencyStore
	logger      *slog.Logger
	tracer      trace.Tracer

	requests  chan request
	closed    chan struct{}
	closeOnce sync.Once
	stopped   chan struct{}
	runOnce   sync.Once

	// Owned by the Run loop once it starts.
	engine        *Engine
	sessionID     string
	thresholdDays int
}

// NewReclamationService derives the initial candidate set from inventory.
func NewReclamationService(ctx context.Context, inventory port.InventorySource, opts Options) (*ReclamationService, error) {
	if opts.ThresholdDays < 0 {
		return nil, fmt.Errorf("%w: negative threshold %d", ErrInvalidCommand, opts.ThresholdDays)
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &ReclamationService{
		inventory:   inventory,
		idempotency: opts.Idempotency,
		logger:      opts.Logger,
		tracer:      otel.Tracer("github.com/rl1809/sam-reclaim/internal/core/service"),
		requests:    make(chan request, opts.QueueSize),
		closed:      make(chan struct{}),
		stopped:     make(chan struct{}),
	}

	if err := s.load(ctx, opts.ThresholdDays); err != nil {
		return nil, err
	}
	return s, nil
}

// load replaces the session state wholesale.
func (s *ReclamationService) load(ctx context.Context, thresholdDays int) error {
	candidates, err := BuildCandidates(ctx, s.inventory, thresholdDays)
	if err != nil {
		return fmt.Errorf("build candidates: %w", err)
	}

	s.engine = NewEngine(candidates)
	s.sessionID = uuid.NewString()
	s.thresholdDays = thresholdDays
	observeEngine(s.engine)

	s.logger.Info("reclamation session started",
		"session_id", s.sessionID,
		"threshold_days", thresholdDays,
		"candidates", len(candidates),
	)
	return nil
}

// Run applies queued requests until ctx is done or Close is called.
func (s *ReclamationService) Run(ctx context.Context) error {
	started := false
	s.runOnce.Do(func() { started = true })
	if !started {
		return errors.New("reclamation service already running")
	}
	defer close(s.stopped)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.closed:
			return nil
		case req := <-s.requests:
			if err := req.ctx.Err(); err != nil {
				req.reply <- result{err: err}
				continue
			}
			snap, err := req.op(req.ctx)
			req.reply <- result{snapshot: snap, err: err}
		}
	}
}

// Close stops Run. Pending and later requests fail with ErrServiceClosed.
func (s *ReclamationService) Close() {
	s.closeOnce.Do(func() { close(s.closed) })
}

func (s *ReclamationService) submit(ctx context.Context, op operation) (Snapshot, error) {
	req := request{ctx: ctx, op: op, reply: make(chan result, 1)}

	select {
	case <-s.closed:
		return Snapshot{}, ErrServiceClosed
	default:
	}

	select {
	case s.requests <- req:
	case <-s.closed:
		return Snapshot{}, ErrServiceClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}

	select {
	case res := <-req.reply:
		return res.snapshot, res.err
	case <-s.stopped:
		return Snapshot{}, ErrServiceClosed
	case <-ctx.Done():
		return Snapshot{}, ctx.Err()
	}
}

func (s *ReclamationService) current() Snapshot {
	return s.engine.Snapshot(s.sessionID, s.thresholdDays)
}

func (s *ReclamationService) Snapshot(ctx context.Context) (Snapshot, error) {
	return s.submit(ctx, func(context.Context) (Snapshot, error) {
		return s.current(), nil
	})
}

// Execute applies cmd and returns the resulting snapshot. Commands on
// unknown or ineligible targets succeed without changing anything.
func (s *ReclamationService) Execute(ctx context.Context, cmd Command) (Snapshot, error) {
	ctx, span := s.tracer.Start(ctx, "reclamation.Execute", trace.WithAttributes(
		attribute.String("command", string(cmd.Kind)),
	))
	defer span.End()

	snap, err := s.execute(ctx, cmd)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return snap, err
}

func (s *ReclamationService) execute(ctx context.Context, cmd Command) (Snapshot, error) {
	if err := cmd.Validate(); err != nil {
		commandsTotal.WithLabelValues(string(cmd.Kind), resultError).Inc()
		return Snapshot{}, err
	}

	// The request id is claimed inside the loop; a command that expires in
	// the queue leaves it unused.
	return s.submit(ctx, func(ctx context.Context) (Snapshot, error) {
		if cmd.RequestID != "" && s.idempotency != nil {
			ok, err := s.idempotency.SetIdempotency(ctx, idempotencyKeyPrefix+cmd.RequestID)
			if err != nil {
				commandsTotal.WithLabelValues(string(cmd.Kind), resultError).Inc()
				return Snapshot{}, fmt.Errorf("idempotency check failed: %w", err)
			}
			if !ok {
				commandsTotal.WithLabelValues(string(cmd.Kind), resultDuplicate).Inc()
				return Snapshot{}, ErrDuplicateRequest
			}
		}

		before := s.engine.Revision()
		cmd.apply(s.engine)

		outcome := resultNoop
		if s.engine.Revision() != before {
			outcome = resultApplied
			observeEngine(s.engine)
		}
		commandsTotal.WithLabelValues(string(cmd.Kind), outcome).Inc()

		s.logger.Debug("reclamation command",
			"session_id", s.sessionID,
			"command", cmd.Kind,
			"request_id", cmd.RequestID,
			"user_id", cmd.UserID,
			"software_id", cmd.SoftwareID,
			"result", outcome,
		)
		return s.current(), nil
	})
}

// Reset re-derives the candidate set with a new threshold and starts a new
// session. On error the current session is kept.
func (s *ReclamationService) Reset(ctx context.Context, thresholdDays int) (Snapshot, error) {
	if thresholdDays < 0 {
		return Snapshot{}, fmt.Errorf("%w: negative threshold %d", ErrInvalidCommand, thresholdDays)
	}

	ctx, span := s.tracer.Start(ctx, "reclamation.Reset", trace.WithAttributes(
		attribute.Int("threshold_days", thresholdDays),
	))
	defer span.End()

	snap, err := s.submit(ctx, func(ctx context.Context) (Snapshot, error) {
		if err := s.load(ctx, thresholdDays); err != nil {
			return Snapshot{}, err
		}
		return s.current(), nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.Error("reclamation reset failed", "threshold_days", thresholdDays, "error", err)
	}
	return snap, err
}
