package services

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	types "github.com/yungbote/blueprints-backend/internal/domain"
	domainagg "github.com/yungbote/blueprints-backend/internal/domain/aggregates"
	"github.com/yungbote/blueprints-backend/internal/domain/drawing"
	"github.com/yungbote/blueprints-backend/internal/observability"
	"github.com/yungbote/blueprints-backend/internal/platform/ctxutil"
	"github.com/yungbote/blueprints-backend/internal/platform/logger"
)

const eventPublishTimeout = 2 * time.Second

// ErrInternal marks failures that are neither caller errors nor transient storage conditions.
var ErrInternal = errors.New("internal error")

// BlueprintEventPublisher receives change events after a write commits.
type BlueprintEventPublisher interface {
	Publish(ctx context.Context, evt types.Event) error
}

// BlueprintService is the only entry point callers use for blueprints.
// Failures match drawing.ErrBlueprintNotFound, ErrBlueprintExists,
// ErrInvalidBlueprint or ErrPersistenceUnavailable with errors.Is.
type BlueprintService interface {
	GetAllBlueprints(ctx context.Context) ([]*types.Blueprint, error)
	GetBlueprintsByAuthor(ctx context.Context, author string) ([]*types.Blueprint, error)
	GetBlueprint(ctx context.Context, author, name string) (*types.Blueprint, error)
	AddNewBlueprint(ctx context.Context, author, name string, points []types.Point) (*types.Blueprint, error)
	AddPoint(ctx context.Context, author, name string, x, y int) (*types.Blueprint, error)
}

type blueprintService struct {
	log     *logger.Logger
	agg     domainagg.BlueprintAggregate
	events  BlueprintEventPublisher
	metrics *observability.Metrics
}

func NewBlueprintService(
	baseLog *logger.Logger,
	agg domainagg.BlueprintAggregate,
	events BlueprintEventPublisher,
	metrics *observability.Metrics,
) BlueprintService {
	return &blueprintService{
		log:     baseLog.With("service", "BlueprintService"),
		agg:     agg,
		events:  events,
		metrics: metrics,
	}
}

func (s *blueprintService) GetAllBlueprints(ctx context.Context) (out []*types.Blueprint, err error) {
	ctx, span := startSpan(ctx, "BlueprintService.GetAllBlueprints")
	defer func() { endSpan(span, err) }()

	rows, err := s.agg.FindAll(ctx)
	if err != nil {
		return nil, s.translate(ctx, "GetAllBlueprints", err, "", "")
	}
	span.SetAttributes(attribute.Int("blueprint.count", len(rows)))
	return rows, nil
}

func (s *blueprintService) GetBlueprintsByAuthor(ctx context.Context, author string) (out []*types.Blueprint, err error) {
	ctx, span := startSpan(ctx, "BlueprintService.GetBlueprintsByAuthor", attribute.String("blueprint.author", author))
	defer func() { endSpan(span, err) }()

	rows, err := s.agg.FindByAuthor(ctx, author)
	if err != nil {
		return nil, s.translate(ctx, "GetBlueprintsByAuthor", err, author, "")
	}
	// An unknown author and an author with zero blueprints are indistinguishable here.
	if len(rows) == 0 {
		return nil, notFound(author, "")
	}
	return rows, nil
}

func (s *blueprintService) GetBlueprint(ctx context.Context, author, name string) (out *types.Blueprint, err error) {
	ctx, span := startSpan(ctx, "BlueprintService.GetBlueprint",
		attribute.String("blueprint.author", author),
		attribute.String("blueprint.name", name),
	)
	defer func() { endSpan(span, err) }()

	bp, err := s.agg.FindByAuthorAndName(ctx, author, name)
	if err != nil {
		return nil, s.translate(ctx, "GetBlueprint", err, author, name)
	}
	if bp == nil {
		return nil, notFound(author, name)
	}
	return bp, nil
}

func (s *blueprintService) AddNewBlueprint(ctx context.Context, author, name string, points []types.Point) (out *types.Blueprint, err error) {
	ctx, span := startSpan(ctx, "BlueprintService.AddNewBlueprint",
		attribute.String("blueprint.author", author),
		attribute.String("blueprint.name", name),
		attribute.Int("blueprint.points", len(points)),
	)
	defer func() { endSpan(span, err) }()

	res, err := s.agg.Save(ctx, domainagg.SaveBlueprintInput{Author: author, Name: name, Points: points})
	if err != nil {
		return nil, s.translate(ctx, "AddNewBlueprint", err, author, name)
	}
	s.publish(ctx, types.Event{
		Type:       types.EventBlueprintCreated,
		Author:     res.Blueprint.Author,
		Name:       res.Blueprint.Name,
		PointCount: len(res.Blueprint.Points),
	})
	return res.Blueprint, nil
}

func (s *blueprintService) AddPoint(ctx context.Context, author, name string, x, y int) (out *types.Blueprint, err error) {
	ctx, span := startSpan(ctx, "BlueprintService.AddPoint",
		attribute.String("blueprint.author", author),
		attribute.String("blueprint.name", name),
	)
	defer func() { endSpan(span, err) }()

	res, err := s.agg.AppendPoint(ctx, domainagg.AppendPointInput{Author: author, Name: name, X: x, Y: y})
	if err != nil {
		return nil, s.translate(ctx, "AddPoint", err, author, name)
	}
	span.SetAttributes(attribute.Int("blueprint.ordinal", res.Ordinal))
	s.publish(ctx, types.Event{
		Type:       types.EventPointAdded,
		Author:     res.Blueprint.Author,
		Name:       res.Blueprint.Name,
		PointCount: len(res.Blueprint.Points),
		Point:      &types.Point{X: x, Y: y},
	})
	return res.Blueprint, nil
}

// translate converts aggregate codes into domain errors. Storage details are
// logged and never returned.
func (s *blueprintService) translate(ctx context.Context, op string, err error, author, name string) error {
	code := domainagg.CodeOf(err)
	switch {
	case code == domainagg.CodeNotFound:
		return notFound(author, name)
	case code == domainagg.CodeConflict:
		return drawing.NewError(drawing.ErrBlueprintExists, "Blueprint already exists: %s:%s", author, name)
	case code == domainagg.CodeValidation:
		if name == "" && op == "GetBlueprintsByAuthor" {
			return drawing.NewError(drawing.ErrInvalidBlueprint, "author is required")
		}
		return drawing.NewError(drawing.ErrInvalidBlueprint, "author and name are required")
	case code.Transient():
		s.log.Warn("persistence unavailable", append(ctxutil.LogFields(ctx), "op", op, "error", err)...)
		return drawing.NewError(drawing.ErrPersistenceUnavailable, "persistence unavailable")
	default:
		s.log.Error("blueprint operation failed", append(ctxutil.LogFields(ctx), "op", op, "code", string(code), "error", err)...)
		return drawing.NewError(ErrInternal, "internal error")
	}
}

func (s *blueprintService) publish(ctx context.Context, evt types.Event) {
	if s.events == nil {
		return
	}
	evt.OccurredAt = time.Now().UTC()
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), eventPublishTimeout)
	defer cancel()
	if err := s.events.Publish(pubCtx, evt); err != nil {
		s.metrics.IncEventPublished(evt.Type, "error")
		s.log.Warn("event publish failed", append(ctxutil.LogFields(ctx), "type", evt.Type, "blueprint", evt.Author+":"+evt.Name, "error", err)...)
		return
	}
	s.metrics.IncEventPublished(evt.Type, "ok")
}

func notFound(author, name string) error {
	if name == "" {
		return drawing.NewError(drawing.ErrBlueprintNotFound, "No blueprints for author: %s", author)
	}
	return drawing.NewError(drawing.ErrBlueprintNotFound, "Blueprint not found: %s/%s", author, name)
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return observability.Tracer().Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
