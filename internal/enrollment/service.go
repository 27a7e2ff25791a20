// internal/enrollment/service.go
package enrollment

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	apperrors "activity-registry/internal/common/errors"
	"activity-registry/internal/common/logger"
	"activity-registry/internal/common/metrics"
	"activity-registry/internal/common/observability"
	"activity-registry/internal/common/validation"
	"activity-registry/internal/events"
	"activity-registry/internal/notify"
	"activity-registry/internal/registry"

	ozzo "github.com/go-ozzo/ozzo-validation/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	OpSignup     = "signup"
	OpUnregister = "unregister"
	OpList       = "list"
)

// Service applies enrollment requests to the registry and reports the
// outcome to metrics, events and notifications.
type Service struct {
	config    *Config
	registry  *registry.Registry
	publisher events.Publisher
	notifier  notify.Notifier
	obs       *observability.Observability
	logger    logger.Logger
}

type Option func(*Service)

func WithPublisher(p events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

func WithObservability(o *observability.Observability) Option {
	return func(s *Service) { s.obs = o }
}

func NewService(config *Config, reg *registry.Registry, log logger.Logger, opts ...Option) *Service {
	if config == nil {
		config = DefaultConfig()
	}
	s := &Service{
		config:    config,
		registry:  reg,
		publisher: events.Noop{},
		notifier:  notify.Noop{},
		logger:    log.With(map[string]interface{}{"component": "enrollment"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.publishRosters()
	return s
}

// ListActivities returns a snapshot of every activity.
func (s *Service) ListActivities(ctx context.Context) map[string]registry.Activity {
	start := time.Now()
	_, span := s.obs.StartSpan(ctx, "registry.list")
	defer span.End()

	all := s.registry.List()
	span.SetAttributes(attribute.Int("activity.count", len(all)))
	s.obs.RecordOperation(ctx, OpList, "success", time.Since(start))
	return all
}

// Signup enrolls input.Email in input.Activity.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*Result, error) {
	email := validation.NormalizeEmail(input.Email)
	return s.apply(ctx, OpSignup, input.Activity, email, func() (registry.RosterStat, error) {
		return s.registry.Enroll(input.Activity, email)
	}, func(stat registry.RosterStat) string {
		s.afterSignup(ctx, stat, email)
		return fmt.Sprintf("Signed up %s for %s", email, input.Activity)
	})
}

// Unregister removes input.Email from input.Activity.
func (s *Service) Unregister(ctx context.Context, input UnregisterInput) (*Result, error) {
	email := validation.NormalizeEmail(input.Email)
	return s.apply(ctx, OpUnregister, input.Activity, email, func() (registry.RosterStat, error) {
		return s.registry.Unenroll(input.Activity, email)
	}, func(stat registry.RosterStat) string {
		s.emit(ctx, events.NewEvent(events.TypeUnregistered, stat.Name, email, stat.Size, stat.Capacity))
		return fmt.Sprintf("Unregistered %s from %s", email, input.Activity)
	})
}

func (s *Service) apply(
	ctx context.Context,
	op, activity, email string,
	mutate func() (registry.RosterStat, error),
	onSuccess func(registry.RosterStat) string,
) (*Result, error) {
	start := time.Now()
	ctx, span := s.obs.StartSpan(ctx, "registry."+op,
		attribute.String("activity.name", activity),
	)
	defer span.End()

	// An unknown activity is reported as such whatever the email holds.
	if _, err := s.registry.Get(activity); err != nil {
		return nil, s.fail(ctx, span, op, activity, err, start)
	}
	if err := validateEmail(email); err != nil {
		return nil, s.fail(ctx, span, op, activity, err, start)
	}

	stat, err := mutate()
	if err != nil {
		return nil, s.fail(ctx, span, op, activity, err, start)
	}

	metrics.RecordOperation(op, "success")
	metrics.SetRoster(stat.Name, stat.Size, stat.Capacity)
	s.obs.RecordOperation(ctx, op, "success", time.Since(start))
	span.SetAttributes(attribute.Int("roster.size", stat.Size))

	s.logger.Info("Roster updated", map[string]interface{}{
		"operation":  op,
		"activity":   activity,
		"rosterSize": stat.Size,
		"capacity":   stat.Capacity,
	})

	return &Result{Message: onSuccess(stat)}, nil
}

func (s *Service) fail(ctx context.Context, span trace.Span, op, activity string, err error, start time.Time) error {
	code := string(apperrors.ErrCodeInternal)
	var stdErr *apperrors.StandardError
	if stderrors.As(err, &stdErr) {
		code = string(stdErr.Code)
	}

	metrics.RecordOperation(op, code)
	s.obs.RecordOperation(ctx, op, code, time.Since(start))
	span.RecordError(err)
	span.SetStatus(codes.Error, code)

	s.logger.Info("Roster change rejected", map[string]interface{}{
		"operation": op,
		"activity":  activity,
		"errorCode": code,
	})
	return err
}

func validateEmail(email string) error {
	err := ozzo.Errors{
		"email": ozzo.Validate(email, validation.EmailRules...),
	}.Filter()
	if err == nil {
		return nil
	}
	return apperrors.NewInvalidRequestError(validation.ToResult(err).Summary())
}

func (s *Service) afterSignup(ctx context.Context, stat registry.RosterStat, email string) {
	s.emit(ctx, events.NewEvent(events.TypeSignedUp, stat.Name, email, stat.Size, stat.Capacity))

	a, err := s.registry.Get(stat.Name)
	if err != nil {
		return
	}

	nctx, cancel := s.sideEffectContext(ctx)
	defer cancel()
	if err := s.notifier.SignupConfirmed(nctx, stat.Name, a.Schedule, email); err != nil {
		metrics.NotificationFailures.Inc()
		s.logger.Warn("Failed to send signup confirmation", map[string]interface{}{
			"activity": stat.Name,
			"error":    err.Error(),
		})
	}
}

// emit publishes after the roster change is committed. Delivery failures
// never undo or fail the change; the publisher logs and counts them per sink.
func (s *Service) emit(ctx context.Context, event events.Event) {
	pctx, cancel := s.sideEffectContext(ctx)
	defer cancel()
	_ = s.publisher.Publish(pctx, event)
}

func (s *Service) sideEffectContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := s.config.PublishTimeout
	if timeout <= 0 {
		timeout = DefaultConfig().PublishTimeout
	}
	return context.WithTimeout(context.WithoutCancel(ctx), timeout)
}

// publishRosters seeds the roster gauges so /metrics shows every activity
// before the first change.
func (s *Service) publishRosters() {
	for _, stat := range s.registry.Stats() {
		metrics.SetRoster(stat.Name, stat.Size, stat.Capacity)
	}
}
