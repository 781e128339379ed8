package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/widgetco/fulfillment/internal/fulfillment/ports"
)

const tracerName = "github.com/widgetco/fulfillment/internal/fulfillment/adapters/observability/service"

// Service decorates the fulfillment orchestrator with tracing, logging, and
// metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core fulfillment service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ProcessIntake(ctx context.Context, at time.Time) (ports.IntakeReport, error) {
	ctx, span := s.tracer.Start(ctx, "FulfillmentService.ProcessIntake",
		trace.WithAttributes(attribute.String("sim.at", at.Format(time.RFC3339))))
	defer span.End()

	s.logInfo(ctx, "processing intake", slog.Time("sim.at", at))
	report, err := s.inner.ProcessIntake(ctx, at)
	if err != nil {
		return report, s.handleError(ctx, span, err, "intake pass failed")
	}
	span.SetAttributes(
		attribute.Int("intake.processed", report.Processed),
		attribute.Int("intake.skipped", report.Skipped),
		attribute.Int("intake.failed", report.Failed),
	)
	s.metrics.recordIntake(ctx, report)
	s.logInfo(ctx, "intake pass complete",
		slog.String("run_id", report.RunID),
		slog.Int("processed", report.Processed),
		slog.Int("skipped", report.Skipped),
		slog.Int("failed", report.Failed))
	return report, nil
}

func (s *Service) AdvanceStages(ctx context.Context, at time.Time) (ports.AdvanceReport, error) {
	ctx, span := s.tracer.Start(ctx, "FulfillmentService.AdvanceStages",
		trace.WithAttributes(attribute.String("sim.at", at.Format(time.RFC3339))))
	defer span.End()

	s.logInfo(ctx, "advancing production stages", slog.Time("sim.at", at))
	report, err := s.inner.AdvanceStages(ctx, at)
	if err != nil {
		return report, s.handleError(ctx, span, err, "stage advancement pass failed")
	}
	span.SetAttributes(
		attribute.Int("advance.advanced", report.Advanced),
		attribute.Int("advance.shipped", report.Shipped),
		attribute.Int("advance.failed", report.Failed),
	)
	s.metrics.recordAdvance(ctx, report)
	s.logInfo(ctx, "stage advancement pass complete",
		slog.String("run_id", report.RunID),
		slog.Int("advanced", report.Advanced),
		slog.Int("shipped", report.Shipped),
		slog.Int("failed", report.Failed))
	return report, nil
}

func (s *Service) RunRestock(ctx context.Context, date time.Time) (ports.RestockReport, error) {
	ctx, span := s.tracer.Start(ctx, "FulfillmentService.RunRestock")
	defer span.End()

	s.logInfo(ctx, "running restock", slog.Time("sim.date", date))
	report, err := s.inner.RunRestock(ctx, date)
	if err != nil {
		return report, s.handleError(ctx, span, err, "restock pass failed", slog.String("step", string(report.FailedStep)))
	}
	span.SetAttributes(
		attribute.Int("restock.parts", len(report.Actions)),
		attribute.Float64("restock.total_cost", report.TotalCost),
	)
	s.metrics.recordRestock(ctx, report)
	s.logInfo(ctx, "restock pass complete",
		slog.String("run_id", report.RunID),
		slog.Int("parts", len(report.Actions)),
		slog.Float64("total_cost", report.TotalCost))
	return report, nil
}

func (s *Service) RunPayroll(ctx context.Context, date time.Time) (ports.PayrollReport, error) {
	ctx, span := s.tracer.Start(ctx, "FulfillmentService.RunPayroll")
	defer span.End()

	report, err := s.inner.RunPayroll(ctx, date)
	if err != nil {
		return report, s.handleError(ctx, span, err, "payroll pass failed")
	}
	span.SetAttributes(attribute.Bool("payroll.ran", report.Ran), attribute.Int("payroll.paid", report.Paid))
	if report.Ran {
		s.metrics.recordPayroll(ctx, report)
		s.logInfo(ctx, "payroll complete",
			slog.String("run_id", report.RunID),
			slog.Int("paid", report.Paid),
			slog.Float64("total_paid", report.TotalPaid),
			slog.Int("failed", report.Failed))
	}
	return report, nil
}

func (s *Service) Reconcile(ctx context.Context, at time.Time) (ports.ReconcileReport, error) {
	ctx, span := s.tracer.Start(ctx, "FulfillmentService.Reconcile")
	defer span.End()

	s.logInfo(ctx, "reconciling stores", slog.Time("sim.at", at))
	report, err := s.inner.Reconcile(ctx, at)
	if err != nil {
		return report, s.handleError(ctx, span, err, "reconciliation failed")
	}
	span.SetAttributes(attribute.Int("reconcile.actions", len(report.Actions)))
	s.metrics.recordReconcile(ctx, report)
	if len(report.Actions) > 0 {
		s.logInfo(ctx, "reconciliation healed inconsistencies",
			slog.String("run_id", report.RunID),
			slog.Int("actions", len(report.Actions)))
	}
	return report, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersProcessed  metric.Int64Counter
	ordersShipped    metric.Int64Counter
	partsRestocked   metric.Int64Counter
	payrollPaid      metric.Float64Counter
	reconcileActions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	ordersProcessed, _ := m.Int64Counter("fulfillment.orders_processed", metric.WithDescription("Orders that completed the intake sequence"))
	ordersShipped, _ := m.Int64Counter("fulfillment.orders_shipped", metric.WithDescription("Orders shipped after completing all production stages"))
	partsRestocked, _ := m.Int64Counter("fulfillment.parts_restocked", metric.WithDescription("Parts replenished by restock passes"))
	payrollPaid, _ := m.Float64Counter("fulfillment.payroll_paid", metric.WithDescription("Total payroll disbursed"))
	reconcileActions, _ := m.Int64Counter("fulfillment.reconcile_actions", metric.WithDescription("Cross-store inconsistencies healed"))
	return serviceMetrics{
		ordersProcessed:  ordersProcessed,
		ordersShipped:    ordersShipped,
		partsRestocked:   partsRestocked,
		payrollPaid:      payrollPaid,
		reconcileActions: reconcileActions,
	}
}

func (m serviceMetrics) recordIntake(ctx context.Context, report ports.IntakeReport) {
	if m.ordersProcessed != nil && report.Processed > 0 {
		m.ordersProcessed.Add(ctx, int64(report.Processed))
	}
}

func (m serviceMetrics) recordAdvance(ctx context.Context, report ports.AdvanceReport) {
	if m.ordersShipped != nil && report.Shipped > 0 {
		m.ordersShipped.Add(ctx, int64(report.Shipped))
	}
}

func (m serviceMetrics) recordRestock(ctx context.Context, report ports.RestockReport) {
	if m.partsRestocked != nil && len(report.Actions) > 0 {
		m.partsRestocked.Add(ctx, int64(len(report.Actions)))
	}
}

func (m serviceMetrics) recordPayroll(ctx context.Context, report ports.PayrollReport) {
	if m.payrollPaid != nil && report.TotalPaid > 0 {
		m.payrollPaid.Add(ctx, report.TotalPaid)
	}
}

func (m serviceMetrics) recordReconcile(ctx context.Context, report ports.ReconcileReport) {
	if m.reconcileActions != nil && len(report.Actions) > 0 {
		m.reconcileActions.Add(ctx, int64(len(report.Actions)))
	}
}

var _ ports.Service = (*Service)(nil)
