// Package quickentry turns short free-text messages such as "午餐-100" or
// "薪水50000轉帳" into bookkeeping entries.
//
// A message flows through the Parser (shape detection, amount and payment
// method), the Resolver (category lookup in the user's directory), the
// Allocator (date-scoped sequential id) and the Assembler; the Formatter
// renders the outcome for the user. Every stage fails with one of the typed
// kinds declared in errors.go and no stage retries another one's work.
package quickentry

import (
	"bookkeeper/pkg/domain"
	"bookkeeper/pkg/logger"
	"bookkeeper/pkg/serrors"
	"bookkeeper/pkg/storage"
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	operationRecord  = "record"
	operationPreview = "preview"
	outcomeSuccess   = "SUCCESS"
)

// service is the concrete implementation of the Service interface.
type service struct {
	options   Options
	storage   storage.Storage
	directory CategoryDirectory

	parser    *Parser
	resolver  *Resolver
	allocator *Allocator
	assembler Assembler
	formatter Formatter
	telemetry telemetry

	now func() time.Time
}

// New creates a Service storing entries, sequences and jobs in strg and
// reading categories from directory. Pass strg as directory to use the
// storage's own category tables.
func New(strg storage.Storage, directory CategoryDirectory, options Options) (Service, error) {
	return NewWithClock(strg, directory, options, time.Now)
}

// NewWithClock is New with an injectable clock.
func NewWithClock(strg storage.Storage,
	directory CategoryDirectory,
	options Options,
	now func() time.Time) (Service, error) {
	s, err := newService(strg, directory, options, now)
	if err != nil {
		return nil, err
	}

	return s, nil
}

func newService(strg storage.Storage,
	directory CategoryDirectory,
	options Options,
	now func() time.Time) (*service, error) {
	options = options.withDefaults()
	if err := options.validate(); err != nil {
		return nil, fmt.Errorf("invalid quick entry options: %w", err)
	}

	tel, err := newTelemetry()
	if err != nil {
		return nil, err
	}

	return &service{
		options:   options,
		storage:   strg,
		directory: directory,
		parser:    NewParser(options.MinAmountDigits),
		resolver:  NewResolver(directory, NewResolverOptions(options)),
		allocator: NewAllocator(strg, options.Location).WithClock(now),
		assembler: NewAssembler(options.IncomeMajorCodes),
		formatter: NewFormatter(options.Location),
		telemetry: tel,
		now:       now,
	}, nil
}

// Record parses, resolves and stores a quick entry. The id is allocated in the
// same transaction that stores the entry and enqueues its confirmation, so an
// entry that fails to store gives its sequence number back.
func (s *service) Record(ctx context.Context, input domain.RawInput) (Response, error) {
	ctx, span := s.telemetry.tracer.Start(ctx, "quickentry.Record")
	defer span.End()
	ctx = withRequestFields(ctx, input)

	entry, err := s.record(ctx, input)

	return s.respond(ctx, span, operationRecord, input, entry, err)
}

// Preview parses and resolves a quick entry without allocating or storing anything.
func (s *service) Preview(ctx context.Context, input domain.RawInput) (Response, error) {
	ctx, span := s.telemetry.tracer.Start(ctx, "quickentry.Preview")
	defer span.End()
	ctx = withRequestFields(ctx, input)

	fragments, match, err := s.parseAndResolve(ctx, input)
	if err != nil {
		return s.respond(ctx, span, operationPreview, input, domain.ParsedEntry{}, err)
	}
	entry := s.assembler.Assemble(fragments, match, domain.BookkeepingID{}, input.UserID, input.Text, s.now())

	return s.respond(ctx, span, operationPreview, input, entry, nil)
}

// Entry returns the user's entry with the given id.
func (s *service) Entry(ctx context.Context, userID domain.UserID, id domain.BookkeepingID) (*domain.ParsedEntry, error) {
	entry, err := s.storage.EntryByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("could not get entry: %w", err)
	}
	if entry == nil {
		return nil, serrors.With(serrors.ErrNotFound, "entry not found")
	}

	return entry, nil
}

// Categories returns the user's category directory.
func (s *service) Categories(ctx context.Context, userID domain.UserID) ([]domain.CategoryRecord, error) {
	categories, err := s.directory.GetCategories(ctx, userID)
	if err != nil {
		return nil, serrors.Wrap(ErrDirectoryUnavailable, err, "could not load categories")
	}

	return categories, nil
}

func (s *service) parseAndResolve(ctx context.Context,
	input domain.RawInput) (domain.ParsedFragments, domain.MatchResult, error) {
	fragments, err := s.parser.Parse(input.Text)
	if err != nil {
		return domain.ParsedFragments{}, domain.MatchResult{}, err
	}

	ctx, span := s.telemetry.tracer.Start(ctx, "quickentry.Resolve")
	defer span.End()
	match, err := s.resolver.Resolve(ctx, fragments.CategoryPhrase, input.UserID)
	if err != nil {
		return domain.ParsedFragments{}, domain.MatchResult{}, err
	}
	span.SetAttributes(
		attribute.String("quickentry.match_type", string(match.MatchType)),
		attribute.Float64("quickentry.match_score", match.Score),
	)

	return fragments, match, nil
}

func (s *service) record(ctx context.Context, input domain.RawInput) (domain.ParsedEntry, error) {
	fragments, match, err := s.parseAndResolve(ctx, input)
	if err != nil {
		return domain.ParsedEntry{}, err
	}

	createdAt := s.now()
	var entry domain.ParsedEntry
	err = s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		id, err := s.allocate(ctx, tx, createdAt)
		if err != nil {
			return err
		}
		entry = s.assembler.Assemble(fragments, match, id, input.UserID, input.Text, createdAt)

		return s.store(ctx, tx, input, entry)
	})
	if err == nil {
		return entry, nil
	}
	if !errors.Is(err, ErrAllocatorUnavailable) || !s.options.AllowFallbackID {
		return domain.ParsedEntry{}, err
	}

	// the failed transaction is gone; store under a fallback id in a new one
	logger.Warn(ctx, "sequence store unavailable, recording under fallback id", zap.Error(err))
	entry = s.assembler.Assemble(fragments, match, s.allocator.AllocateFallback(), input.UserID, input.Text, createdAt)
	if err := s.storage.WithTx(ctx, func(tx storage.AllStorage) error {
		return s.store(ctx, tx, input, entry)
	}); err != nil {
		return domain.ParsedEntry{}, err
	}

	return entry, nil
}

func (s *service) allocate(ctx context.Context, tx storage.AllStorage, createdAt time.Time) (domain.BookkeepingID, error) {
	ctx, span := s.telemetry.tracer.Start(ctx, "quickentry.Allocate")
	defer span.End()

	start := time.Now()
	id, err := s.allocator.WithStore(tx).Allocate(ctx, createdAt)
	s.telemetry.allocation.Record(ctx, time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("outcome", outcomeOf(err))))

	return id, err
}

// store appends the entry and, when confirmations are enabled, enqueues its
// confirmation job in the same transaction.
func (s *service) store(ctx context.Context, tx storage.AllStorage, input domain.RawInput, entry domain.ParsedEntry) error {
	if err := tx.StoreEntry(ctx, entry); err != nil {
		return fmt.Errorf("could not store entry: %w", err)
	}
	if !s.options.NotifyConfirmations {
		return nil
	}

	if _, err := tx.AddJob(ctx, NewConfirmationJobArgs(
		entry.ID.String(),
		entry.UserID.String(),
		input.RequestID,
		s.formatter.FormatSuccess(entry),
		s.options.MaxAttempts,
	), nil); err != nil {
		return fmt.Errorf("could not add confirmation job: %w", err)
	}

	return nil
}

// respond turns the outcome of an operation into a Response. Expected
// failures become unsuccessful responses; anything else is also returned as
// an error.
func (s *service) respond(ctx context.Context,
	span trace.Span,
	operation string,
	input domain.RawInput,
	entry domain.ParsedEntry,
	err error) (Response, error) {
	outcome := outcomeOf(err)
	s.telemetry.outcomes.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
	span.SetAttributes(attribute.String("quickentry.outcome", outcome))

	if err == nil {
		logger.Info(ctx, "quick entry accepted",
			zap.String("operation", operation),
			zap.Stringer("entryID", entry.ID),
			zap.Int64("amount", entry.Amount),
			zap.String("subCode", entry.Category.SubCode))

		return Response{
			Success: true,
			Message: s.formatter.FormatSuccess(entry),
			Entry:   &entry,
		}, nil
	}

	res := Response{
		Success:   false,
		Message:   s.formatter.FormatFailure(err, input.Text),
		ErrorKind: outcome,
	}

	if IsExpected(err) {
		logger.Info(ctx, "quick entry rejected",
			zap.String("operation", operation),
			zap.String("kind", outcome),
			zap.Error(err))

		return res, nil
	}

	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	logger.Error(ctx, "quick entry failed", zap.String("operation", operation), zap.Error(err))

	return res, fmt.Errorf("could not %s quick entry: %w", operation, err)
}

func outcomeOf(err error) string {
	if err == nil {
		return outcomeSuccess
	}

	return serrors.Code(err)
}

func withRequestFields(ctx context.Context, input domain.RawInput) context.Context {
	fields := []zap.Field{zap.Stringer("userID", input.UserID)}
	if input.RequestID != "" {
		fields = append(fields, zap.String("requestID", input.RequestID))
	}

	return logger.WithFields(ctx, fields...)
}
