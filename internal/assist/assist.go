// Package assist runs assistance tasks end to end: render the prompt,
// call the provider gateway, parse and validate the output, and fold
// everything into a single result with one of four terminal statuses.
package assist

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"polarassist/internal/prompt"
	"polarassist/internal/provider"
	"polarassist/internal/schema"
)

// TaskType names an assistance task on the wire and in logs.
type TaskType string

const (
	TaskClassify        TaskType = "classify"
	TaskKeywords        TaskType = "keywords"
	TaskAbstractQuality TaskType = "abstract_quality"
	TaskSpatialExtract  TaskType = "spatial_extract"
	TaskPrefill         TaskType = "prefill"
	TaskReviewNotes     TaskType = "review_notes"
	TaskTitle           TaskType = "title"
	TaskPurpose         TaskType = "purpose"
	TaskResolution      TaskType = "resolution"
	TaskQueryParse      TaskType = "query_parse"
	TaskSummary         TaskType = "search_summary"
	TaskAnswer          TaskType = "answer"
)

// Status is the terminal state of an assistance run. Every run ends in
// exactly one of these; there is no fifth outcome.
type Status string

const (
	// StatusSuccess: the primary provider answered and the output validated
	// cleanly.
	StatusSuccess Status = "success"
	// StatusDegraded: a usable output arrived, but via a fallback provider
	// or with validation warnings attached.
	StatusDegraded Status = "degraded"
	// StatusDisabled: no provider is configured. Expected, not a fault.
	StatusDisabled Status = "disabled"
	// StatusFailed: all providers failed, the output was malformed, or
	// validation rejected it.
	StatusFailed Status = "failed"
)

// Result is the outcome of one assistance run.
type Result[T any] struct {
	Task          TaskType
	Status        Status
	Output        T
	Diagnostics   []schema.Diagnostic
	Provider      string
	Fallback      bool
	Elapsed       time.Duration
	CorrelationID string
	// Err holds the underlying failure for StatusFailed runs. It is nil
	// for every other status.
	Err error
}

// Usable reports whether the result carries output a caller may present.
func (r Result[T]) Usable() bool {
	return r.Status == StatusSuccess || r.Status == StatusDegraded
}

// Generator is the slice of the provider gateway the adapters need.
type Generator interface {
	Generate(ctx context.Context, req provider.Request) (provider.Response, error)
	Disabled() bool
}

// ParseFunc turns raw provider text into a typed output plus diagnostics.
// A non-nil error means the response had no usable structure.
type ParseFunc[T any] func(raw string) (T, []schema.Diagnostic, error)

// run executes one task against the gateway and classifies the outcome.
func run[T any](ctx context.Context, gen Generator, logger *zap.Logger, task TaskType, in prompt.Input, parse ParseFunc[T]) Result[T] {
	res := Result[T]{Task: task, CorrelationID: uuid.NewString()}

	start := time.Now()
	resp, err := gen.Generate(ctx, provider.Request{
		Task:        string(task),
		System:      in.System,
		User:        in.User,
		MaxTokens:   in.MaxTokens,
		Temperature: in.Temperature,
	})
	// Measured here rather than taken from the response so Failed runs
	// still report how long the retry chain took.
	res.Elapsed = time.Since(start)
	if err != nil {
		if errors.Is(err, provider.ErrDisabled) {
			res.Status = StatusDisabled
			return res
		}
		res.Status = StatusFailed
		res.Err = err
		logger.Warn("assistance task failed",
			zap.String("task", string(task)),
			zap.String("correlation_id", res.CorrelationID),
			zap.Error(err))
		return res
	}
	res.Provider = resp.Provider
	res.Fallback = resp.Fallback

	out, diags, perr := parse(resp.Text)
	res.Diagnostics = diags
	if perr != nil {
		res.Status = StatusFailed
		res.Err = perr
		logger.Warn("assistance response unparseable",
			zap.String("task", string(task)),
			zap.String("provider", resp.Provider),
			zap.String("correlation_id", res.CorrelationID),
			zap.Error(perr))
		return res
	}
	if schema.HasErrors(diags) {
		res.Status = StatusFailed
		res.Err = errors.New("response rejected by validation")
		logger.Warn("assistance response rejected",
			zap.String("task", string(task)),
			zap.String("provider", resp.Provider),
			zap.String("correlation_id", res.CorrelationID),
			zap.Int("diagnostics", len(diags)))
		return res
	}

	res.Output = out
	if res.Fallback || schema.HasWarnings(diags) {
		res.Status = StatusDegraded
	} else {
		res.Status = StatusSuccess
	}
	logger.Debug("assistance task completed",
		zap.String("task", string(task)),
		zap.String("provider", resp.Provider),
		zap.String("status", string(res.Status)),
		zap.Duration("elapsed", res.Elapsed),
		zap.String("correlation_id", res.CorrelationID))
	return res
}

// failed builds a Failed result without a provider round trip, used for
// input guards.
func failed[T any](task TaskType, diag schema.Diagnostic) Result[T] {
	return Result[T]{
		Task:          task,
		Status:        StatusFailed,
		Diagnostics:   []schema.Diagnostic{diag},
		CorrelationID: uuid.NewString(),
		Err:           errors.New(diag.Message),
	}
}
