package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	jmespath "github.com/jmespath-community/go-jmespath"
	"github.com/target/storefront-admin/internal/apiclient"
	"github.com/target/storefront-admin/internal/domain/model"
	apperrors "github.com/target/storefront-admin/internal/errors"
)

// exprData selects the envelope payload.
const exprData = "data"

var errEnvelopeRejected = errors.New("backend reported success=false")

// BackendOptions groups dependencies for Backend.
type BackendOptions struct {
	Pipeline *apiclient.Pipeline
	Logger   *slog.Logger
}

// Backend decodes storefront API envelopes returned by the request pipeline.
type Backend struct {
	pipeline *apiclient.Pipeline
	log      *slog.Logger
}

// NewBackend constructs a Backend.
func NewBackend(opts BackendOptions) *Backend {
	return &Backend{pipeline: opts.Pipeline, log: opts.Logger}
}

func (b *Backend) logger() *slog.Logger {
	if b.log != nil {
		return b.log
	}
	return slog.Default()
}

// result is one decoded backend answer.
type result[T any] struct {
	Value      T
	Pagination *model.Pagination
	Message    string
}

// fetch executes req and decodes the value selected by expr from the envelope.
func fetch[T any](ctx context.Context, b *Backend, req apiclient.Request, expr string) (result[T], error) {
	var res result[T]
	if b == nil || b.pipeline == nil {
		return res, apperrors.Internal("backend is not configured")
	}

	out := b.pipeline.Execute(ctx, req)
	if !out.Ok() {
		return res, upstreamError(out.Err())
	}

	if string(out.Data()) == "null" {
		return res, nil
	}
	var env model.Envelope
	if err := json.Unmarshal(out.Data(), &env); err != nil {
		return res, apperrors.Upstream(err, "Unexpected response from the store API")
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "Request failed"
		}
		return res, apperrors.Upstream(errEnvelopeRejected, msg)
	}
	res.Message = env.Message
	res.Pagination = env.Pagination

	if expr == "" {
		return res, nil
	}
	if err := extract(out.Data(), expr, &res.Value); err != nil {
		b.logger().WarnContext(ctx, "decode backend response failed",
			"path", req.Path, "expr", expr, "error", err)
		return res, apperrors.Upstream(err, "Unexpected response from the store API")
	}
	return res, nil
}

// send executes a mutation whose response payload is not needed.
func send(ctx context.Context, b *Backend, req apiclient.Request) (string, error) {
	res, err := fetch[json.RawMessage](ctx, b, req, "")
	if err != nil {
		return "", err
	}
	return res.Message, nil
}

// extract evaluates expr against the decoded body and re-decodes the match into out.
func extract(body []byte, expr string, out any) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	found, err := jmespath.Search(expr, doc)
	if err != nil {
		return fmt.Errorf("search %q: %w", expr, err)
	}
	if found == nil {
		return nil
	}
	raw, err := json.Marshal(found)
	if err != nil {
		return fmt.Errorf("encode match: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode match: %w", err)
	}
	return nil
}

// upstreamError maps a pipeline failure onto an AppError. The pipeline error
// stays in the chain so apiclient.IsAuthExpired keeps working.
func upstreamError(err *apiclient.Error) error {
	if err == nil {
		return apperrors.Internal("request failed without an error")
	}
	switch err.Kind {
	case apiclient.KindAuthExpired:
		return apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, err.Message)
	case apiclient.KindNetwork:
		return apperrors.Upstream(err, "The store API is unreachable. Please try again.")
	}
	switch err.StatusCode {
	case http.StatusNotFound:
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, err.Message)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Message)
	case http.StatusConflict:
		return apperrors.Wrap(err, apperrors.ErrCodeConflict, err.Message)
	case http.StatusForbidden:
		return apperrors.Wrap(err, apperrors.ErrCodeForbidden, err.Message)
	}
	return apperrors.Upstream(err, err.Message)
}

// validationError turns model.FieldErrors into a validation AppError that keeps the map.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fields model.FieldErrors
	if errors.As(err, &fields) && len(fields) == 1 {
		for field, msg := range fields {
			return &apperrors.AppError{Code: apperrors.ErrCodeValidation, Message: msg, Field: field, Cause: fields}
		}
	}
	return apperrors.Wrap(err, apperrors.ErrCodeValidation, "Please correct the highlighted fields")
}

type actorKey struct{}

// WithActor records the signed-in administrator's email for activity logging.
func WithActor(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, actorKey{}, email)
}

func actorFrom(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	if actor == "" {
		return "unknown"
	}
	return actor
}
