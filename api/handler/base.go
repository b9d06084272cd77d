package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/domain"
	"github.com/taskdeck/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, message string, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(message, data))
}

func (h baseHandler) respondPaginated(ctx *fasthttp.RequestCtx, data interface{}, pagination transport.Pagination) {
	h.respondJSON(ctx, http.StatusOK, transport.NewPaginated("", data, pagination))
}

// respondError maps typed domain errors to their status and message;
// anything untyped becomes a generic 500 so lower-level failure details
// never reach the client.
func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	dErr, ok := domain.AsDomainError(err)
	if !ok {
		h.logger.Error("unclassified error", zap.Error(err))
		h.respondJSON(ctx, http.StatusInternalServerError, transport.NewError("Internal Server Error"))
		return
	}
	h.respondJSON(ctx, statusFor(dErr.Code), transport.NewError(dErr.Message))
}

func statusFor(code domain.ErrorCode) int {
	switch code {
	case domain.ErrCodeInvalid:
		return http.StatusBadRequest
	case domain.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case domain.ErrCodeForbidden:
		return http.StatusForbidden
	case domain.ErrCodeNotFound:
		return http.StatusNotFound
	case domain.ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
