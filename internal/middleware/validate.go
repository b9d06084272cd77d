package middleware

import (
	"encoding/json"

	"github.com/valyala/fasthttp"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/api/validation"
)

// Validate checks the request body against a declarative schema before
// the handler runs. All field violations are collected but only the
// first one is surfaced, with 403, matching the write-route contract.
func Validate(schema validation.Schema) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			body := map[string]any{}
			if raw := ctx.PostBody(); len(raw) > 0 {
				if err := json.Unmarshal(raw, &body); err != nil {
					respondValidation(ctx, fasthttp.StatusBadRequest, "Invalid payload")
					return
				}
			}

			if messages := schema.Validate(body); len(messages) > 0 {
				respondValidation(ctx, fasthttp.StatusForbidden, messages[0])
				return
			}

			next(ctx)
		}
	}
}

func respondValidation(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(transport.NewError(message))
	ctx.SetBody(body)
}
