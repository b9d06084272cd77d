package middleware

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/api/validation"
)

func testSchema() validation.Schema {
	return validation.Schema{
		{Name: "title", Rules: []validation.Rule{validation.Required("Title required"), validation.String()}},
		{Name: "priority", Rules: []validation.Rule{
			validation.Required("Priority required"),
			validation.Enum([]string{"LOW", "MEDIUM", "HIGH"}, "Priority must be LOW, MEDIUM, or HIGH"),
		}},
	}
}

func runValidate(t *testing.T, body string) (*fasthttp.RequestCtx, bool) {
	t.Helper()

	called := false
	handler := Validate(testSchema())(func(ctx *fasthttp.RequestCtx) {
		called = true
	})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetBodyString(body)
	handler(ctx)
	return ctx, called
}

func TestValidate_PassesValidBody(t *testing.T) {
	t.Parallel()

	ctx, called := runValidate(t, `{"title":"Ship","priority":"HIGH"}`)
	require.True(t, called)
	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
}

func TestValidate_OnlyFirstViolationSurfaces(t *testing.T) {
	t.Parallel()

	ctx, called := runValidate(t, `{}`)
	require.False(t, called)
	require.Equal(t, http.StatusForbidden, ctx.Response.StatusCode())

	var env transport.Envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	require.False(t, env.Success)
	require.Equal(t, "Title Required", env.Message)
}

func TestValidate_UnknownField(t *testing.T) {
	t.Parallel()

	ctx, called := runValidate(t, `{"title":"Ship","priority":"HIGH","owner":"someone-else"}`)
	require.False(t, called)
	require.Equal(t, http.StatusForbidden, ctx.Response.StatusCode())

	var env transport.Envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	require.Equal(t, "Property Owner Should Not Exist", env.Message)
}

func TestValidate_MalformedJSON(t *testing.T) {
	t.Parallel()

	ctx, called := runValidate(t, `{"title":`)
	require.False(t, called)
	require.Equal(t, http.StatusBadRequest, ctx.Response.StatusCode())
}

func TestValidate_EmptyBodyTreatedAsEmptyObject(t *testing.T) {
	t.Parallel()

	ctx, called := runValidate(t, ``)
	require.False(t, called)
	require.Equal(t, http.StatusForbidden, ctx.Response.StatusCode())
}
