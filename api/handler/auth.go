package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskdeck/backend/api/transport"
	"github.com/taskdeck/backend/internal/middleware"
	"github.com/taskdeck/backend/pkg/httpcontext"
	authUC "github.com/taskdeck/backend/usecase/auth"
)

type AuthHandler struct {
	baseHandler
	uc           *authUC.UseCase
	secureCookie bool
}

func NewAuthHandler(uc *authUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		baseHandler:  newBaseHandler(adapter, logger),
		uc:           uc,
		secureCookie: secureCookie,
	}
}

// @Summary Register a new account
// @Tags auth
// @Router /api/register [post]
func (h *AuthHandler) Register(ctx *fasthttp.RequestCtx) {
	var req transport.RegisterRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("Invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Register(stdCtx, req.Name, req.Email, req.Password); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, "Registration successful", nil)
}

// @Summary Log in and receive the credential cookie
// @Tags auth
// @Router /api/login [post]
func (h *AuthHandler) Login(ctx *fasthttp.RequestCtx) {
	var req transport.LoginRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError("Invalid payload"))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	signed, err := h.uc.Login(stdCtx, req.Email, req.Password)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	h.setTokenCookie(ctx, signed)
	h.respondSuccess(ctx, http.StatusOK, "Login successful", nil)
}

// @Summary Log out and revoke the credential
// @Tags auth
// @Router /api/logout [post]
func (h *AuthHandler) Logout(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.Logout(stdCtx, middleware.Claims(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.Response.Header.DelClientCookie(middleware.CookieName)
	h.respondSuccess(ctx, http.StatusOK, "Logged out successfully", nil)
}

// @Summary Current user's profile
// @Tags auth
// @Router /api/me [get]
func (h *AuthHandler) Me(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	user, err := h.uc.GetUser(stdCtx, middleware.UserID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, "", map[string]interface{}{"user": user})
}

func (h *AuthHandler) setTokenCookie(ctx *fasthttp.RequestCtx, value string) {
	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(middleware.CookieName)
	cookie.SetValue(value)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(h.secureCookie)
	cookie.SetSameSite(fasthttp.CookieSameSiteStrictMode)
	ctx.Response.Header.SetCookie(cookie)
}
