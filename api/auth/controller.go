/*
Package auth - 登录/注册/登出控制器

会话令牌只通过 HTTP-only Cookie 下发，响应体里不返回令牌。
*/
package auth

import (
	"net/http"
	"time"

	"storefront/api/ctxutil"
	"storefront/api/response"
	authapp "storefront/application/auth"
	"storefront/domain/identity"

	"github.com/gin-gonic/gin"
)

// CookieSettings names the session cookies and their transport flags.
type CookieSettings struct {
	UserCookie  string
	AdminCookie string
	// Secure is set in production so cookies never travel over plain HTTP.
	Secure bool
}

// IdentityResponse is the JSON view of a verified session.
type IdentityResponse struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Email string `json:"email,omitempty"`
}

type Controller struct {
	authService *authapp.Service
	cookies     CookieSettings
}

func NewController(authService *authapp.Service, cookies CookieSettings) *Controller {
	return &Controller{authService: authService, cookies: cookies}
}

// RegisterRoutes customer credential routes, mounted under /api/auth
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/auth")
	{
		group.POST("/signup", c.Signup)
		group.POST("/login", c.Login)
		group.POST("/logout", c.Logout)
	}
}

// RegisterAdminRoutes admin login/logout, mounted under /api/admin without the role guard
func (c *Controller) RegisterAdminRoutes(router *gin.RouterGroup) {
	router.POST("/login", c.AdminLogin)
	router.POST("/logout", c.AdminLogout)
}

// Signup POST /api/auth/signup
func (c *Controller) Signup(ctx *gin.Context) {
	var req authapp.SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	session, err := c.authService.Signup(ctxutil.Context(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.setCookie(ctx, c.cookies.UserCookie, session.Token, session.TTL)
	response.HandleCreated(ctx, session.User, "Signup successful")
}

// Login POST /api/auth/login
func (c *Controller) Login(ctx *gin.Context) {
	var req authapp.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	session, err := c.authService.Login(ctxutil.Context(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.setCookie(ctx, c.cookies.UserCookie, session.Token, session.TTL)
	response.HandleSuccess(ctx, session.User, "Login successful")
}

// Logout POST /api/auth/logout
func (c *Controller) Logout(ctx *gin.Context) {
	c.clearCookie(ctx, c.cookies.UserCookie)
	response.HandleSuccess(ctx, nil, "Logged out")
}

// AdminLogin POST /api/admin/login
func (c *Controller) AdminLogin(ctx *gin.Context) {
	var req authapp.AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	session, err := c.authService.AdminLogin(ctxutil.Context(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	c.setCookie(ctx, c.cookies.AdminCookie, session.Token, session.TTL)
	response.HandleSuccess(ctx, toIdentityResponse(session.Identity), "Login successful")
}

// AdminLogout POST /api/admin/logout
func (c *Controller) AdminLogout(ctx *gin.Context) {
	c.clearCookie(ctx, c.cookies.AdminCookie)
	response.HandleSuccess(ctx, nil, "Logged out")
}

// Verify GET /api/admin/verify, behind the admin guard
func (c *Controller) Verify(ctx *gin.Context) {
	caller, err := ctxutil.Caller(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, toIdentityResponse(caller), "Authenticated")
}

func (c *Controller) setCookie(ctx *gin.Context, name, token string, ttl time.Duration) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(name, token, int(ttl.Seconds()), "/", "", c.cookies.Secure, true)
}

func (c *Controller) clearCookie(ctx *gin.Context, name string) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(name, "", -1, "/", "", c.cookies.Secure, true)
}

func toIdentityResponse(id identity.Identity) IdentityResponse {
	return IdentityResponse{ID: id.SubjectID, Role: string(id.Role), Email: id.Email}
}
