package user

import (
	"storefront/api/ctxutil"
	"storefront/api/response"
	userapp "storefront/application/user"

	"github.com/gin-gonic/gin"
)

// Controller customer profile controller
type Controller struct {
	userService *userapp.ApplicationService
}

func NewController(userService *userapp.ApplicationService) *Controller {
	return &Controller{userService: userService}
}

// RegisterRoutes mounts /user on a group already guarded for customers
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	userGroup := router.Group("/user")
	{
		userGroup.GET("/profile", c.GetProfile)
		userGroup.PUT("/profile", c.UpdateProfile)
	}
}

// GetProfile GET /api/user/profile
func (c *Controller) GetProfile(ctx *gin.Context) {
	caller, err := ctxutil.Caller(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	user, err := c.userService.GetProfile(ctxutil.Context(ctx), caller)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, user, "Profile retrieved successfully")
}

// UpdateProfile PUT /api/user/profile
func (c *Controller) UpdateProfile(ctx *gin.Context) {
	caller, err := ctxutil.Caller(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	var req userapp.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	user, err := c.userService.UpdateProfile(ctxutil.Context(ctx), caller, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, user, "Profile updated successfully")
}
