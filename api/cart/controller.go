package cart

import (
	"storefront/api/ctxutil"
	"storefront/api/response"
	cartapp "storefront/application/cart"

	"github.com/gin-gonic/gin"
)

// Controller server-side cart mirror
type Controller struct {
	cartService *cartapp.Service
}

func NewController(cartService *cartapp.Service) *Controller {
	return &Controller{cartService: cartService}
}

// RegisterRoutes mounts /cart on a group already guarded for customers
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/cart")
	{
		group.GET("", c.Get)
		group.DELETE("", c.Clear)
		group.POST("/items", c.AddItem)
		group.PATCH("/items/:productId", c.UpdateQuantity)
		group.DELETE("/items/:productId", c.RemoveItem)
	}
}

func (c *Controller) Get(ctx *gin.Context) {
	caller, err := ctxutil.Caller(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	cart, err := c.cartService.Get(ctxutil.Context(ctx), caller)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, cart, "Cart retrieved successfully")
}

func (c *Controller) AddItem(ctx *gin.Context) {
	caller, err := ctxutil.Caller(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	var req cartapp.AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	cart, err := c.cartService.AddItem(ctxutil.Context(ctx), caller, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, cart, "Item added to cart")
}

// UpdateQuantity quantity <= 0 removes the product
func (c *Controller) UpdateQuantity(ctx *gin.Context) {
	caller, err := ctxutil.Caller(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	var req cartapp.UpdateQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	cart, err := c.cartService.UpdateQuantity(ctxutil.Context(ctx), caller, ctx.Param("productId"), req.Quantity)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, cart, "Cart updated")
}

func (c *Controller) RemoveItem(ctx *gin.Context) {
	caller, err := ctxutil.Caller(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	cart, err := c.cartService.RemoveItem(ctxutil.Context(ctx), caller, ctx.Param("productId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, cart, "Item removed from cart")
}

func (c *Controller) Clear(ctx *gin.Context) {
	caller, err := ctxutil.Caller(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	if err := c.cartService.Clear(ctxutil.Context(ctx), caller); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleNoContent(ctx)
}
