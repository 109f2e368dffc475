/*
Package order - 顾客订单查询控制器

错误处理原则:
1. 参数绑定错误: response.HandleBindError 直接返回 400
2. 业务错误: response.HandleAppError 经 errors.FromDomainError 映射状态码
3. 他人的订单与不存在的订单一样返回 404
*/
package order

import (
	"storefront/api/ctxutil"
	"storefront/api/response"
	orderapp "storefront/application/order"

	"github.com/gin-gonic/gin"
)

// Controller 订单控制器
type Controller struct {
	orderService *orderapp.ApplicationService
}

func NewController(orderService *orderapp.ApplicationService) *Controller {
	return &Controller{orderService: orderService}
}

// RegisterRoutes mounts /orders on a group already guarded for customers
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		orderGroup.GET("", c.ListOrders)
		orderGroup.GET("/:id", c.GetOrder)
	}
}

// ListOrders GET /api/orders
func (c *Controller) ListOrders(ctx *gin.Context) {
	caller, err := ctxutil.Caller(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	orders, err := c.orderService.ListMine(ctxutil.Context(ctx), caller)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "Orders retrieved successfully")
}

// GetOrder GET /api/orders/:id
func (c *Controller) GetOrder(ctx *gin.Context) {
	caller, err := ctxutil.Caller(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	order, err := c.orderService.GetMine(ctxutil.Context(ctx), caller, ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "Order retrieved successfully")
}
