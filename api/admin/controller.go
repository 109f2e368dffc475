/*
Package admin - 后台管理控制器

所有路由挂在已经过 Authenticate(admin-token) 与 RequireRole(admin) 的分组上。
*/
package admin

import (
	"bytes"
	"fmt"
	"net/http"

	"storefront/api/ctxutil"
	"storefront/api/response"
	adminapp "storefront/application/admin"
	"storefront/infrastructure/export"

	"github.com/gin-gonic/gin"
)

// FeedServer upgrades a request to the live order feed.
type FeedServer interface {
	ServeWS(w http.ResponseWriter, r *http.Request)
}

type Controller struct {
	adminService *adminapp.Service
	feed         FeedServer
}

// NewController feed may be nil, in which case the feed route is not registered.
func NewController(adminService *adminapp.Service, feed FeedServer) *Controller {
	return &Controller{adminService: adminService, feed: feed}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/orders", c.ListOrders)
	router.PATCH("/orders/:id", c.UpdateOrder)
	router.GET("/users", c.ListUsers)
	router.PATCH("/users/:id", c.UpdateUser)
	router.GET("/reports", c.Report)
	router.GET("/dashboard-stats", c.DashboardStats)
	if c.feed != nil {
		router.GET("/orders/feed", c.Feed)
	}
}

// ListOrders GET /api/admin/orders?status=&search=
func (c *Controller) ListOrders(ctx *gin.Context) {
	orders, err := c.adminService.ListOrders(ctxutil.Context(ctx), ctx.Query("status"), ctx.Query("search"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "Orders retrieved successfully")
}

// UpdateOrder PATCH /api/admin/orders/:id
func (c *Controller) UpdateOrder(ctx *gin.Context) {
	var req adminapp.UpdateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	order, err := c.adminService.UpdateOrder(ctxutil.Context(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "Order updated successfully")
}

// ListUsers GET /api/admin/users?status=&search=
func (c *Controller) ListUsers(ctx *gin.Context) {
	users, err := c.adminService.ListUsers(ctxutil.Context(ctx), ctx.Query("status"), ctx.Query("search"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, users, "Users retrieved successfully")
}

// UpdateUser PATCH /api/admin/users/:id
func (c *Controller) UpdateUser(ctx *gin.Context) {
	var req adminapp.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	user, err := c.adminService.UpdateUser(ctxutil.Context(ctx), ctx.Param("id"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, user, "User updated successfully")
}

// Report GET /api/admin/reports?period=&format=json|xlsx
func (c *Controller) Report(ctx *gin.Context) {
	report, err := c.adminService.Report(ctxutil.Context(ctx), ctx.Query("period"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	if ctx.Query("format") != "xlsx" {
		response.HandleSuccess(ctx, report, "Report generated successfully")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, report.Tables()...); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	filename := fmt.Sprintf("sales-report-%s-%s.xlsx", report.Period, report.To.Format("20060102"))
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	ctx.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// DashboardStats GET /api/admin/dashboard-stats
func (c *Controller) DashboardStats(ctx *gin.Context) {
	stats, err := c.adminService.DashboardStats(ctxutil.Context(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, stats, "Dashboard stats retrieved successfully")
}

// Feed GET /api/admin/orders/feed (websocket)
func (c *Controller) Feed(ctx *gin.Context) {
	c.feed.ServeWS(ctx.Writer, ctx.Request)
}
