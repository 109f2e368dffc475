/*
Package payment - 结账与支付桥接控制器

create-order、proxy、verify 需要顾客会话；callback 与 webhook 由网关调用，不做会话校验。
*/
package payment

import (
	"io"
	"net/http"

	"storefront/api/ctxutil"
	"storefront/api/response"
	checkoutapp "storefront/application/checkout"
	paymentapp "storefront/application/payment"
	"storefront/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

// maxProxyBody caps the body relayed to the gateway.
const maxProxyBody = 1 << 20

type Controller struct {
	checkoutService *checkoutapp.Service
	paymentService  *paymentapp.Service
}

func NewController(checkoutService *checkoutapp.Service, paymentService *paymentapp.Service) *Controller {
	return &Controller{checkoutService: checkoutService, paymentService: paymentService}
}

// RegisterRoutes customer is guarded for customers, public is not
func (c *Controller) RegisterRoutes(public, customer *gin.RouterGroup) {
	customer.POST("/payment/create-order", c.CreateOrder)
	customer.POST("/payment/verify", c.Verify)
	customer.POST("/payments", c.Proxy)

	public.POST("/payment/callback", c.Callback)
	public.POST("/webhook", c.Webhook)
}

// CreateOrder POST /api/payment/create-order
func (c *Controller) CreateOrder(ctx *gin.Context) {
	caller, err := ctxutil.Caller(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	var req checkoutapp.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	resp, err := c.checkoutService.CreateOrder(ctxutil.Context(ctx), caller, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, resp, resp.Message)
}

// Verify POST /api/payment/verify
func (c *Controller) Verify(ctx *gin.Context) {
	caller, err := ctxutil.Caller(ctx)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	var req paymentapp.VerifyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	resp, err := c.paymentService.Verify(ctxutil.Context(ctx), caller, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, resp, resp.Message)
}

// Proxy POST /api/payments
// The gateway's status code and body are returned unchanged.
func (c *Controller) Proxy(ctx *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxProxyBody))
	if err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	resp, err := c.paymentService.Proxy(ctxutil.Context(ctx), body)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	ctx.Data(resp.StatusCode, contentType, resp.Body)
}

// Callback POST /api/payment/callback
// Always answers with a 303 to the storefront; failures land on the order-failed page.
func (c *Controller) Callback(ctx *gin.Context) {
	var form paymentapp.CallbackForm
	if err := ctx.ShouldBindWith(&form, binding.Form); err != nil {
		logger.FromContext(ctxutil.Context(ctx)).Warn("Malformed payment callback", zap.Error(err))
	}

	form.Raw = make(map[string]any, len(ctx.Request.PostForm))
	for key, values := range ctx.Request.PostForm {
		if len(values) == 1 {
			form.Raw[key] = values[0]
		} else {
			form.Raw[key] = values
		}
	}

	ctx.Redirect(http.StatusSeeOther, c.paymentService.Callback(ctxutil.Context(ctx), form))
}

// Webhook POST /api/webhook
func (c *Controller) Webhook(ctx *gin.Context) {
	var payload map[string]any
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		response.HandleBindError(ctx, err)
		return
	}

	c.paymentService.Webhook(ctxutil.Context(ctx), payload)
	response.HandleSuccess(ctx, gin.H{"received": true}, "Webhook received")
}
