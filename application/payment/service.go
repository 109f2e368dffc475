/*
Package payment 支付桥接：网关代理、结果校验、表单回调与 webhook

两条结果上报路径（浏览器 verify 与网关表单回调）共用同一套归一化规则，
并都通过 Mutator 驱动订单状态机，冲突时重新加载订单再试。
*/
package payment

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	apporder "storefront/application/order"
	"storefront/domain/cart"
	"storefront/domain/identity"
	"storefront/domain/order"
	"storefront/domain/payment"
	"storefront/infrastructure/gateway"
	apperrors "storefront/pkg/errors"
	"storefront/pkg/logger"

	"go.uber.org/zap"
)

// Gateway is the outbound side of the bridge.
type Gateway interface {
	Proxy(ctx context.Context, body []byte) (*gateway.Response, error)
	QueryPayment(ctx context.Context, tid string) (payment.Confirmation, error)
}

type Options struct {
	// ConfirmPayments re-queries the gateway before trusting a successful result.
	ConfirmPayments bool
	// StorefrontURL is the public base used for callback redirects.
	StorefrontURL string
}

type Service struct {
	orderRepo order.Repository
	mutator   *apporder.Mutator
	carts     cart.Store
	gateway   Gateway
	opts      Options
	now       func() time.Time
}

// NewService carts may be nil when no server-side cart mirror is configured.
func NewService(orderRepo order.Repository, mutator *apporder.Mutator, carts cart.Store, gw Gateway, opts Options) *Service {
	return &Service{
		orderRepo: orderRepo,
		mutator:   mutator,
		carts:     carts,
		gateway:   gw,
		opts:      opts,
		now:       time.Now,
	}
}

// Proxy relays a payment request body to the gateway unchanged.
func (s *Service) Proxy(ctx context.Context, body []byte) (*gateway.Response, error) {
	resp, err := s.gateway.Proxy(ctx, body)
	if err != nil {
		return nil, apperrors.Upstream(err)
	}
	return resp, nil
}

// Verify settles an order from the result the browser received.
func (s *Service) Verify(ctx context.Context, caller identity.Identity, req VerifyRequest) (*VerifyResponse, error) {
	current, err := s.orderRepo.FindByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if err := current.EnsureOwnedBy(caller.SubjectID); err != nil {
		return nil, err
	}

	result := payment.Normalize(payment.SourceClientVerify, payment.CodeFrom(req.PaymentResult), req.PaymentResult)
	result = s.confirm(ctx, result, current)

	settled, err := s.settle(ctx, req.OrderID, result)
	if err != nil {
		return nil, err
	}
	if !result.Success {
		return nil, apperrors.PaymentFailed(nil)
	}
	return &VerifyResponse{
		Success: true,
		Message: "Payment verified successfully",
		Order:   apporder.ToResponse(settled),
	}, nil
}

// Callback settles an order from the gateway's form post and returns the
// storefront page to redirect to. It never returns an error: every failure
// ends on the order-failed page.
func (s *Service) Callback(ctx context.Context, form CallbackForm) string {
	log := logger.FromContext(ctx).With(
		zap.String("order_id", form.OrderID),
		zap.String("result_code", form.ResultCode),
		zap.String("amount", form.Amount),
	)
	log.Info("Payment callback received")

	if strings.TrimSpace(form.OrderID) == "" {
		log.Warn("Payment callback without order id")
		return s.redirect("/order-failed", "")
	}

	current, err := s.orderRepo.FindByID(ctx, form.OrderID)
	if err != nil {
		log.Warn("Payment callback for unknown order", zap.Error(err))
		return s.redirect("/order-failed", "")
	}

	result := payment.Normalize(payment.SourceFormCallback, form.ResultCode, form.Raw)
	if result.Success && form.Amount != "" {
		amount, parseErr := strconv.ParseInt(strings.TrimSpace(form.Amount), 10, 64)
		if parseErr != nil || amount != current.TotalAmount().Amount() {
			result = result.Unconfirmed("callback amount does not match order total")
		}
	}
	result = s.confirm(ctx, result, current)

	if _, err := s.settle(ctx, form.OrderID, result); err != nil {
		log.Error("Payment callback could not settle order", zap.Error(err))
		return s.redirect("/order-failed", "")
	}
	if !result.Success {
		return s.redirect("/order-failed", form.OrderID)
	}
	return s.redirect("/order-success", form.OrderID)
}

// Webhook acknowledges an asynchronous gateway notification.
func (s *Service) Webhook(ctx context.Context, payload map[string]any) {
	logger.FromContext(ctx).Info("Payment webhook received",
		zap.String("order_id", stringValue(payload, "orderId", "Moid")),
		zap.String("result_code", payment.CodeFrom(payload)),
		zap.String("status", stringValue(payload, "status")),
	)
}

// confirm asks the gateway for the authoritative state of a successful result.
func (s *Service) confirm(ctx context.Context, result payment.Result, o *order.Order) payment.Result {
	if !s.opts.ConfirmPayments || !result.Success {
		return result
	}
	tid := result.TransactionID()
	if tid == "" {
		return result
	}

	confirmation, err := s.gateway.QueryPayment(ctx, tid)
	if err != nil {
		logger.FromContext(ctx).Warn("Payment confirmation failed",
			zap.String("order_id", o.ID()),
			zap.String("tid", tid),
			zap.Error(err),
		)
		return result.Unconfirmed("gateway confirmation unavailable")
	}
	if !confirmation.Confirms(o.ID(), o.TotalAmount().Amount()) {
		logger.FromContext(ctx).Warn("Gateway did not confirm payment",
			zap.String("order_id", o.ID()),
			zap.String("tid", tid),
			zap.String("gateway_status", confirmation.Status),
			zap.Int64("gateway_amount", confirmation.Amount),
		)
		return result.Unconfirmed("gateway did not confirm payment")
	}
	return result
}

func (s *Service) settle(ctx context.Context, orderID string, result payment.Result) (*order.Order, error) {
	record := result.Record()
	settled, err := s.mutator.Apply(ctx, orderID, func(o *order.Order) error {
		if result.Success {
			return o.MarkPaid(record, s.now())
		}
		return o.MarkPaymentFailed(record, s.now())
	})
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("Payment settled",
		zap.String("order_id", orderID),
		zap.Bool("success", result.Success),
		zap.String("source", string(result.Source)),
		zap.String("code", result.Code),
	)
	if result.Success {
		s.clearCart(ctx, settled.UserID())
	}
	return settled, nil
}

func (s *Service) clearCart(ctx context.Context, userID string) {
	if s.carts == nil {
		return
	}
	if err := s.carts.Delete(ctx, userID); err != nil && !errors.Is(err, cart.ErrCacheMiss) {
		logger.FromContext(ctx).Warn("Failed to clear cart after payment",
			zap.String("user_id", userID),
			zap.Error(err),
		)
	}
}

func (s *Service) redirect(page, orderID string) string {
	target := strings.TrimRight(s.opts.StorefrontURL, "/") + page
	if orderID != "" {
		target += "?orderId=" + url.QueryEscape(orderID)
	}
	return target
}

func stringValue(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if v, ok := raw[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}
