// Package payment 支付网关结果的统一归一化规则
package payment

import (
	"fmt"
	"maps"
	"strings"

	"storefront/domain/order"
)

// Source identifies which flow reported the gateway outcome.
type Source string

const (
	// SourceFormCallback gateway posts the result form to the server
	SourceFormCallback Source = "form_callback"
	// SourceClientVerify browser relays the result it received
	SourceClientVerify Source = "client_verify"
)

// success codes per source
var successCodes = map[Source]string{
	SourceFormCallback: "3001",
	SourceClientVerify: "0000",
}

// Result is the normalised gateway outcome.
type Result struct {
	Success bool
	Code    string
	Source  Source
	Raw     map[string]any
}

// Normalize maps a raw gateway result to a Result.
// Unknown sources never succeed.
func Normalize(source Source, code string, raw map[string]any) Result {
	code = strings.TrimSpace(code)
	want, ok := successCodes[source]
	return Result{
		Success: ok && code == want,
		Code:    code,
		Source:  source,
		Raw:     raw,
	}
}

// CodeFrom extracts the result code from a raw result, accepting the
// spellings the gateway uses across its flows.
func CodeFrom(raw map[string]any) string {
	return stringField(raw, "resultCode", "ResultCode", "code")
}

// TransactionID returns the gateway transaction id, if the raw result carries one.
func (r Result) TransactionID() string {
	return stringField(r.Raw, "tid", "TxTid", "TID")
}

// Unconfirmed downgrades the result to a failure because the gateway did
// not confirm it. reason is kept in the raw record for audit.
func (r Result) Unconfirmed(reason string) Result {
	raw := maps.Clone(r.Raw)
	if raw == nil {
		raw = make(map[string]any, 1)
	}
	raw["confirmation"] = reason
	r.Success = false
	r.Raw = raw
	return r
}

// Record converts the result into the audit record stored on the order.
func (r Result) Record() order.PaymentRecord {
	return order.PaymentRecord{
		Success: r.Success,
		Code:    r.Code,
		Source:  string(r.Source),
		Raw:     r.Raw,
	}
}

// Confirmation is the gateway's authoritative view of a transaction.
type Confirmation struct {
	ResultCode string `json:"resultCode"`
	ResultMsg  string `json:"resultMsg"`
	TID        string `json:"tid"`
	OrderID    string `json:"orderId"`
	Status     string `json:"status"`
	Amount     int64  `json:"amount"`
}

// Confirms reports whether the gateway agrees the order was paid in full.
func (c Confirmation) Confirms(orderID string, total int64) bool {
	if c.OrderID != "" && c.OrderID != orderID {
		return false
	}
	return c.ResultCode == "0000" && c.Status == "paid" && c.Amount == total
}

// Request is the payload the browser hands to the gateway widget.
type Request struct {
	OrderID    string `json:"orderId"`
	Amount     int64  `json:"amount"`
	GoodsName  string `json:"goodsName"`
	BuyerName  string `json:"buyerName"`
	BuyerTel   string `json:"buyerTel"`
	BuyerEmail string `json:"buyerEmail"`
	ClientKey  string `json:"clientKey"`
	ReturnURL  string `json:"returnUrl"`
}

// NewRequest builds the gateway payload for a pending order.
func NewRequest(o *order.Order, buyerEmail, clientKey, returnURL string) Request {
	shipping := o.Shipping()
	return Request{
		OrderID:    o.ID(),
		Amount:     o.TotalAmount().Amount(),
		GoodsName:  o.GoodsName(),
		BuyerName:  shipping.Name,
		BuyerTel:   shipping.Phone,
		BuyerEmail: buyerEmail,
		ClientKey:  clientKey,
		ReturnURL:  returnURL,
	}
}

func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		switch s := v.(type) {
		case string:
			if s != "" {
				return s
			}
		default:
			return fmt.Sprint(s)
		}
	}
	return ""
}
