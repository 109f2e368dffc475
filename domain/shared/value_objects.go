package shared

import (
	"errors"
	"math"
)

// DefaultCurrency 店铺只以韩元结算，韩元没有辅币单位
const DefaultCurrency = "KRW"

var (
	ErrCurrencyMismatch = errors.New("currency mismatch")
	ErrAmountOverflow   = errors.New("amount overflow")
)

// Money 值对象 - 表示金额，以最小货币单位存储
type Money struct {
	amount   int64
	currency string
}

// NewMoney 创建新的Money值对象
func NewMoney(amount int64, currency string) Money {
	if currency == "" {
		currency = DefaultCurrency
	}
	return Money{amount: amount, currency: currency}
}

// Won 以 KRW 创建金额
func Won(amount int64) Money {
	return NewMoney(amount, DefaultCurrency)
}

func (m Money) Amount() int64    { return m.amount }
func (m Money) Currency() string { return m.currency }

// Add 金额相加，返回新的Money值对象
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, ErrCurrencyMismatch
	}
	if (other.amount > 0 && m.amount > math.MaxInt64-other.amount) ||
		(other.amount < 0 && m.amount < math.MinInt64-other.amount) {
		return Money{}, ErrAmountOverflow
	}
	return Money{amount: m.amount + other.amount, currency: m.currency}, nil
}

// Multiply 按数量相乘，带溢出检查
func (m Money) Multiply(quantity int) (Money, error) {
	if quantity == 0 || m.amount == 0 {
		return Money{amount: 0, currency: m.currency}, nil
	}
	q := int64(quantity)
	result := m.amount * q
	if result/q != m.amount {
		return Money{}, ErrAmountOverflow
	}
	return Money{amount: result, currency: m.currency}, nil
}

func (m Money) IsZero() bool { return m.amount == 0 }

// Equals 比较两个Money值对象是否相等
func (m Money) Equals(other Money) bool {
	return m.amount == other.amount && m.currency == other.currency
}
