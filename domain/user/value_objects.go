package user

import (
	"regexp"
	"strings"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// Email Value object - immutable, lower-cased email address
type Email struct {
	value string
}

// NewEmail normalises and validates an address. Comparison is case-insensitive.
func NewEmail(email string) (Email, error) {
	email = NormalizeEmail(email)
	if !emailRegex.MatchString(email) {
		return Email{}, NewInvalidEmailError(email)
	}
	return Email{value: email}, nil
}

// NormalizeEmail trims and lower-cases an address without validating it.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (e Email) Value() string { return e.value }

func (e Email) Equals(other Email) bool { return e.value == other.value }

func (e Email) String() string { return e.value }

// Provider 登录方式
type Provider string

const (
	ProviderEmail  Provider = "email"
	ProviderGoogle Provider = "google"
	ProviderKakao  Provider = "kakao"
)

func (p Provider) Valid() bool {
	switch p {
	case ProviderEmail, ProviderGoogle, ProviderKakao:
		return true
	}
	return false
}

// Status 账号状态
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusActive, StatusSuspended:
		return Status(s), true
	}
	return "", false
}

// Address 收货地址，可选
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

func (a Address) IsZero() bool { return a == Address{} }
