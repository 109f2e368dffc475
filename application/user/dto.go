package user

import (
	"time"

	"storefront/domain/user"
)

// UserResponse 用户返回模型，不包含密码哈希
type UserResponse struct {
	ID          string           `json:"id"`
	Email       string           `json:"email"`
	Name        string           `json:"name"`
	Phone       string           `json:"phone"`
	Provider    string           `json:"provider"`
	Status      string           `json:"status"`
	Address     *AddressResponse `json:"address,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
	LastLoginAt *time.Time       `json:"lastLogin,omitempty"`
}

type AddressResponse struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

// UpdateProfileRequest 地址缺省或全部为空表示清除
type UpdateProfileRequest struct {
	Name    string          `json:"name" binding:"required,max=100"`
	Phone   string          `json:"phone" binding:"max=32"`
	Address *AddressRequest `json:"address"`
}

type AddressRequest struct {
	Street  string `json:"street" binding:"max=255"`
	City    string `json:"city" binding:"max=100"`
	State   string `json:"state" binding:"max=100"`
	ZipCode string `json:"zipCode" binding:"max=20"`
}

// ToResponse maps the aggregate to its JSON form.
func ToResponse(u *user.User) *UserResponse {
	resp := &UserResponse{
		ID:          u.ID(),
		Email:       u.Email().Value(),
		Name:        u.Name(),
		Phone:       u.Phone(),
		Provider:    string(u.Provider()),
		Status:      string(u.Status()),
		CreatedAt:   u.CreatedAt(),
		LastLoginAt: u.LastLoginAt(),
	}
	if a := u.Address(); a != nil {
		resp.Address = &AddressResponse{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode}
	}
	return resp
}

func ToResponses(users []*user.User) []*UserResponse {
	out := make([]*UserResponse, len(users))
	for i, u := range users {
		out[i] = ToResponse(u)
	}
	return out
}
