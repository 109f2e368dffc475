package po

import (
	"time"

	"storefront/domain/user"
)

type UserPO struct {
	ID           string        `gorm:"primaryKey;size:64"`
	Email        string        `gorm:"size:255;uniqueIndex;not null"`
	Name         string        `gorm:"size:100;not null"`
	Phone        string        `gorm:"size:32"`
	Provider     string        `gorm:"size:16;not null"`
	PasswordHash string        `gorm:"size:100"`
	Status       string        `gorm:"size:16;index;not null"`
	Address      *user.Address `gorm:"serializer:json;type:text"`
	Version      int           `gorm:"not null;default:0"`
	CreatedAt    time.Time     `gorm:"not null"`
	UpdatedAt    time.Time     `gorm:"not null"`
	LastLoginAt  *time.Time
}

func (UserPO) TableName() string {
	return "users"
}

func FromUserDomain(u *user.User) *UserPO {
	dto := u.Snapshot()
	return &UserPO{
		ID:           dto.ID,
		Email:        dto.Email,
		Name:         dto.Name,
		Phone:        dto.Phone,
		Provider:     string(dto.Provider),
		PasswordHash: dto.PasswordHash,
		Status:       string(dto.Status),
		Address:      dto.Address,
		Version:      dto.Version,
		CreatedAt:    dto.CreatedAt,
		UpdatedAt:    dto.UpdatedAt,
		LastLoginAt:  dto.LastLoginAt,
	}
}

func (po *UserPO) ToDomain() *user.User {
	return user.RebuildFromDTO(user.ReconstructionDTO{
		ID:           po.ID,
		Email:        po.Email,
		Name:         po.Name,
		Phone:        po.Phone,
		Provider:     user.Provider(po.Provider),
		PasswordHash: po.PasswordHash,
		Status:       user.Status(po.Status),
		Address:      po.Address,
		Version:      po.Version,
		CreatedAt:    po.CreatedAt,
		UpdatedAt:    po.UpdatedAt,
		LastLoginAt:  po.LastLoginAt,
	})
}
