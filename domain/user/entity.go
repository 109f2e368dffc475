package user

import (
	"strings"
	"time"

	"storefront/domain/shared"

	"github.com/google/uuid"
)

// User 用户聚合根
// 聚合内只有 User 自身，没有子实体
//
// 聚合根特征：
// 1. 所有字段私有，通过方法暴露行为
// 2. 包含版本号用于乐观锁
// 3. 包含事件列表用于记录领域事件
type User struct {
	id           string
	email        Email
	name         string
	phone        string
	provider     Provider
	passwordHash string
	status       Status
	address      *Address
	version      int // 乐观锁版本号
	createdAt    time.Time
	updatedAt    time.Time
	lastLoginAt  *time.Time

	events []shared.DomainEvent
	isNew  bool
}

// RegisterOptions 注册参数；密码由应用层先行哈希
type RegisterOptions struct {
	Email        string
	Name         string
	Phone        string
	Provider     Provider
	PasswordHash string
}

// NewUser 创建新用户实体
func NewUser(opts RegisterOptions) (*User, error) {
	email, err := NewEmail(opts.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(opts.Name)
	if name == "" {
		return nil, NewInvalidNameError()
	}
	provider := opts.Provider
	if provider == "" {
		provider = ProviderEmail
	}
	if !provider.Valid() {
		return nil, NewInvalidProviderError(string(provider))
	}
	if provider == ProviderEmail && opts.PasswordHash == "" {
		return nil, NewMissingPasswordError()
	}

	now := time.Now()
	u := &User{
		id:           uuid.NewString(),
		email:        email,
		name:         name,
		phone:        strings.TrimSpace(opts.Phone),
		provider:     provider,
		passwordHash: opts.PasswordHash,
		status:       StatusActive,
		createdAt:    now,
		updatedAt:    now,
		isNew:        true,
	}
	u.recordEvent(NewUserRegisteredEvent(u.id, email.Value(), provider))
	return u, nil
}

// ============================================================================
// 领域行为方法
// ============================================================================
//
// 版本号不在行为方法中递增，由仓储保存成功后调用 IncrementVersionForSave

// Suspend 停用用户，已停用时为空操作
func (u *User) Suspend() {
	if u.status == StatusSuspended {
		return
	}
	u.status = StatusSuspended
	u.updatedAt = time.Now()
	u.recordEvent(NewUserStatusChangedEvent(u.id, StatusSuspended))
}

// Activate 重新激活用户，已激活时为空操作
func (u *User) Activate() {
	if u.status == StatusActive {
		return
	}
	u.status = StatusActive
	u.updatedAt = time.Now()
	u.recordEvent(NewUserStatusChangedEvent(u.id, StatusActive))
}

// EnsureActive 被停用的用户不能登录或下单
func (u *User) EnsureActive() error {
	if u.status != StatusActive {
		return NewUserSuspendedError(u.id)
	}
	return nil
}

// UpdateProfile 更新姓名、电话和地址；零值地址表示清除
func (u *User) UpdateProfile(name, phone string, address Address) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return NewInvalidNameError()
	}
	u.name = name
	u.phone = strings.TrimSpace(phone)
	if address.IsZero() {
		u.address = nil
	} else {
		u.address = &address
	}
	u.updatedAt = time.Now()
	return nil
}

// RecordLogin 记录最近登录时间
func (u *User) RecordLogin(at time.Time) {
	u.lastLoginAt = &at
	u.updatedAt = at
}

// IncrementVersionForSave 仓储保存成功后调用
func (u *User) IncrementVersionForSave() {
	u.version++
	u.isNew = false
}

// ============================================================================
// Getters - 只读访问器
// ============================================================================

func (u *User) ID() string           { return u.id }
func (u *User) Email() Email         { return u.email }
func (u *User) Name() string         { return u.name }
func (u *User) Phone() string        { return u.phone }
func (u *User) Provider() Provider   { return u.provider }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) Status() Status       { return u.status }
func (u *User) IsActive() bool       { return u.status == StatusActive }
func (u *User) Version() int         { return u.version }
func (u *User) IsNew() bool          { return u.isNew }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) Address() *Address {
	if u.address == nil {
		return nil
	}
	a := *u.address
	return &a
}

func (u *User) LastLoginAt() *time.Time {
	if u.lastLoginAt == nil {
		return nil
	}
	t := *u.lastLoginAt
	return &t
}

// PullEvents 获取并清空聚合根的事件列表
func (u *User) PullEvents() []shared.DomainEvent {
	events := u.events
	u.events = nil
	return events
}

func (u *User) recordEvent(event shared.DomainEvent) {
	u.events = append(u.events, event)
}

// ReconstructionDTO 用户重建数据传输对象
// ⚠️ 注意：此DTO仅应在仓储实现中使用，不应在应用层调用
type ReconstructionDTO struct {
	ID           string
	Email        string
	Name         string
	Phone        string
	Provider     Provider
	PasswordHash string
	Status       Status
	Address      *Address
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// RebuildFromDTO 从DTO重建User聚合根
func RebuildFromDTO(dto ReconstructionDTO) *User {
	u := &User{
		id:           dto.ID,
		email:        Email{value: NormalizeEmail(dto.Email)},
		name:         dto.Name,
		phone:        dto.Phone,
		provider:     dto.Provider,
		passwordHash: dto.PasswordHash,
		status:       dto.Status,
		version:      dto.Version,
		createdAt:    dto.CreatedAt,
		updatedAt:    dto.UpdatedAt,
	}
	if dto.Address != nil {
		a := *dto.Address
		u.address = &a
	}
	if dto.LastLoginAt != nil {
		t := *dto.LastLoginAt
		u.lastLoginAt = &t
	}
	return u
}

// Snapshot 返回可独立保存的状态副本
func (u *User) Snapshot() ReconstructionDTO {
	return ReconstructionDTO{
		ID:           u.id,
		Email:        u.email.Value(),
		Name:         u.name,
		Phone:        u.phone,
		Provider:     u.provider,
		PasswordHash: u.passwordHash,
		Status:       u.status,
		Address:      u.Address(),
		Version:      u.version,
		CreatedAt:    u.createdAt,
		UpdatedAt:    u.updatedAt,
		LastLoginAt:  u.LastLoginAt(),
	}
}

// 编译时检查 User 实现了 AggregateRoot 接口
var _ shared.AggregateRoot = (*User)(nil)
