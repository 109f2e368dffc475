package user

import "time"

const (
	EventUserRegistered = "user.registered"
	EventUserSuspended  = "user.suspended"
	EventUserActivated  = "user.activated"
)

// UserRegisteredEvent User registered event
type UserRegisteredEvent struct {
	userID     string
	email      string
	provider   Provider
	occurredOn time.Time
}

func NewUserRegisteredEvent(userID, email string, provider Provider) *UserRegisteredEvent {
	return &UserRegisteredEvent{
		userID:     userID,
		email:      email,
		provider:   provider,
		occurredOn: time.Now(),
	}
}

func (e *UserRegisteredEvent) EventName() string      { return EventUserRegistered }
func (e *UserRegisteredEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *UserRegisteredEvent) GetAggregateID() string { return e.userID }
func (e *UserRegisteredEvent) Email() string          { return e.email }

func (e *UserRegisteredEvent) Payload() map[string]any {
	return map[string]any{
		"userId":     e.userID,
		"email":      e.email,
		"provider":   e.provider,
		"occurredOn": e.occurredOn,
	}
}

// UserStatusChangedEvent is recorded by Suspend and Activate.
type UserStatusChangedEvent struct {
	userID     string
	status     Status
	occurredOn time.Time
}

func NewUserStatusChangedEvent(userID string, status Status) *UserStatusChangedEvent {
	return &UserStatusChangedEvent{
		userID:     userID,
		status:     status,
		occurredOn: time.Now(),
	}
}

func (e *UserStatusChangedEvent) EventName() string {
	if e.status == StatusSuspended {
		return EventUserSuspended
	}
	return EventUserActivated
}
func (e *UserStatusChangedEvent) OccurredOn() time.Time  { return e.occurredOn }
func (e *UserStatusChangedEvent) GetAggregateID() string { return e.userID }
func (e *UserStatusChangedEvent) Status() Status         { return e.status }

func (e *UserStatusChangedEvent) Payload() map[string]any {
	return map[string]any{
		"userId":     e.userID,
		"status":     e.status,
		"occurredOn": e.occurredOn,
	}
}
