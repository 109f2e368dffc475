package shared

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// DomainEvent 领域事件
type DomainEvent interface {
	EventName() string
	OccurredOn() time.Time
	GetAggregateID() string
}

// EventHandler 进程内事件处理器
type EventHandler interface {
	Handle(event DomainEvent) error
	Name() string
}

// EventPublisher 发布已提交的领域事件
type EventPublisher interface {
	Publish(event DomainEvent) error
}

func ValidateEvent(event DomainEvent) error {
	if event == nil {
		return errors.New("event cannot be nil")
	}
	if event.EventName() == "" {
		return errors.New("event name cannot be empty")
	}
	if event.GetAggregateID() == "" {
		return errors.New("aggregate ID cannot be empty")
	}
	if event.OccurredOn().IsZero() {
		return errors.New("occurred on time cannot be zero")
	}
	return nil
}

// EventBus 同步的进程内事件总线
// 订阅 "*" 的处理器接收所有事件
type EventBus struct {
	mu       sync.RWMutex
	handlers map[string][]EventHandler
}

// Wildcard subscribes a handler to every event name.
const Wildcard = "*"

func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[string][]EventHandler)}
}

func (bus *EventBus) Publish(event DomainEvent) error {
	if err := ValidateEvent(event); err != nil {
		return err
	}

	bus.mu.RLock()
	handlers := make([]EventHandler, 0, len(bus.handlers[event.EventName()])+len(bus.handlers[Wildcard]))
	handlers = append(handlers, bus.handlers[event.EventName()]...)
	handlers = append(handlers, bus.handlers[Wildcard]...)
	bus.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler.Handle(event); err != nil {
			errs = append(errs, fmt.Errorf("handler %s: %w", handler.Name(), err))
		}
	}
	return errors.Join(errs...)
}

func (bus *EventBus) Subscribe(eventName string, handler EventHandler) error {
	if eventName == "" {
		return errors.New("event name cannot be empty")
	}
	if handler == nil {
		return errors.New("handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	for _, h := range bus.handlers[eventName] {
		if h.Name() == handler.Name() {
			return fmt.Errorf("handler %s already subscribed to %s", handler.Name(), eventName)
		}
	}
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
	return nil
}

func (bus *EventBus) Unsubscribe(eventName string, handler EventHandler) {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	handlers := bus.handlers[eventName]
	for i, h := range handlers {
		if h.Name() == handler.Name() {
			bus.handlers[eventName] = append(handlers[:i:i], handlers[i+1:]...)
			return
		}
	}
}

type FuncHandler struct {
	name string
	fn   func(DomainEvent) error
}

func NewFuncHandler(name string, fn func(DomainEvent) error) *FuncHandler {
	return &FuncHandler{name: name, fn: fn}
}

func (h *FuncHandler) Handle(event DomainEvent) error { return h.fn(event) }
func (h *FuncHandler) Name() string                   { return h.name }
