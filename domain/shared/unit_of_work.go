package shared

import "context"

// UnitOfWork 管理事务边界与聚合事件收集。
// Execute 成功返回后，已注册聚合的事件要么写入 outbox（SQL 存储），要么交给进程内事件总线（内存存储）。
type UnitOfWork interface {
	Execute(ctx context.Context, fn func(ctx context.Context) error) error
	RegisterNew(aggregate AggregateRoot)
	RegisterDirty(aggregate AggregateRoot)
}

// UnitOfWorkFactory 为每次业务操作创建独立的 UnitOfWork，避免并发请求共享聚合列表。
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// OutboxRepository 按提交顺序持久化事件
type OutboxRepository interface {
	Append(ctx context.Context, events ...DomainEvent) error
}
