package domain

import "context"

// Store 实体仓库：四个集合的唯一持有者。
// 只保证结构性约束（id 唯一、枚举合法），业务规则由 placement 包判定。
type Store interface {
	Users() UserRepository
	Jobs() JobRepository
	Applications() ApplicationRepository
	Guides() GuideRepository

	// Atomically 串行执行 fn：fn 内的读-判-写不会与其它 Atomically 交叉。
	// fn 返回 error 时整体回滚。
	Atomically(ctx context.Context, fn func(tx Store) error) error
}
