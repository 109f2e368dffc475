/*
Package specification 将领域规格翻译为 GORM 查询条件

翻译只负责缩小结果集：无法翻译的规格返回 nil，仓储在内存中
用 IsSatisfiedBy 对查询结果做最终过滤，因此结果总是精确的。
*/
package specification

import (
	"strings"

	"storefront/domain/order"
	"storefront/domain/shared"
	"storefront/domain/user"

	"gorm.io/gorm"
)

// Scope is a GORM query refinement.
type Scope func(*gorm.DB) *gorm.DB

// translate handles the composites shared by every aggregate type and
// delegates leaf specifications to concrete.
func translate[T any](db *gorm.DB, spec shared.Specification[T], concrete func(shared.Specification[T]) Scope) Scope {
	switch s := spec.(type) {
	case nil, shared.All[T]:
		return nil
	case shared.AndSpecification[T]:
		left := translate(db, s.Left, concrete)
		right := translate(db, s.Right, concrete)
		switch {
		case left == nil:
			return right
		case right == nil:
			return left
		}
		return func(q *gorm.DB) *gorm.DB { return right(left(q)) }
	case shared.OrSpecification[T]:
		left := translate(db, s.Left, concrete)
		right := translate(db, s.Right, concrete)
		// 任一分支无法翻译时，SQL 侧不能安全地缩小范围
		if left == nil || right == nil {
			return nil
		}
		return func(q *gorm.DB) *gorm.DB {
			group := left(db.Session(&gorm.Session{NewDB: true}))
			return q.Where(group.Or(right(db.Session(&gorm.Session{NewDB: true}))))
		}
	case shared.NotSpecification[T]:
		return nil
	default:
		return concrete(spec)
	}
}

// Order translates an order specification. db is only used to build grouped conditions.
func Order(db *gorm.DB, spec shared.Specification[*order.Order]) Scope {
	return translate(db, spec, func(spec shared.Specification[*order.Order]) Scope {
		switch s := spec.(type) {
		case order.ByUserIDSpecification:
			return func(q *gorm.DB) *gorm.DB { return q.Where("user_id = ?", s.UserID) }
		case order.ByStatusSpecification:
			return func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", string(s.Status)) }
		case order.ByDateRangeSpecification:
			return func(q *gorm.DB) *gorm.DB {
				if !s.Start.IsZero() {
					q = q.Where("created_at >= ?", s.Start)
				}
				if !s.End.IsZero() {
					q = q.Where("created_at <= ?", s.End)
				}
				return q
			}
		case order.BySearchSpecification:
			term := likePattern(s.Term)
			if term == "" {
				return nil
			}
			return func(q *gorm.DB) *gorm.DB {
				return q.Where("LOWER(id) LIKE ? OR LOWER(shipping_name) LIKE ?", term, term)
			}
		}
		return nil
	})
}

// User translates a user specification.
func User(db *gorm.DB, spec shared.Specification[*user.User]) Scope {
	return translate(db, spec, func(spec shared.Specification[*user.User]) Scope {
		switch s := spec.(type) {
		case user.ByEmailSpecification:
			return func(q *gorm.DB) *gorm.DB { return q.Where("email = ?", user.NormalizeEmail(s.Email)) }
		case user.ByStatusSpecification:
			return func(q *gorm.DB) *gorm.DB { return q.Where("status = ?", string(s.Status)) }
		case user.BySearchSpecification:
			term := likePattern(s.Term)
			if term == "" {
				return nil
			}
			return func(q *gorm.DB) *gorm.DB {
				return q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", term, term)
			}
		}
		return nil
	})
}

// Apply runs scope on db when present.
func Apply(db *gorm.DB, scope Scope) *gorm.DB {
	if scope == nil {
		return db
	}
	return db.Scopes(scope)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(term string) string {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return ""
	}
	return "%" + likeEscaper.Replace(term) + "%"
}
