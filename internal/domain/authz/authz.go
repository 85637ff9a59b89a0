// Package authz 角色与权限
//
// 角色 → 能力（Capability）的映射是显式的静态表，Decide是唯一的判定入口。
// 用户没有任何角色时只具备"已登录"身份，访问需要能力的操作一律拒绝。
//
// 只读路由（列表、详情、按作者/分类/年份筛选）只要求登录，不检查ViewBook；
// ViewBook保留在表中供以后细分只读权限，目前买家与无角色用户的读权限相同。
package authz

import (
	"fmt"
	"sort"
)

// Capability 可授予的操作能力
type Capability string

const (
	ViewBook      Capability = "book.view"
	AddBook       Capability = "book.add"
	ChangeBook    Capability = "book.change"
	DeleteBook    Capability = "book.delete"
	AddAuthor     Capability = "author.add"
	DeleteAuthor  Capability = "author.delete"
	AddGenre      Capability = "genre.add"
	ApplyDiscount Capability = "book.discount"
)

// Role 角色
type Role string

const (
	RoleSeller Role = "seller"
	RoleBuyer  Role = "buyer"
	RoleAdmin  Role = "admin"
)

// allCapabilities 管理员拥有全部能力
var allCapabilities = []Capability{
	ViewBook, AddBook, ChangeBook, DeleteBook,
	AddAuthor, DeleteAuthor, AddGenre, ApplyDiscount,
}

var roleCapabilities = map[Role][]Capability{
	RoleSeller: {AddBook, ChangeBook, DeleteBook, AddAuthor, AddGenre},
	RoleBuyer:  {ViewBook},
	RoleAdmin:  allCapabilities,
}

// ParseRole 解析角色名
func ParseRole(name string) (Role, error) {
	r := Role(name)
	if _, ok := roleCapabilities[r]; !ok {
		return "", fmt.Errorf("unknown role %q", name)
	}
	return r, nil
}

// Roles 全部已知角色（按名称排序）
func Roles() []Role {
	roles := make([]Role, 0, len(roleCapabilities))
	for r := range roleCapabilities {
		roles = append(roles, r)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// CapabilitiesOf 角色集合的能力并集
func CapabilitiesOf(roles ...Role) map[Capability]bool {
	caps := make(map[Capability]bool)
	for _, r := range roles {
		for _, c := range roleCapabilities[r] {
			caps[c] = true
		}
	}
	return caps
}

// Principal 已认证的调用方
type Principal struct {
	UserID uint
	Roles  []Role
}

// Decision 授权结果
type Decision int

const (
	Unauthenticated Decision = iota
	Allow
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "ALLOW"
	case Deny:
		return "DENY"
	default:
		return "UNAUTHENTICATED"
	}
}

// Decide 判定principal能否执行capability，principal为nil表示未登录
func Decide(p *Principal, c Capability) Decision {
	if p == nil {
		return Unauthenticated
	}
	if CapabilitiesOf(p.Roles...)[c] {
		return Allow
	}
	return Deny
}
