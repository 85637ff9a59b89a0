package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	seller := &Principal{UserID: 1, Roles: []Role{RoleSeller}}
	buyer := &Principal{UserID: 2, Roles: []Role{RoleBuyer}}
	admin := &Principal{UserID: 3, Roles: []Role{RoleAdmin}}
	nobody := &Principal{UserID: 4}

	tests := []struct {
		name string
		p    *Principal
		c    Capability
		want Decision
	}{
		{"未登录", nil, AddBook, Unauthenticated},
		{"卖家可添加图书", seller, AddBook, Allow},
		{"卖家可修改图书", seller, ChangeBook, Allow},
		{"卖家可删除图书", seller, DeleteBook, Allow},
		{"卖家可添加作者", seller, AddAuthor, Allow},
		{"卖家可添加分类", seller, AddGenre, Allow},
		{"卖家不可删除作者", seller, DeleteAuthor, Deny},
		{"卖家不可执行折扣", seller, ApplyDiscount, Deny},
		{"买家只能查看", buyer, ViewBook, Allow},
		{"买家不可添加", buyer, AddBook, Deny},
		{"买家不可修改", buyer, ChangeBook, Deny},
		{"买家不可删除", buyer, DeleteBook, Deny},
		{"管理员拥有全部能力", admin, ApplyDiscount, Allow},
		{"无角色用户被拒绝", nobody, AddBook, Deny},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.p, tt.c))
		})
	}
}

func TestCapabilitiesOf(t *testing.T) {
	t.Run("多角色取并集", func(t *testing.T) {
		caps := CapabilitiesOf(RoleSeller, RoleBuyer)
		assert.True(t, caps[ViewBook])
		assert.True(t, caps[AddBook])
		assert.False(t, caps[DeleteAuthor])
	})

	t.Run("无角色没有能力", func(t *testing.T) {
		assert.Empty(t, CapabilitiesOf())
	})
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("seller")
	require.NoError(t, err)
	assert.Equal(t, RoleSeller, r)

	_, err = ParseRole("superuser")
	assert.Error(t, err)

	assert.Equal(t, []Role{RoleAdmin, RoleBuyer, RoleSeller}, Roles())
}
