package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xiebiao/bookapp/internal/domain/authz"
)

func newUsersCmd(withRuntime runE) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "用户角色管理",
	}

	roleNames := make([]string, 0, len(authz.Roles()))
	for _, r := range authz.Roles() {
		roleNames = append(roleNames, string(r))
	}
	roleHelp := strings.Join(roleNames, " | ")

	grant := &cobra.Command{
		Use:   "grant <email> <role>",
		Short: "授予角色（" + roleHelp + "）",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
			role, err := authz.ParseRole(args[1])
			if err != nil {
				return err
			}
			if err := rt.container.UserService.GrantRole(cmd.Context(), args[0], role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Granted role %s to %s\n", role, args[0])
			return nil
		}),
	}

	revoke := &cobra.Command{
		Use:   "revoke <email> <role>",
		Short: "撤销角色，下一次请求即生效",
		Args:  cobra.ExactArgs(2),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
			role, err := authz.ParseRole(args[1])
			if err != nil {
				return err
			}
			if err := rt.container.UserService.RevokeRole(cmd.Context(), args[0], role); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Revoked role %s from %s\n", role, args[0])
			return nil
		}),
	}

	show := &cobra.Command{
		Use:   "show <email>",
		Short: "查看用户及其角色",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
			u, err := rt.container.UserService.FindByEmail(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			roles := make([]string, len(u.Roles))
			for i, r := range u.Roles {
				roles[i] = string(r)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\t[%s]\n", u.ID, u.Email, u.Nickname, strings.Join(roles, ", "))
			return nil
		}),
	}

	del := &cobra.Command{
		Use:   "delete <email>",
		Short: "删除用户（同时删除角色和个人资料）",
		Args:  cobra.ExactArgs(1),
		RunE: withRuntime(func(cmd *cobra.Command, args []string, rt *runtime) error {
			if err := rt.container.UserService.DeleteUser(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
			return nil
		}),
	}

	users.AddCommand(grant, revoke, show, del)
	return users
}
