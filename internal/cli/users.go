package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/me/jarvis/pkg/model"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts (admin)",
	}
	cmd.AddCommand(
		newUsersListCmd(),
		newUsersCreateCmd(),
		newUsersUpdateCmd(),
		newUsersDeleteCmd(),
	)
	return cmd
}

// parseRoleFlag accepts only the closed role set.
func parseRoleFlag(s string) (model.Role, error) {
	role, ok := model.ParseRole(s)
	if !ok {
		return "", fmt.Errorf("invalid role %q (want admin, editor or viewer)", s)
	}
	return role, nil
}

func newUsersListCmd() *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.requireAuth(cmd.Context(), model.RoleAdmin); err != nil {
				return err
			}

			var (
				users []model.Account
				err   error
			)
			if role != "" {
				r, perr := parseRoleFlag(role)
				if perr != nil {
					return perr
				}
				users, err = client.Primary.ListUsersByRole(cmd.Context(), r)
			} else {
				users, err = client.Primary.ListUsers(cmd.Context())
			}
			if err != nil {
				return apiError("list users", err)
			}

			out := cmd.OutOrStdout()
			if len(users) == 0 {
				fmt.Fprintln(out, "No users found.")
				return nil
			}
			fmt.Fprintf(out, "%-36s  %-20s  %-30s  %-7s  %s\n", "ID", "USERNAME", "EMAIL", "ROLE", "CREATED")
			fmt.Fprintf(out, "%-36s  %-20s  %-30s  %-7s  %s\n", "--", "--------", "-----", "----", "-------")
			for _, u := range users {
				fmt.Fprintf(out, "%-36s  %-20s  %-30s  %-7s  %s\n", u.ID, u.Username, u.Email, u.Role, humanize.Time(u.CreatedAt))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Only list users with this role")
	return cmd
}

func newUsersCreateCmd() *cobra.Command {
	var username, email, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := parseRoleFlag(role)
			if err != nil {
				return err
			}
			if _, err := client.requireAuth(cmd.Context(), model.RoleAdmin); err != nil {
				return err
			}
			password, err := newPrompter(cmd).secret("Password for new user: ")
			if err != nil {
				return err
			}

			req := model.CreateAccountRequest{Username: username, Email: email, Password: password, Role: r}
			if err := req.Validate(); err != nil {
				return inputError(err)
			}
			u, err := client.Primary.CreateUser(cmd.Context(), req)
			if err != nil {
				return apiError("create user", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s, %s)\n", u.Username, u.ID, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username")
	cmd.Flags().StringVar(&email, "email", "", "Email")
	cmd.Flags().StringVar(&role, "role", string(model.RoleViewer), "Role: admin, editor or viewer")
	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	var username, email, role string
	var setPassword bool

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := model.UpdateAccountRequest{Username: username, Email: email}
			if role != "" {
				r, err := parseRoleFlag(role)
				if err != nil {
					return err
				}
				req.Role = r
			}
			if _, err := client.requireAuth(cmd.Context(), model.RoleAdmin); err != nil {
				return err
			}
			if setPassword {
				pw, err := newPrompter(cmd).secret("New password: ")
				if err != nil {
					return err
				}
				req.Password = pw
			}
			if req == (model.UpdateAccountRequest{}) {
				return fmt.Errorf("nothing to update")
			}
			if err := req.Validate(); err != nil {
				return inputError(err)
			}

			u, err := client.Primary.UpdateUser(cmd.Context(), args[0], req)
			if err != nil {
				return apiError("update user", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s, %s)\n", u.Username, u.ID, u.Role)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "New username")
	cmd.Flags().StringVar(&email, "email", "", "New email")
	cmd.Flags().StringVar(&role, "role", "", "New role: admin, editor or viewer")
	cmd.Flags().BoolVar(&setPassword, "password", false, "Prompt for a new password")
	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := client.requireAuth(cmd.Context(), model.RoleAdmin); err != nil {
				return err
			}
			if err := client.Primary.DeleteUser(cmd.Context(), args[0]); err != nil {
				return apiError("delete user", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
			return nil
		},
	}
}
