package cmd

import (
	"context"
	"time"

	"appointly/models"
	"appointly/services/user"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func adminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			rt, err := bootstrap(false, false)
			if err != nil {
				return err
			}
			defer rt.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			u, err := rt.app.Users.CreateAdmin(ctx, user.RegisterInput{Name: name, Email: email, Password: password})
			if err != nil {
				return err
			}
			rt.logger.Info("Admin created", zap.String("userId", u.ID), zap.String("email", u.Email))
			return nil
		},
	}
	createCmd.Flags().String("name", "", "display name")
	createCmd.Flags().String("email", "", "login email")
	createCmd.Flags().String("password", "", "initial password")
	_ = createCmd.MarkFlagRequired("email")
	_ = createCmd.MarkFlagRequired("password")
	_ = createCmd.MarkFlagRequired("name")
	cmd.AddCommand(createCmd)

	setRoleCmd := &cobra.Command{
		Use:   "set-role",
		Short: "Promote or demote an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			role, _ := cmd.Flags().GetString("role")

			// The role cache must be reachable so the change takes effect at once.
			rt, err := bootstrap(false, true)
			if err != nil {
				return err
			}
			defer rt.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			u, err := rt.app.Users.SetRole(ctx, email, models.Role(role))
			if err != nil {
				return err
			}
			rt.logger.Info("Role updated", zap.String("userId", u.ID), zap.String("role", string(u.Role)))
			return nil
		},
	}
	setRoleCmd.Flags().String("email", "", "login email")
	setRoleCmd.Flags().String("role", "", "user or admin")
	_ = setRoleCmd.MarkFlagRequired("email")
	_ = setRoleCmd.MarkFlagRequired("role")
	cmd.AddCommand(setRoleCmd)
	return cmd
}
