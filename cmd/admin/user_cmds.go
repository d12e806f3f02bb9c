package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yigit/headta/internal/app/models/dto"
	appRepos "github.com/yigit/headta/internal/app/repositories"
	appServices "github.com/yigit/headta/internal/app/services"
	"github.com/yigit/headta/internal/seed"
)

func newCreateAdminCmd(open opener) *cobra.Command {
	var admin seed.Admin

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account (a new invitation tree root)",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.db.Close()

			id, created, err := seed.CreateAdmin(cmd.Context(), appRepos.NewUserRepository(e.db.Pool), admin)
			if err != nil {
				return err
			}
			if !created {
				return fmt.Errorf("email %s is already registered", admin.Email)
			}
			return writeJSON(map[string]any{"command": "create-admin", "id": id})
		},
	}

	cmd.Flags().StringVar(&admin.Email, "email", "", "Admin email (required)")
	cmd.Flags().StringVar(&admin.Password, "password", "", "Admin password (required)")
	cmd.Flags().StringVar(&admin.FirstName, "first-name", "", "First name (required)")
	cmd.Flags().StringVar(&admin.LastName, "last-name", "", "Last name (required)")
	for _, f := range []string{"email", "password", "first-name", "last-name"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newCreatePlaceholderCmd(open opener) *cobra.Command {
	var (
		adminID int64
		req     dto.CreatePlaceholderRequest
	)

	cmd := &cobra.Command{
		Use:   "create-placeholder",
		Short: "Create an unclaimed profile for a head TA who has not signed up",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.db.Close()

			svc := appServices.NewUserService(appRepos.NewUserRepository(e.db.Pool), e.logger)
			user, err := svc.CreatePlaceholder(cmd.Context(), adminID, &req)
			if err != nil {
				return err
			}
			return writeJSON(dto.NewUserResponse(user))
		},
	}

	cmd.Flags().Int64Var(&adminID, "admin-id", 0, "ID of the admin recorded as the inviter (required)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name (required)")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name (required)")
	cmd.Flags().StringVar(&req.Email, "email", "", "Known email address (optional)")
	for _, f := range []string{"admin-id", "first-name", "last-name"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newTreeCmd(open opener) *cobra.Command {
	var rootID int64

	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the invitation forest as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := open(cmd.Context())
			if err != nil {
				return err
			}
			defer e.db.Close()

			var root *int64
			if rootID > 0 {
				root = &rootID
			}
			svc := appServices.NewInvitationTreeService(appRepos.NewUserRepository(e.db.Pool), e.logger)
			forest, err := svc.BuildForest(cmd.Context(), root)
			if err != nil {
				return err
			}
			return writeJSON(appServices.NewForestResponse(forest))
		},
	}

	cmd.Flags().Int64Var(&rootID, "root", 0, "Only print the tree rooted at this user")
	return cmd
}
