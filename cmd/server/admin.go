package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/youvshr/internal/authz"
	"github.com/youvshr/internal/db"
	"github.com/youvshr/internal/seed"
	"github.com/youvshr/internal/service"
	"gorm.io/gorm"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update database tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// bootstrap 中的 db.Init 已完成自动迁移
			if _, err := bootstrap(); err != nil {
				return err
			}
			if _, err := authz.NewService(db.DB); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database migrated")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load pages and resources from a YAML fixture file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}

			var (
				fixtures *seed.Fixtures
				err      error
			)
			if strings.TrimSpace(file) == "" {
				fixtures, err = seed.Default()
			} else {
				fixtures, err = seed.LoadFile(file)
			}
			if err != nil {
				return err
			}

			result, err := seed.Apply(db.DB, fixtures)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.String())
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML fixture file (built-in sample data when empty)")
	return cmd
}

func newCreateAdminCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create a staff account and grant it the moderator role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}

			user, err := db.EnsureStaffUser(db.DB, username, password)
			if err != nil {
				return err
			}
			enforcer, err := authz.NewService(db.DB)
			if err != nil {
				return err
			}
			if err := enforcer.GrantModerator(user.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q ready (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "admin username")
	cmd.Flags().StringVar(&password, "password", "", "admin password")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newCommentsCmd() *cobra.Command {
	comments := &cobra.Command{
		Use:   "comments",
		Short: "Moderate comments",
	}

	comments.AddCommand(&cobra.Command{
		Use:   "approve <id>...",
		Short: "Approve pending comments by id",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args)
			if err != nil {
				return err
			}
			if _, err := bootstrap(); err != nil {
				return err
			}

			count, err := service.NewCommentService(db.DB).Approve(ids)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), service.ApprovedMessage(count))
			return nil
		},
	})

	comments.AddCommand(&cobra.Command{
		Use:   "pending",
		Short: "List comments awaiting approval",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}

			pending, err := service.NewCommentService(db.DB).ListPending()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(pending) == 0 {
				fmt.Fprintln(out, "no pending comments")
				return nil
			}
			for _, comment := range pending {
				fmt.Fprintf(out, "%d\t%s\t%s\n", comment.ID, comment.Story.Slug, comment.Author.Username)
			}
			return nil
		},
	})

	return comments
}

func newModeratorsCmd() *cobra.Command {
	moderators := &cobra.Command{
		Use:   "moderators",
		Short: "Manage the comment moderator role",
	}

	moderators.AddCommand(&cobra.Command{
		Use:   "grant <username>",
		Short: "Grant the moderator role to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enforcer, user, err := moderatorTarget(args[0])
			if err != nil {
				return err
			}
			if err := enforcer.GrantModerator(user.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now a moderator\n", user.Username)
			return nil
		},
	})

	moderators.AddCommand(&cobra.Command{
		Use:   "revoke <username>",
		Short: "Remove the moderator role from a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			enforcer, user, err := moderatorTarget(args[0])
			if err != nil {
				return err
			}
			ok, err := enforcer.IsModerator(user.ID)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is not a moderator\n", user.Username)
				return nil
			}
			if err := enforcer.RevokeModerator(user.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer a moderator\n", user.Username)
			return nil
		},
	})

	moderators.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List users holding the moderator role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			enforcer, err := authz.NewService(db.DB)
			if err != nil {
				return err
			}
			ids, err := enforcer.ModeratorIDs()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(ids) == 0 {
				fmt.Fprintln(out, "no moderators")
				return nil
			}
			var users []db.User
			if err := db.DB.Where("id IN ?", ids).Order("id ASC").Find(&users).Error; err != nil {
				return err
			}
			for _, user := range users {
				fmt.Fprintf(out, "%d\t%s\n", user.ID, user.Username)
			}
			return nil
		},
	})

	return moderators
}

// moderatorTarget 初始化运行环境并按用户名查找用户
func moderatorTarget(username string) (*authz.Service, *db.User, error) {
	if _, err := bootstrap(); err != nil {
		return nil, nil, err
	}
	enforcer, err := authz.NewService(db.DB)
	if err != nil {
		return nil, nil, err
	}

	var user db.User
	if err := db.DB.Where("username = ?", strings.TrimSpace(username)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("user %q not found", username)
		}
		return nil, nil, err
	}
	return enforcer, &user, nil
}

func parseIDs(args []string) ([]uint, error) {
	ids := make([]uint, 0, len(args))
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil || id == 0 {
				return nil, fmt.Errorf("invalid comment id %q", part)
			}
			ids = append(ids, uint(id))
		}
	}
	return ids, nil
}
