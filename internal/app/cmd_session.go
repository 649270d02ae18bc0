package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hitoshi/hrms/internal/model"
)

// ErrNotLoggedIn は認証済みセッションが無いことを表す。
var ErrNotLoggedIn = errors.New("not logged in")

func (c *cli) loginCmd() *cobra.Command {
	var req model.LoginRequest

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and persist the session",
		Args:  cobra.NoArgs,
		RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
			resp, err := app.Session.Login(ctx, req)
			if err != nil {
				return sessionFailure("login", app, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", displayName(&resp.User), resp.User.Email)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Email address or employee id")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password")
	cmd.Flags().BoolVar(&req.RememberMe, "remember", false, "Keep me signed in")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session",
		Args:  cobra.NoArgs,
		RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
			app.Session.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		}),
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	var role, permission string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		Long: `Show the current user restored from storage.

With --role or --permission, print whether the user holds it instead.`,
		Args: cobra.NoArgs,
		RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
			mgr := app.Session
			if !mgr.IsAuthenticated() {
				return ErrNotLoggedIn
			}
			out := cmd.OutOrStdout()

			switch {
			case role != "":
				names := strings.Split(role, ",")
				fmt.Fprintln(out, mgr.HasAnyRole(names...))
				return nil
			case permission != "":
				fmt.Fprintln(out, mgr.HasPermission(permission))
				return nil
			}
			return printJSON(out, mgr.CurrentUser())
		}),
	}

	cmd.Flags().StringVar(&role, "role", "", "Check role membership (comma separated: any of)")
	cmd.Flags().StringVar(&permission, "permission", "", "Check a permission")
	return cmd
}

func (c *cli) registerCmd() *cobra.Command {
	var req model.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new user",
		Args:  cobra.NoArgs,
		RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
			req.ConfirmPassword = req.Password
			req.TermsAccepted = true
			user, err := app.Session.Register(ctx, req)
			if err != nil {
				return sessionFailure("registration", app, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (%s)\n", displayName(user), user.Email)
			return nil
		}),
	}

	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "Email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) changePasswordCmd() *cobra.Command {
	var req model.ChangePasswordRequest

	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change the password",
		Args:  cobra.NoArgs,
		RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
			req.ConfirmPassword = req.NewPassword
			resp, err := app.Session.ChangePassword(ctx, req)
			if err != nil {
				return sessionFailure("change password", app, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		}),
	}

	cmd.Flags().StringVar(&req.CurrentPassword, "current", "", "Current password")
	cmd.Flags().StringVar(&req.NewPassword, "new", "", "New password")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

func (c *cli) changeEmailCmd() *cobra.Command {
	var req model.ChangeEmailRequest

	cmd := &cobra.Command{
		Use:   "change-email",
		Short: "Change the email address",
		Args:  cobra.NoArgs,
		RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
			resp, err := app.Session.ChangeEmail(ctx, req)
			if err != nil {
				return sessionFailure("change email", app, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
			return nil
		}),
	}

	cmd.Flags().StringVar(&req.NewEmail, "new-email", "", "New email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Current password")
	_ = cmd.MarkFlagRequired("new-email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func (c *cli) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Refresh the access token with the stored refresh token",
		Args:  cobra.NoArgs,
		RunE: c.withContext(func(ctx context.Context, cmd *cobra.Command, app *Context, args []string) error {
			resp, err := app.Session.RefreshToken(ctx)
			if err != nil {
				return fmt.Errorf("refresh failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Token refreshed, expires in %ds\n", resp.ExpiresIn)
			return nil
		}),
	}
}

func displayName(u *model.User) string {
	if u == nil {
		return ""
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// sessionFailure はセッションに記録されたメッセージを優先してエラーを組み立てる。
func sessionFailure(action string, app *Context, err error) error {
	if msg := app.Session.State().LastError; msg != "" {
		return fmt.Errorf("%s failed: %s", action, msg)
	}
	return fmt.Errorf("%s failed: %w", action, err)
}
