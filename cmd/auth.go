// ABOUTME: Session subcommands: login, logout, register, whoami
// ABOUTME: The session is saved where the TUI reads it, so both share one login

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/markalston/storefront-cli/internal/apperrors"
	"github.com/markalston/storefront-cli/internal/models"
	"github.com/markalston/storefront-cli/internal/validate"
)

var (
	loginEmail    string
	loginPassword string

	registerName     string
	registerEmail    string
	registerPassword string
	registerRole     string
)

var loginMessages = apperrors.Messages{
	Default:      "Login failed. Please try again.",
	Unauthorized: "Invalid email or password",
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and save the session",
	Long:  `Sign in with email and password. Missing values are prompted for.`,
	Run: func(cmd *cobra.Command, args []string) {
		creds := models.Credentials{Email: loginEmail, Password: loginPassword}
		if creds.Email == "" || creds.Password == "" {
			if err := promptCredentials(&creds); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(exitRejected)
			}
		}
		execute(func(ctx context.Context, d *deps) int {
			return runLogin(ctx, d, os.Stdout, creds)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(_ context.Context, d *deps) int {
			return runLogout(d, os.Stdout)
		})
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a customer or seller account",
	Long: `Create an account. Registration does not sign you in; run login afterwards.
Administrator accounts cannot be self-registered.`,
	Run: func(cmd *cobra.Command, args []string) {
		form := validate.RegisterForm{
			Name:            registerName,
			Email:           registerEmail,
			Password:        registerPassword,
			ConfirmPassword: registerPassword,
			Role:            strings.ToUpper(registerRole),
		}
		execute(func(ctx context.Context, d *deps) int {
			return runRegister(ctx, d, os.Stdout, form)
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(_ context.Context, d *deps) int {
			return runWhoami(d, os.Stdout)
		})
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")

	registerCmd.Flags().StringVar(&registerName, "name", "", "Full name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Password (at least 6 characters)")
	registerCmd.Flags().StringVar(&registerRole, "role", string(models.RoleCustomer), "Account type: USER or SELLER")

	rootCmd.AddCommand(loginCmd, logoutCmd, registerCmd, whoamiCmd)
}

// promptCredentials asks for whatever the flags left out
var promptCredentials = func(creds *models.Credentials) error {
	return huh.NewForm(huh.NewGroup(
		huh.NewInput().Title("Email").Value(&creds.Email).Validate(validate.Email),
		huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&creds.Password).Validate(validate.Required),
	)).Run()
}

// runLogin signs in and returns exit code
func runLogin(ctx context.Context, d *deps, w io.Writer, creds models.Credentials) int {
	creds.Email = strings.TrimSpace(creds.Email)
	res := d.store.Login(ctx, creds)
	if res.Err != nil {
		return fail(w, res.Err, loginMessages)
	}
	render(w, res.Identity, func() string {
		return fmt.Sprintf("Logged in as %s (%s)", res.Identity.Name, res.Identity.Role.Label())
	})
	return exitOK
}

func runLogout(d *deps, w io.Writer) int {
	if err := d.store.Logout(); err != nil {
		fmt.Fprintf(w, "Error: removing saved session: %v\n", err)
		return exitUnavailable
	}
	return done(w, "You have been logged out.")
}

func runRegister(ctx context.Context, d *deps, w io.Writer, form validate.RegisterForm) int {
	if err := validate.Struct(form); err != nil {
		return fail(w, err, apperrors.Messages{})
	}
	res := d.store.Register(ctx, form.Registration())
	if res.Err != nil {
		return fail(w, res.Err, apperrors.Messages{Default: "Registration failed. Please try again."})
	}
	return done(w, "Registration successful! Please login.")
}

func runWhoami(d *deps, w io.Writer) int {
	snap := d.store.Snapshot()
	if !snap.Authenticated() {
		return requireRole(d, w)
	}
	id := snap.Identity
	render(w, id, func() string {
		return fmt.Sprintf("%s <%s>\nRole: %s", id.Name, id.Email, id.Role.Label())
	})
	return exitOK
}
