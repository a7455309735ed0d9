package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todo/internal/auth"
	"github.com/idilsaglam/todo/internal/ui"
)

// prompter reads answers for flags left empty.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{in: bufio.NewReader(cmd.InOrStdin()), out: cmd.OutOrStdout()}
}

// ask returns the trimmed line typed after label; end of input means "".
func (p *prompter) ask(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (p *prompter) fill(value *string, label string) error {
	if *value != "" {
		return nil
	}
	v, err := p.ask(label)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

func newLoginCommand(a *app) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session token",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd)
			if err := p.fill(&username, "Username"); err != nil {
				return err
			}
			if err := p.fill(&password, "Password"); err != nil {
				return err
			}
			if err := a.account.Login(cmd.Context(), username, password); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "Login successful!")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username (prompted when empty)")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password (prompted when empty)")
	return cmd
}

func newRegisterCommand(a *app) *cobra.Command {
	var username, email, password string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := newPrompter(cmd)
			if err := p.fill(&username, "Username"); err != nil {
				return err
			}
			if err := p.fill(&email, "Email"); err != nil {
				return err
			}
			if err := p.fill(&password, "Password"); err != nil {
				return err
			}
			if err := a.account.Register(cmd.Context(), username, email, password); err != nil {
				return err
			}
			ui.OK(cmd.OutOrStdout(), "Registration successful! You can now log in.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cleared, err := a.account.Logout()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			ui.OK(out, "logged out")
			if !cleared {
				fmt.Fprintln(out, ui.Current().Muted.Render("TODO_TOKEN is set; that token stays active until you unset it."))
			}
			return nil
		},
	}
}

func newStatusCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the session token comes from",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.account.Status()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "api: %s\n", a.client.BaseURL())
			if !st.LoggedIn {
				fmt.Fprintln(out, ui.Current().Muted.Render("not logged in"))
				fmt.Fprintln(out, "Run: todo login")
				return nil
			}
			fmt.Fprintf(out, "source: %s\n", st.Source)
			if st.ExpiresAt != nil {
				fmt.Fprintf(out, "expires: %s\n", st.ExpiresAt.UTC().Format(time.RFC3339))
			} else {
				fmt.Fprintln(out, "expires: (unknown)")
			}
			fmt.Fprintln(out, "env override: TODO_TOKEN")
			return nil
		},
	}
}

// whoami decodes a JWT locally without verifying it; opaque tokens only
// report their source.
func newWhoAmICommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the claims of the session token",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.account.Status()
			if err != nil {
				return err
			}
			token, err := a.account.Token()
			if err != nil {
				return err
			}
			if !st.LoggedIn || token == "" {
				return usagef("not logged in. Run: todo login")
			}
			out := cmd.OutOrStdout()
			claims, ok := auth.Claims(token)
			if !ok {
				fmt.Fprintln(out, "Opaque token (cannot introspect locally).")
				fmt.Fprintln(out, "source:", st.Source)
				return nil
			}
			b, err := json.MarshalIndent(claims, "", "  ")
			if err != nil {
				return fmt.Errorf("encode claims: %w", err)
			}
			fmt.Fprintln(out, "JWT payload:")
			fmt.Fprintln(out, string(b))
			return nil
		},
	}
}

func newProfileCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the logged-in user",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.account.Profile(cmd.Context())
			if err != nil {
				return err
			}
			t := ui.Current()
			fmt.Fprintln(cmd.OutOrStdout(), ui.Panel([]string{
				t.Title.Render("Your Profile"),
				"",
				t.Accent.Render("Username: ") + p.Username,
				t.Accent.Render("Email:    ") + p.Email,
			}))
			return nil
		},
	}
}
