package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/vrain/internal/api"
	"github.com/MrSnakeDoc/vrain/internal/notify"
)

type credentialFlags struct {
	username string
	password string
	fullname string
}

// resolve fills a missing password from the first line of in.
func (f *credentialFlags) resolve(cmd *cobra.Command) error {
	if f.password != "" {
		return nil
	}
	_, _ = fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read password: %w", err)
	}
	f.password = strings.TrimRight(line, "\r\n")
	return nil
}

func newLoginCommand(rt *runtime) *cobra.Command {
	var creds credentialFlags

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Sign in with a username and password. The bearer token is kept in the
session store ($VRAIN_SESSION_DIR) for later commands.

The password is read from stdin when --password is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.resolve(cmd); err != nil {
				return err
			}
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				if err := c.SignIn(cmd.Context(), creds.username, creds.password); err != nil {
					notify.Failure(cmd.Context(), rt.notifier(cmd.OutOrStdout()), "Sign in failed")
					return err
				}
				notify.Success(cmd.Context(), rt.notifier(cmd.OutOrStdout()), "Signed in as "+creds.username)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&creds.username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&creds.password, "password", "p", "", "account password")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newSignupCommand(rt *runtime) *cobra.Command {
	var creds credentialFlags

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := creds.resolve(cmd); err != nil {
				return err
			}
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				if err := c.SignUp(cmd.Context(), creds.username, creds.password, creds.fullname); err != nil {
					notify.Failure(cmd.Context(), rt.notifier(cmd.OutOrStdout()), "Sign up failed")
					return err
				}
				notify.Success(cmd.Context(), rt.notifier(cmd.OutOrStdout()), "Account created, you can now login")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&creds.username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&creds.password, "password", "p", "", "account password")
	cmd.Flags().StringVar(&creds.fullname, "fullname", "", "display name")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				if err := c.SignOut(cmd.Context()); err != nil {
					return err
				}
				notify.Success(cmd.Context(), rt.notifier(cmd.OutOrStdout()), "Signed out")
				return nil
			})
		},
	}
}

func newWhoamiCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withClient(cmd.Context(), func(c *api.Client) error {
				name, err := c.Profile(cmd.Context())
				if err != nil {
					return err
				}
				if rt.asJSON {
					return printJSON(cmd.OutOrStdout(), map[string]string{"fullname": name})
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), name)
				return err
			})
		},
	}
}
