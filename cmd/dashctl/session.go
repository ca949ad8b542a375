package main

import (
	"fmt"
	"os"

	"github.com/erp/dashboard/internal/application/auth"
	"github.com/erp/dashboard/internal/domain/identity"
	"github.com/erp/dashboard/internal/infrastructure/cache"
	"github.com/erp/dashboard/internal/interfaces/http/dto"
	"github.com/spf13/cobra"
)

// passwordEnv is read when --password is not given
const passwordEnv = "DASH_PASSWORD"

func newSessionCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Check backend sign-in",
	}
	cmd.AddCommand(newSessionCheckCmd(c))
	return cmd
}

func newSessionCheckCmd(c *cli) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Sign in, confirm the backend session, then sign out",
		Long: `check signs in with the given credentials, asks the backend who owns the
new session and signs out again. The password may come from ` + passwordEnv + `.`,
		Example: `  DASH_PASSWORD=... dashctl session check --email owner@shop.ng`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := c.connect(); err != nil {
				return err
			}
			if password == "" {
				password = os.Getenv(passwordEnv)
			}

			prefs := cache.NewInMemoryPreferenceStore(c.cfg.Session.TTL)
			defer prefs.Close()
			svc := auth.NewService(c.client, prefs, identity.NewGuard(c.cfg.Backend.Timeout), nil, c.log)

			ctx := cmd.Context()
			res, err := svc.Login(ctx, email, password)
			if err != nil {
				return fmt.Errorf("sign-in failed: %w", err)
			}
			defer svc.Logout(ctx, res.Identity.Email, res.BackendCookies)

			me, err := svc.WhoAmI(ctx, res.BackendCookies)
			confirmed := err == nil && me.Email == res.Identity.Email
			if me.IsZero() {
				me = res.Identity
			}

			out := cmd.OutOrStdout()
			if c.output == outputJSON {
				return c.printJSON(out, struct {
					dto.IdentityResponse
					Confirmed bool `json:"confirmed"`
				}{
					IdentityResponse: dto.IdentityResponse{
						Email:        me.Email,
						BusinessName: me.BusinessName,
						DisplayName:  me.DisplayName(),
					},
					Confirmed: confirmed,
				})
			}

			fmt.Fprintf(out, "Signed in as %s\n", me.DisplayName())
			if confirmed {
				fmt.Fprintln(out, "Backend session: confirmed")
			} else {
				fmt.Fprintln(out, "Backend session: not confirmed (the dashboard will rely on its own session marker)")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&password, "password", "", "Account password (default $"+passwordEnv+")")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
