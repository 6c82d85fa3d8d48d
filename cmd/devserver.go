package cmd

import (
	"errors"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"legaltoolkit/authbridge/internal/backend"
	"legaltoolkit/authbridge/internal/devserver"
)

var (
	devAddr         string
	devSecret       string
	devTokenTTL     time.Duration
	devSeedEmail    string
	devSeedPassword string
	devSeedName     string
	devSeedPlan     string
)

// devserverCmd runs the in-memory reference API for local development.
var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run an in-memory reference API for local development",
	Long: `The devserver command serves the login, profile, register and health
endpoints of the web portal API from memory. Nothing is persisted; accounts
disappear when the server stops. Use --seed-email and --seed-password to start
with one account.

The signing secret defaults to AUTHBRIDGE_DEVSERVER_SECRET, or a random value
so tokens do not survive a restart.`,
	Annotations: map[string]string{annotationNoSession: "true"},

	RunE: func(cmd *cobra.Command, args []string) error {
		a := appFrom(cmd)

		secret := devSecret
		if secret == "" {
			secret = os.Getenv("AUTHBRIDGE_DEVSERVER_SECRET")
		}
		if secret == "" {
			secret = uuid.NewString()
		}

		srv := devserver.New(devserver.NewUsers(bcrypt.DefaultCost), devserver.NewIssuer([]byte(secret), devTokenTTL), a.log)

		if devSeedEmail != "" {
			if devSeedPassword == "" {
				return errors.New("--seed-password is required with --seed-email")
			}
			u, err := srv.Users().Register(devSeedEmail, devSeedPassword, devSeedName)
			if err != nil {
				return err
			}
			if devSeedPlan != "" {
				sub := &backend.SubscriptionInfo{
					PlanType:  devSeedPlan,
					Status:    "active",
					CreatedAt: backend.Timestamp{Time: time.Now().UTC()},
				}
				if err := srv.Users().SetSubscription(u.ID, sub); err != nil {
					return err
				}
			}
			pterm.Info.Printfln("Seeded user %s (id %d)", u.Email, u.ID)
		}

		pterm.Success.Printfln("Dev API listening on %s", devAddr)
		return srv.Run(cmd.Context(), devAddr)
	},
}

func init() {
	rootCmd.AddCommand(devserverCmd)
	f := devserverCmd.Flags()
	f.StringVar(&devAddr, "addr", "127.0.0.1:8000", "listen address")
	f.StringVar(&devSecret, "secret", "", "HS256 signing secret")
	f.DurationVar(&devTokenTTL, "token-ttl", devserver.DefaultTokenTTL, "access token lifetime")
	f.StringVar(&devSeedEmail, "seed-email", "", "register this account at startup")
	f.StringVar(&devSeedPassword, "seed-password", "", "password of the seeded account")
	f.StringVar(&devSeedName, "seed-name", "", "full name of the seeded account")
	f.StringVar(&devSeedPlan, "seed-plan", "", "give the seeded account an active plan, e.g. monthly")
}
