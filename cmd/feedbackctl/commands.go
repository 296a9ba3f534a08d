package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zatekoja/teamfeedback/internal/adapters/database"
	"github.com/zatekoja/teamfeedback/internal/adapters/security"
	"github.com/zatekoja/teamfeedback/internal/application/services"
	"github.com/zatekoja/teamfeedback/internal/domain/entities"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/teamfeedback/internal/infrastructure/observability"
	"github.com/zatekoja/teamfeedback/pkg/config"
	"golang.org/x/crypto/bcrypt"
)

// connect loads configuration, initialises logging and opens the database.
func connect() (*config.Config, *postgres.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load configuration: %w", err)
	}
	observability.InitLogger(appName, cfg.App.Env, cfg.App.LogLevel)

	client, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to postgres: %w", err)
	}
	return cfg, client, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()

			applied, err := client.Migrate(cmd.Context())
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			}
			for _, version := range applied {
				fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", version)
			}
			return nil
		},
	}
}

type seedUser struct {
	name  string
	email string
	role  entities.Role
}

var (
	seedManager   = seedUser{name: "Morgan Lee", email: "morgan.lee@example.com", role: entities.RoleManager}
	seedEmployees = []seedUser{
		{name: "Avery Chen", email: "avery.chen@example.com", role: entities.RoleEmployee},
		{name: "Jordan Patel", email: "jordan.patel@example.com", role: entities.RoleEmployee},
		{name: "Riley Okafor", email: "riley.okafor@example.com", role: entities.RoleEmployee},
	}
	seedTags = []string{"communication", "ownership", "collaboration", "delivery"}
)

func seedCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create a demo manager, their team and a starter tag set",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := connect()
			if err != nil {
				return err
			}
			defer client.Close()

			identity := services.NewIdentityService(database.NewUserAdapter(client), security.NewBcryptHasher(bcrypt.DefaultCost))
			tags := services.NewTagService(database.NewTagAdapter(client))
			return seed(cmd.Context(), identity, tags, password)
		},
	}

	cmd.Flags().StringVar(&password, "password", "changeme123", "Password for every seeded account")
	return cmd
}

func seed(ctx context.Context, identity *services.IdentityService, tags *services.TagService, password string) error {
	manager, err := ensureUser(ctx, identity, seedManager, password, nil)
	if err != nil {
		return err
	}
	for _, u := range seedEmployees {
		if _, err := ensureUser(ctx, identity, u, password, &manager.ID); err != nil {
			return err
		}
	}

	created, err := tags.GetOrCreate(ctx, seedTags)
	if err != nil {
		return fmt.Errorf("seed tags: %w", err)
	}
	log.Info().Int("employees", len(seedEmployees)).Int("tags", len(created)).Str("manager", manager.Email).Msg("seed complete")
	return nil
}

// ensureUser creates u unless its e-mail is already registered.
func ensureUser(ctx context.Context, identity *services.IdentityService, u seedUser, password string, managerID *string) (*entities.User, error) {
	existing, err := identity.FindByEmail(ctx, u.email)
	if err != nil {
		return nil, fmt.Errorf("look up %s: %w", u.email, err)
	}
	if existing != nil {
		return existing, nil
	}

	user, err := identity.Create(ctx, services.CreateUserInput{
		Name:      u.name,
		Email:     u.email,
		Password:  password,
		Role:      u.role,
		ManagerID: managerID,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", u.email, err)
	}
	log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Msg("user created")
	return user, nil
}
