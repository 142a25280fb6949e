package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/otcheredev/clinichub/internal/auth"
	"github.com/otcheredev/clinichub/internal/cache"
	"github.com/otcheredev/clinichub/internal/config"
	"github.com/otcheredev/clinichub/internal/database"
	"github.com/otcheredev/clinichub/internal/models"
	"github.com/otcheredev/clinichub/internal/repository"
	"github.com/otcheredev/clinichub/internal/services"
	"github.com/otcheredev/clinichub/internal/tenant"
	"github.com/otcheredev/clinichub/pkg/logger"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// operator identifies the CLI in audit logs
var operator = &models.Principal{Username: "clinicctl", Role: models.RoleSuperAdmin}

func main() {
	rootCmd := &cobra.Command{
		Use:           "clinicctl",
		Short:         "ClinicHub operator tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(migrateCmd(), createSuperAdminCmd(), issueTokenCmd(), listClinicsCmd(), flushCacheCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Level, "console")
	return cfg, nil
}

// connect opens the database and runs migrations
func connect(cfg *config.Config) (*gorm.DB, error) {
	return database.Connect(database.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
		LogLevel: "silent",
	})
}

func platform(cmd *cobra.Command, cfg *config.Config) (*services.PlatformService, context.Context, func(), error) {
	db, err := connect(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	ctx := tenant.WithClinic(cmd.Context(), nil, operator)
	svc := services.NewPlatformService(repository.New(db, nil, 0))
	return svc, ctx, func() { _ = database.Close(db) }, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			db, err := connect(cfg)
			if err != nil {
				return err
			}
			defer database.Close(db)

			log.Info().Str("db", cfg.Database.DBName).Msg("Schema up to date")
			return nil
		},
	}
}

func createSuperAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-superadmin",
		Short: "Create a platform operator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			email, _ := cmd.Flags().GetString("email")

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, ctx, closeDB, err := platform(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			if existing, err := svc.FindUser(ctx, username); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "User %q already exists (role %s)\n", existing.Username, existing.Role)
				return nil
			}

			user, err := svc.CreateSuperAdmin(ctx, username, email)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created super admin %q (%s)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().String("username", "superadmin", "Account username")
	cmd.Flags().String("email", "", "Account email")
	return cmd
}

func issueTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue-token",
		Short: "Print a bearer token for an existing account",
		RunE: func(cmd *cobra.Command, args []string) error {
			username, _ := cmd.Flags().GetString("username")
			if username == "" {
				return fmt.Errorf("--username is required")
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, ctx, closeDB, err := platform(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			user, err := svc.FindUser(ctx, username)
			if err != nil {
				return err
			}
			token, err := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.TokenTTL).Issue(user)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().String("username", "", "Account username")
	return cmd
}

func listClinicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-clinics",
		Short: "List clinics with their patient, doctor and prescription counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, ctx, closeDB, err := platform(cmd, cfg)
			if err != nil {
				return err
			}
			defer closeDB()

			dash, err := svc.Dashboard(ctx)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tNAME\tACTIVE\tPATIENTS\tDOCTORS\tPRESCRIPTIONS")
			for _, c := range dash.Clinics {
				fmt.Fprintf(tw, "%s\t%s\t%t\t%d\t%d\t%d\n",
					c.Clinic.Slug, c.Clinic.Name, c.Clinic.IsActive, c.Patients, c.Doctors, c.Prescriptions)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d clinics, %d active\n", dash.TotalClinics, dash.ActiveClinics)
			return nil
		},
	}
}

func flushCacheCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "flush-cache",
		Short: "Drop every cached clinic from the shared Redis cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			// a memory cache lives inside each server process
			if !cfg.Cache.Enabled || cfg.Cache.Type != "redis" {
				fmt.Fprintln(cmd.OutOrStdout(), "No shared clinic cache configured")
				return nil
			}

			rc, err := cache.NewRedisCache(cache.RedisConfig{
				Addr:     cfg.Redis.Addr(),
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
				Prefix:   cfg.Redis.Prefix,
			})
			if err != nil {
				return err
			}
			defer rc.Close()

			if err := rc.Clear(cmd.Context(), cache.ClinicPattern); err != nil {
				return err
			}
			log.Info().Str("addr", cfg.Redis.Addr()).Str("pattern", cache.ClinicPattern).Msg("Clinic cache flushed")
			return nil
		},
	}
}
