package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/trackwerk-io/trackwerk-ce/internal/config"
	"github.com/trackwerk-io/trackwerk-ce/internal/database"
	"github.com/trackwerk-io/trackwerk-ce/internal/models"
	"github.com/trackwerk-io/trackwerk-ce/internal/repository"
)

var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:     "trackwerk-db",
	Short:   "Trackwerk database management tool",
	Long:    "Utilities for managing a Trackwerk installation: schema migrations, user accounts and demo data.",
	Version: fmt.Sprintf("%s (commit: %s)", version, commit),
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE:  runMigrate,
}

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Create a user account with a bcrypt-hashed password",
	RunE:  runCreateUser,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert a small demo dataset (customer, project, activities)",
	RunE:  runSeed,
}

var (
	loginFlag       string
	passwordFlag    string
	displayNameFlag string
)

func init() {
	createUserCmd.Flags().StringVar(&loginFlag, "login", "", "Login name (required)")
	createUserCmd.Flags().StringVar(&passwordFlag, "password", "", "Password (required)")
	createUserCmd.Flags().StringVar(&displayNameFlag, "display-name", "", "Display name")
	createUserCmd.MarkFlagRequired("login")
	createUserCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(createUserCmd)
	rootCmd.AddCommand(seedCmd)
}

func openDB() (*sql.DB, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "."
	}
	if err := config.Load(configPath); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return database.Connect(&config.Get().Database)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	applied, err := database.Migrate(db)
	if err != nil {
		return err
	}
	fmt.Printf("Applied %d migration(s)\n", applied)
	return nil
}

func runCreateUser(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	user := &models.User{
		Login:       loginFlag,
		DisplayName: displayNameFlag,
		ValidID:     1,
	}
	if user.DisplayName == "" {
		user.DisplayName = loginFlag
	}
	if err := user.SetPassword(passwordFlag); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	users := repository.NewDBUserRepository(db)
	if err := users.Create(context.Background(), user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	fmt.Printf("Created user %q (id %d)\n", user.Login, user.ID)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	customers := repository.NewDBCustomerRepository(db)
	projects := repository.NewDBProjectRepository(db)
	activities := repository.NewDBActivityRepository(db)
	assignments := repository.NewDBProjectActivityRepository(db)

	customer := &models.Customer{Name: "Demo Customer"}
	if err := customers.Create(ctx, customer); err != nil {
		return fmt.Errorf("failed to seed customer: %w", err)
	}

	project := &models.Project{
		Name:       "Demo Project",
		CustomerID: customer.ID,
		BudgetType: models.BudgetTypeNone,
	}
	if err := projects.Create(ctx, project); err != nil {
		return fmt.Errorf("failed to seed project: %w", err)
	}

	for _, name := range []string{"Development", "Code Review", "Meeting"} {
		activity := &models.Activity{Name: name, Factor: 1}
		if err := activities.Create(ctx, activity); err != nil {
			return fmt.Errorf("failed to seed activity: %w", err)
		}
		assignment := &models.ProjectActivity{ProjectID: project.ID, ActivityID: activity.ID}
		if err := assignments.Create(ctx, assignment); err != nil {
			return fmt.Errorf("failed to seed project activity: %w", err)
		}
	}

	fmt.Println("Seeded demo customer, project and activities")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
