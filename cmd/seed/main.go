package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"docvault/internal/auth"
	"docvault/internal/config"
	"docvault/internal/domain"
	"docvault/internal/domain/models"
	"docvault/internal/repository/postgres"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed default tenant")
	adminEmail := flag.String("admin-email", "admin@example.com", "Email for the seeded super admin")
	adminPassword := flag.String("admin-password", "", "Password for the seeded super admin (required unless schema-only)")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	// SAFETY: prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Println("Ensuring database schema is up to date...")
	if err := postgres.EnsureSchema(ctx, pool, tables); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	if *adminPassword == "" {
		log.Fatalf("--admin-password is required when seeding the default tenant")
	}

	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}
	orgRepo := postgres.NewOrganizationRepository(repoConfig)
	deptRepo := postgres.NewDepartmentRepository(repoConfig)
	userRepo := postgres.NewUserRepository(repoConfig)

	// Default tenant: users created without an assignment land here.
	org, err := orgRepo.GetByCode(ctx, "DEFAULT")
	if errors.Is(err, domain.ErrNotFound) {
		org = &models.Organization{
			Name:      "Default Organization",
			Code:      "DEFAULT",
			Status:    "active",
			CreatedAt: time.Now().UTC(),
		}
		if err := orgRepo.Create(ctx, org); err != nil {
			log.Fatalf("Failed to create default organization: %v", err)
		}
		log.Printf("Created default organization (id %d)", org.ID)
	} else if err != nil {
		log.Fatalf("Failed to look up default organization: %v", err)
	}

	dept, err := deptRepo.GetByOrgAndCode(ctx, org.ID, "DEFAULT")
	if errors.Is(err, domain.ErrNotFound) {
		dept = &models.Department{
			Name:  "Default Department",
			Code:  "DEFAULT",
			OrgID: org.ID,
		}
		if err := deptRepo.Create(ctx, dept); err != nil {
			log.Fatalf("Failed to create default department: %v", err)
		}
		log.Printf("Created default department (id %d)", dept.ID)
	} else if err != nil {
		log.Fatalf("Failed to look up default department: %v", err)
	}

	if _, err := userRepo.GetByEmail(ctx, *adminEmail); err == nil {
		log.Printf("Admin user %s already exists, nothing to do", *adminEmail)
		return
	} else if !errors.Is(err, domain.ErrNotFound) {
		log.Fatalf("Failed to look up admin user: %v", err)
	}

	hash, err := auth.HashPassword(*adminPassword)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	admin := &models.User{
		Name:           "Administrator",
		Email:          *adminEmail,
		HashedPassword: hash,
		Role:           models.RoleSuperAdmin,
		OrganizationID: &org.ID,
		DepartmentID:   &dept.ID,
	}
	if err := userRepo.Create(ctx, admin); err != nil {
		log.Fatalf("Failed to create admin user: %v", err)
	}

	log.Printf("Created super admin %s (id %d)", admin.Email, admin.ID)
}

// dropAllTables removes every table this service owns, children first so the
// foreign keys do not get in the way.
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	ordered := []string{
		tables.ActivityLogs,
		tables.Documents,
		tables.Directories,
		tables.Users,
		tables.Departments,
		tables.Organizations,
	}
	for _, table := range ordered {
		if _, err := pool.Exec(ctx, fmt.Sprintf(`DROP TABLE IF EXISTS %s CASCADE`, table)); err != nil {
			return fmt.Errorf("drop table %s: %w", table, err)
		}
	}
	return nil
}
