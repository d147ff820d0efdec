// Command admin runs one-off administrative tasks: applying migrations and
// seeding the two staff accounts.
//
// Usage:
//
//	admin migrate            apply pending migrations
//	admin rollback           roll back the last migration
//	admin seed               create the admin and teacher accounts
//	admin status             show migration status
//	admin flush              drop all cached students and sheets from Redis
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"github.com/enlystreetwear-png/AR-karate/config"
	"github.com/enlystreetwear-png/AR-karate/internal/domain/identity"
	"github.com/enlystreetwear-png/AR-karate/internal/infrastructure/persistence/postgres"
	"github.com/enlystreetwear-png/AR-karate/internal/infrastructure/persistence/redis"
	"github.com/enlystreetwear-png/AR-karate/pkg/logger"
)

func main() {
	flag.Parse()

	if err := run(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	}).With(logger.Component("admin"))

	// flush only talks to Redis; skip the Postgres connection entirely.
	if cmd == "flush" {
		return flushCaches(ctx, cfg, log)
	}

	pg, err := postgres.NewConnection(ctx, postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		Database:        cfg.Database.Name,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        2,
		MinConns:        1,
		ConnectTimeout:  cfg.Database.ConnectTimeout,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime,
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime,
	})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pg.Close()

	migrator := postgres.NewMigrator(pg)

	switch cmd {
	case "migrate":
		if err := migrator.Migrate(ctx); err != nil {
			return err
		}
		log.Info(ctx, "migrations applied")
		return nil

	case "rollback":
		if err := migrator.Rollback(ctx); err != nil {
			return err
		}
		log.Info(ctx, "last migration rolled back")
		return nil

	case "status":
		steps, err := migrator.Status(ctx)
		if err != nil {
			return err
		}
		for _, s := range steps {
			state := "pending"
			if s.IsApplied {
				state = fmt.Sprintf("applied %s", s.AppliedAt.Format("2006-01-02 15:04"))
			}
			fmt.Printf("%3d  %-30s %s\n", s.Version, s.Name, state)
		}
		return nil

	case "seed":
		if err := migrator.Migrate(ctx); err != nil {
			return err
		}
		return seedAccounts(ctx, cfg, pg, log)

	default:
		return fmt.Errorf("unknown command %q (expected migrate, rollback, seed, status, or flush)", cmd)
	}
}

// flushCaches wipes every student and sheet key from Redis. Useful after a
// rollback or a manual edit of the database, when cached entries may no
// longer match the store.
func flushCaches(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	if cfg.Redis.Disabled {
		return errors.New("redis is disabled in the configuration")
	}

	cache, err := redis.NewCache(redis.Config{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer cache.Close()

	if err := redis.NewStudentCache(cache).InvalidateAll(ctx); err != nil {
		return fmt.Errorf("flush students: %w", err)
	}
	if err := redis.NewSheetCache(cache).InvalidateAll(ctx); err != nil {
		return fmt.Errorf("flush sheets: %w", err)
	}

	log.Info(ctx, "caches flushed")
	return nil
}

// seedAccounts creates the admin and teacher accounts if they don't already
// exist. Re-running is safe: existing emails are skipped, not overwritten.
func seedAccounts(ctx context.Context, cfg *config.Config, pg *postgres.Connection, log *logger.Logger) error {
	repo := postgres.NewAccountRepository(pg)

	seeds := []struct {
		email    string
		password string
		role     identity.Role
	}{
		{cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, identity.RoleAdmin},
		{cfg.Auth.TeacherEmail, cfg.Auth.TeacherPassword, identity.RoleTeacher},
	}

	for _, seed := range seeds {
		if seed.password == "" {
			return fmt.Errorf("no password configured for %s", seed.email)
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), cfg.Auth.BcryptCost)
		if err != nil {
			return fmt.Errorf("hash password for %s: %w", seed.email, err)
		}

		account, err := identity.NewAccount(seed.email, string(hash), seed.role)
		if err != nil {
			return fmt.Errorf("build account %s: %w", seed.email, err)
		}

		if err := repo.Create(ctx, account); err != nil {
			if errors.Is(err, identity.ErrEmailTaken) {
				log.Info(ctx, "account already exists, skipping", logger.String("email", seed.email))
				continue
			}
			return fmt.Errorf("create account %s: %w", seed.email, err)
		}

		log.Info(ctx, "account created",
			logger.String("email", seed.email),
			logger.String("role", seed.role.String()),
		)
	}

	return nil
}
