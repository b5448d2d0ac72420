package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jask/innkeeper/internal/database/repository"
)

// UserID derives the stable id for a username.
func UserID(username string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte("user:"+strings.ToLower(username))).String()
}

// SeedDefaults ensures the admin account exists for new databases.
// It is idempotent and never overwrites an existing password.
func SeedDefaults(ctx context.Context, db *sql.DB, adminUser, adminPassword string) error {
	adminUser = strings.TrimSpace(adminUser)
	if adminUser == "" {
		return errors.New("seed defaults: admin user is empty")
	}
	users := repository.NewUserRepo(db)
	_, err := users.GetByUsername(ctx, adminUser)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("seed defaults: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	return users.Upsert(ctx, repository.User{
		ID:           UserID(adminUser),
		Username:     adminUser,
		PasswordHash: string(hash),
	})
}
