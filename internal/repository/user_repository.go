package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"docqa/internal/model"
)

// UserStore is the credential lookup capability used by the auth service.
// The production implementation is MySQL-backed; tests inject fakes.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

// EnsureSeedUser creates the bootstrap account if it does not exist yet.
// The password hash is left untouched on an existing account.
func (r *UserRepository) EnsureSeedUser(ctx context.Context, email, passwordHash string) error {
	existing, err := r.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}
	user := &model.User{Email: email, PasswordHash: passwordHash}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("create seed user failed: %w", err)
	}
	return nil
}
