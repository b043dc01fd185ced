package repository

import (
	"context"

	"github.com/spec-kit/chronoplan/internal/domain"
	"github.com/spec-kit/chronoplan/internal/persistence"
)

// UserRepository defines read access to seeded profiles.
type UserRepository interface {
	List(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}

type userRepository struct {
	db *persistence.MemoryDB
}

// NewUserRepository returns a MemoryDB-backed implementation.
func NewUserRepository(db *persistence.MemoryDB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var users []domain.User
	r.db.View(func(t persistence.Tables) {
		users = append(make([]domain.User, 0, len(t.Users)), t.Users...)
	})
	return users, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var found *domain.User
	r.db.View(func(t persistence.Tables) {
		for i := range t.Users {
			if t.Users[i].ID == id {
				user := t.Users[i]
				found = &user
				return
			}
		}
	})
	if found == nil {
		return nil, domain.ErrUserNotFound
	}
	return found, nil
}
