package auth

import (
	"context"
	"errors"
	"strings"

	domain "github.com/example/task-api/domain/user"
	"gorm.io/gorm"
)

// insertUserSQL assigns the admin role only when the table is empty. The
// check and the insert are one statement, so concurrent registrations cannot
// both see an empty table.
const insertUserSQL = `INSERT INTO users (id, name, email, password_hash, role, created_at, updated_at)
SELECT ?, ?, ?, ?, CASE WHEN EXISTS (SELECT 1 FROM users) THEN ? ELSE ? END, ?, ?`

// UserRepository handles user persistence using GORM.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Create inserts user and sets user.Role to the role the database assigned.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Exec(insertUserSQL,
			user.ID, user.Name, user.Email, user.PasswordHash,
			string(domain.RoleUser), string(domain.RoleAdmin),
			user.CreatedAt, user.UpdatedAt,
		).Error
		if err != nil {
			if isUniqueViolation(err) {
				return ErrUserExists
			}
			return err
		}

		var stored domain.User
		if err := tx.Select("role").First(&stored, "id = ?", user.ID).Error; err != nil {
			return err
		}
		user.Role = stored.Role
		return nil
	})
}

// FindByID finds a user by ID.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	result := r.db.WithContext(ctx).First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// FindByEmail finds a user by email.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	result := r.db.WithContext(ctx).First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// EmailExists checks if a user with the given email exists.
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// CountByRole returns how many users hold role.
func (r *UserRepository) CountByRole(ctx context.Context, role domain.Role) (int64, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", string(role)).Count(&count)
	return count, result.Error
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}
