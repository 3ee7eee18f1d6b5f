package services

import (
	"errors"
	"strings"

	"hotel-pms-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	DB *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// CreateUserInput carries the plaintext password; only the bcrypt hash
// is ever stored.
type CreateUserInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Role     models.UserRole
	Phone    *string
}

func (s *UserService) Create(in CreateUserInput) (models.User, error) {
	var user models.User

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if len(in.Username) < 3 {
		return user, validationErr("username must be at least 3 characters")
	}
	if in.Email == "" || !strings.Contains(in.Email, "@") {
		return user, validationErr("a valid email is required")
	}
	if len(in.Password) < 6 {
		return user, validationErr("password must be at least 6 characters")
	}
	if !in.Role.Valid() {
		return user, validationErr("invalid role %q", in.Role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return user, err
	}

	user = models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(in.FullName),
		Role:         in.Role,
		Phone:        in.Phone,
		IsActive:     true,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return user, conflictErr("username or email already taken")
		}
		return user, err
	}
	return user, nil
}

func (s *UserService) GetByID(id uint) (models.User, error) {
	var user models.User
	if err := s.DB.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, notFoundErr("user", id)
		}
		return user, err
	}
	return user, nil
}

func (s *UserService) List(role models.UserRole, isActive *bool) ([]models.User, error) {
	q := s.DB.Model(&models.User{})
	if role != "" {
		q = q.Where("role = ?", role)
	}
	if isActive != nil {
		q = q.Where("is_active = ?", *isActive)
	}

	var users []models.User
	if err := q.Order("username").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *UserService) Update(id uint, fields map[string]interface{}) (models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return user, err
	}

	delete(fields, "id")
	delete(fields, "created_at")
	delete(fields, "updated_at")
	delete(fields, "deleted_at")
	delete(fields, "password_hash")

	if v, ok := fields["role"]; ok {
		r, _ := v.(string)
		if !models.UserRole(r).Valid() {
			return user, validationErr("invalid role %q", r)
		}
	}
	if v, ok := fields["password"]; ok {
		pw, _ := v.(string)
		if len(pw) < 6 {
			return user, validationErr("password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return user, err
		}
		delete(fields, "password")
		fields["password_hash"] = string(hash)
	}

	if len(fields) == 0 {
		return user, nil
	}

	if err := s.DB.Model(&user).Updates(fields).Error; err != nil {
		if isDuplicateKeyErr(err) {
			return user, conflictErr("username or email already taken")
		}
		return user, err
	}
	return s.GetByID(id)
}

// Delete deactivates the account and soft-deletes the row. Attribution
// fields on other entities keep pointing at the id.
func (s *UserService) Delete(id uint) error {
	user, err := s.GetByID(id)
	if err != nil {
		return err
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, id).Error
	})
}

// Authenticate verifies credentials for login. Inactive accounts are
// rejected the same way as bad passwords so the response does not leak
// account state.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	var user models.User
	err := s.DB.Where("username = ?", strings.TrimSpace(username)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user, validationErr("invalid credentials")
		}
		return user, err
	}
	if !user.IsActive {
		return user, validationErr("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return user, validationErr("invalid credentials")
	}
	return user, nil
}

// activeStaffExists checks attribution references (processed_by,
// assigned_to, reported_by, created_by) against live accounts.
func activeStaffExists(tx *gorm.DB, id uint) error {
	var count int64
	if err := tx.Model(&models.User{}).
		Where("id = ? AND is_active = ?", id, true).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return notFoundErr("user", id)
	}
	return nil
}
