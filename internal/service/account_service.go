package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/apperror"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/auth"
	"github.com/backbencherstudio/danielpurcaru-project-mgt-backend/internal/models"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID, userType string) (string, error)
}

type AccountService struct {
	db     *gorm.DB
	tokens TokenIssuer
}

func NewAccountService(db *gorm.DB, tokens TokenIssuer) *AccountService {
	return &AccountService{db: db, tokens: tokens}
}

// Login accepts either the e-mail address or the username.
func (s *AccountService) Login(ctx context.Context, identifier, password string) (LoginResult, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" || password == "" {
		return LoginResult{}, apperror.New(apperror.CodeValidation, "identifier and password are required")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ? OR username = ?", identifier, identifier).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResult{}, apperror.New(apperror.CodeUnauthorized, "Invalid credentials")
		}
		return LoginResult{}, fmt.Errorf("load user: %w", err)
	}
	if !auth.CheckPassword(user.Password, password) {
		return LoginResult{}, apperror.New(apperror.CodeUnauthorized, "Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID, string(user.Type))
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, User: toUserSummary(user), Type: string(user.Type)}, nil
}

// DeleteByCredentials soft deletes the account after checking its password.
func (s *AccountService) DeleteByCredentials(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return apperror.New(apperror.CodeValidation, "email and password are required")
	}
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, "email = ?", email).Error; err != nil {
		return notFoundOr(err, "User", "load user")
	}
	if !auth.CheckPassword(user.Password, password) {
		return apperror.New(apperror.CodeUnauthorized, "Invalid password")
	}
	if err := db.Delete(&user).Error; err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	return nil
}

// EnsureAdmin creates the bootstrap admin when no account owns the e-mail yet.
// It reports whether a new account was created.
func (s *AccountService) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return false, nil
	}
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Unscoped().Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return false, err
	}
	username, err := uniqueUsername(db, usernameFromEmail(email))
	if err != nil {
		return false, err
	}

	admin := models.User{
		Name:     "Administrator",
		Username: username,
		Email:    email,
		Password: hashed,
		Type:     models.UserTypeAdmin,
	}
	if err := db.Omit(clause.Associations).Create(&admin).Error; err != nil {
		return false, mapDatabaseError(err)
	}
	return true, nil
}
