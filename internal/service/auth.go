package service

import (
	"bitwise74/media-api/internal/activity"
	"bitwise74/media-api/internal/model"
	"bitwise74/media-api/pkg/security"
	"bitwise74/media-api/pkg/validators"
	"context"
	"errors"
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"gorm.io/gorm"
)

const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Same message for unknown emails and wrong passwords
const invalidCredentials = "invalid login credentials"

type Authenticator struct {
	DB    *gorm.DB
	Argon *security.ArgonHash
	Log   *activity.Log
}

func NewAuthenticator(db *gorm.DB, argon *security.ArgonHash, log *activity.Log) *Authenticator {
	return &Authenticator{
		DB:    db,
		Argon: argon,
		Log:   log,
	}
}

// Register creates a user and returns their ID
func (a *Authenticator) Register(ctx context.Context, email, password string) (string, error) {
	email, err := validators.NormalizeEmail(email)
	if err != nil {
		return "", err
	}

	if err := validators.PasswordValidator(password); err != nil {
		return "", err
	}

	var count int64

	err = a.DB.WithContext(ctx).
		Model(model.User{}).
		Where("email = ?", email).
		Count(&count).
		Error
	if err != nil {
		return "", fmt.Errorf("failed to check if user is registered, %w", err)
	}

	if count > 0 {
		return "", ErrEmailTaken
	}

	hash, err := a.Argon.GenerateFromPassword(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password, %w", err)
	}

	userID, err := gonanoid.Generate(charset, 16)
	if err != nil {
		return "", fmt.Errorf("failed to generate user ID, %w", err)
	}

	err = a.DB.WithContext(ctx).Create(&model.User{
		ID:           userID,
		Email:        email,
		PasswordHash: hash,
		Stats: model.Stats{
			UserID: userID,
		},
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", ErrEmailTaken
		}

		return "", fmt.Errorf("failed to create user, %w", err)
	}

	return userID, nil
}

// SignInWithPassword checks the credentials and returns the user's ID. Any
// credential problem comes back as *AuthError. A successful sign in starts a
// fresh activity log for the user. Failed attempts are not logged since the
// activity log is per user and there is no signed in user to write to.
func (a *Authenticator) SignInWithPassword(ctx context.Context, email, password string) (string, error) {
	if email == "" || password == "" {
		return "", &AuthError{Message: "missing email or password"}
	}

	email, err := validators.NormalizeEmail(email)
	if err != nil {
		return "", &AuthError{Message: invalidCredentials}
	}

	var user model.User

	err = a.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", &AuthError{Message: invalidCredentials}
		}

		return "", fmt.Errorf("failed to look up user, %w", err)
	}

	ok, err := a.Argon.VerifyPasswd(password, user.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return "", &AuthError{Message: invalidCredentials}
	}

	if a.Log != nil {
		a.Log.Reset(user.ID)
		a.Log.Add(user.ID, "Signed in as "+user.ID)
	}

	return user.ID, nil
}

// User returns the user with the given ID along with their stats
func (a *Authenticator) User(ctx context.Context, userID string) (*model.User, error) {
	var user model.User

	err := a.DB.WithContext(ctx).
		Preload("Stats").
		Where("id = ?", userID).
		First(&user).
		Error
	if err != nil {
		return nil, err
	}

	return &user, nil
}
