package internal

import (
	"bitwise74/media-api/internal/activity"
	"bitwise74/media-api/internal/policy"
	"bitwise74/media-api/internal/repository"
	"bitwise74/media-api/internal/service"
	"time"

	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	Auth     *service.Authenticator
	Uploader *service.Uploader
	Media    *repository.MediaRepo
	Activity *activity.Log
	Variant  *policy.Variant

	JWTSecret     []byte
	TokenTTL      time.Duration
	MaxUploadSize int64
	SecureCookies bool
}
