package internal

import (
	"studysprint/study-api/internal/service"
	"studysprint/study-api/pkg/security"

	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	Argon    *security.ArgonHash
	Tokens   *security.TokenCodec
	Sessions *service.SessionManager
}
