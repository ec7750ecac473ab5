package http

import (
	"github.com/secondchance-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/secondchance-api/internal/infrastructure/jwt"
	s3infra "github.com/secondchance-api/internal/infrastructure/s3"
	"github.com/secondchance-api/internal/infrastructure/smtp"
)

// Deps holds all infrastructure dependencies for the router. ItemRepo backs
// the CRUD endpoints; GiftRepo backs search and may point at a different
// table (the configurable gifts collection).
type Deps struct {
	UserRepo    *dynamo.UserRepo
	ItemRepo    *dynamo.ItemRepo
	GiftRepo    *dynamo.ItemRepo
	ImageStore  *s3infra.Store
	Mailer      smtp.Mailer
	JWTProvider *jwtinfra.Provider
}
