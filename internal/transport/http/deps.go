package http

import (
	jwtinfra "github.com/go-api-sql/internal/infrastructure/jwt"
	"github.com/go-api-sql/internal/infrastructure/postgres"
	"github.com/go-api-sql/internal/infrastructure/totp"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    *postgres.UserRepo
	OrderRepo   *postgres.OrderRepo
	JWTProvider *jwtinfra.Provider
	TOTPManager *totp.Manager
}
