package auth

import (
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"quickfix/internal/errors"
	"quickfix/internal/model"
)

// Identity is the resolved caller of a request: exactly one user and exactly
// one role. It is resolved once per request in the handler layer and passed
// explicitly into every service operation; services never read ambient
// session state.
type Identity struct {
	UserID uuid.UUID
	Role   model.Role
}

// IdentityFromContext resolves the Identity from the JWT token stored on the
// echo context by the echo-jwt middleware. Returns ErrUnauthenticated when no
// valid token is present and ErrRoleMissing when the token carries no
// recognized role claim.
func IdentityFromContext(c echo.Context) (Identity, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok || token == nil {
		return Identity{}, errors.ErrUnauthenticated
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.ErrUnauthenticated
	}

	rawID, _ := claims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return Identity{}, errors.ErrUnauthenticated
	}

	rawRole, _ := claims["role"].(string)
	role := model.Role(rawRole)
	if !role.Valid() {
		return Identity{}, errors.ErrRoleMissing
	}

	return Identity{UserID: userID, Role: role}, nil
}
