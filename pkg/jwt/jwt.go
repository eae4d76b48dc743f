// Package jwt valida los tokens HS256 con los que el proveedor de identidad
// externo autentica a los usuarios del almacén, y los emite en tests y
// entornos locales sin proveedor.
package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errEmptySecret = errors.New("jwt: secret vacío")

// Claims es el payload del token: identidad del usuario, su empresa y su rol
// (admin, bodeguero o consulta) para las decisiones RBAC del middleware, sin
// consultar la base de datos por request.
type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"user_id"`
	CompanyID string `json:"company_id"`
	Role      string `json:"role"`
}

// Generate firma un token HS256 con los claims de la aplicación.
func Generate(secret, userID, companyID, role, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", errEmptySecret
	}
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		UserID:    userID,
		CompanyID: companyID,
		Role:      role,
	})
	return token.SignedString([]byte(secret))
}

// Parse valida firma, expiración y método de firma (solo HS256) y devuelve los
// claims propios. Un token expirado o con firma ajena es un error, nunca
// claims vacíos válidos.
func Parse(secret, tokenString string) (userID, companyID, role string, err error) {
	if secret == "" {
		return "", "", "", errEmptySecret
	}
	var claims Claims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return "", "", "", fmt.Errorf("jwt: %w", err)
	}
	if !token.Valid {
		return "", "", "", errors.New("jwt: token inválido")
	}
	return claims.UserID, claims.CompanyID, claims.Role, nil
}
