package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer is the iss claim of every token this service signs
const Issuer = "hybrid-cipher"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims identifies the API user a token was issued to
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// JWTAuth signs and checks HS256 API tokens
type JWTAuth struct {
	secret     []byte
	expiration time.Duration
	parser     *jwt.Parser
}

// NewJWTAuth creates a new JWT auth handler
func NewJWTAuth(secret string, expiration time.Duration) *JWTAuth {
	return &JWTAuth{
		secret:     []byte(secret),
		expiration: expiration,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(5*time.Second),
		),
	}
}

// Expiration returns how long issued tokens stay valid
func (j *JWTAuth) Expiration() time.Duration {
	return j.expiration
}

// GenerateToken signs a token for username
func (j *JWTAuth) GenerateToken(username string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    Issuer,
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

// ValidateToken checks signature, issuer and expiry and returns the claims
func (j *JWTAuth) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := j.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return j.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Username == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
