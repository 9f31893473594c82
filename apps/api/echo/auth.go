package echoapi

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/vertexlab/academia/core"
)

const (
	tokenContextKey = "sessionToken"
	nonceLen        = 24
)

// Claims represents the authorization claims transmitted via a JWT.
// SealedPortal is the upstream portal session token, secretbox-sealed under
// the app secret: the JWT travels to the browser, the portal token must not
// be readable there.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Account      string `json:"account,omitempty"`
	SealedPortal string `json:"portal,omitempty"`
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

// NewClaims builds the claims for a fresh portal session.
func NewClaims(conf *core.Config, account, portalToken string, origIat ...int64) (*Claims, error) {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	sealed, err := sealToken(conf.SecretKey, portalToken)
	if err != nil {
		return nil, errors.Wrap(err, "sealing portal token")
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Id:        uuid.New().String(),
			Issuer:    conf.AppName,
			Subject:   account,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Account:      account,
		SealedPortal: sealed,
	}, nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	cfg := newJWTConfig(conf)
	token := jwt.NewWithClaims(jwt.GetSigningMethod(cfg.SigningMethod), claims)

	ss, err := token.SignedString(cfg.SigningKey.([]byte))
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// getContextPortalToken unseals the portal session carried by the request's
// claims; core services receive the plain token.
func getContextPortalToken(ctx echo.Context, conf *core.Config) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", err
	}
	token, err := openToken(conf.SecretKey, claims.SealedPortal)
	if err != nil {
		return "", errUnauthorized
	}
	return token, nil
}

// sealKey derives the fixed-size secretbox key from the app secret.
func sealKey(secret string) *[32]byte {
	key := sha256.Sum256([]byte(secret))
	return &key
}

// SealToken seals a portal token under the app secret. Output is
// base64(nonce || box).
func sealToken(secret, token string) (string, error) {
	var nonce [nonceLen]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", errors.Wrap(err, "reading nonce")
	}
	box := secretbox.Seal(nonce[:], []byte(token), &nonce, sealKey(secret))
	return base64.RawURLEncoding.EncodeToString(box), nil
}

// openToken reverses SealToken; tampered or truncated boxes fail.
func openToken(secret, sealed string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil {
		return "", errors.Wrap(err, "decoding sealed token")
	}
	if len(raw) <= nonceLen {
		return "", errors.New("sealed token too short")
	}

	var nonce [nonceLen]byte
	copy(nonce[:], raw[:nonceLen])
	token, ok := secretbox.Open(nil, raw[nonceLen:], &nonce, sealKey(secret))
	if !ok {
		return "", errors.New("opening sealed token")
	}
	return string(token), nil
}

// refreshClaims re-issues claims for the same portal session, keeping the
// original issue time so the refresh window is bounded.
func refreshClaims(ctx echo.Context, conf *core.Config) (*Claims, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "getting context claims")
	}

	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return nil, errRefreshExpired
	}

	token, err := openToken(conf.SecretKey, claims.SealedPortal)
	if err != nil {
		return nil, errUnauthorized
	}
	return NewClaims(conf, claims.Account, token, claims.OrigIssuedAt)
}
