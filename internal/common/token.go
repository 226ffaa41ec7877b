package common

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/ipetrenko/cardshop/internal/constants"
	inErrors "github.com/ipetrenko/cardshop/internal/errors"
	"github.com/ipetrenko/cardshop/internal/log"
)

func CreateToken(username string, secretKey string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{constants.AudienceAdmin},
		ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    constants.AppCatalogService,
		Subject:   username,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secretKey))
	if err != nil {
		return "", fmt.Errorf("failed signing token with error=%w", err)
	}
	return signed, nil
}

func VerifyToken(c context.Context, token string, secretKey string) error {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "VerifyToken").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing claims").Logger()
	jwtToken, err := jwt.ParseWithClaims(
		token,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return []byte(secretKey), nil
		},
		jwt.WithAudience(constants.AudienceAdmin),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithIssuer(constants.AppCatalogService),
	)
	if err != nil {
		err = fmt.Errorf("failed parsing with claims with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	if !jwtToken.Valid {
		logger.Error().Err(inErrors.ErrTokenInvalid).Msg(inErrors.ErrTokenInvalid.Error())
		return inErrors.ErrTokenInvalid
	}

	return nil
}
