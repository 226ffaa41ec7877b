package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/ipetrenko/cardshop/catalog/internal/otel"
	"github.com/ipetrenko/cardshop/catalog/internal/repository"
	"github.com/ipetrenko/cardshop/catalog/request"
	"github.com/ipetrenko/cardshop/catalog/response"
	"github.com/ipetrenko/cardshop/internal/common"
	inErrors "github.com/ipetrenko/cardshop/internal/errors"
	"github.com/ipetrenko/cardshop/internal/log"
	inOtel "github.com/ipetrenko/cardshop/internal/otel"
)

type AdminService struct {
	queries   *repository.Queries
	secretKey string
}

func NewAdminService(queries *repository.Queries, secretKey string) AdminService {
	return AdminService{queries: queries, secretKey: secretKey}
}

// Login verifies the admin password and issues a bearer token. A missing
// admin and a wrong password produce the same error so usernames cannot be
// probed.
func (svc AdminService) Login(
	c context.Context,
	param request.Login,
) (response.Login, error) {
	c, span := otel.Tracer.Start(c, "AdminService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminService Login").
		Str(log.KeyUsername, param.Username).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding admin in database").Logger()
	logger.Trace().Msg("finding admin in database")
	admin, err := svc.queries.FindAdminByUsername(c, param.Username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = fmt.Errorf("failed finding admin with error=%w", inErrors.ErrWrongCredentials)
		} else {
			err = fmt.Errorf("failed finding admin in database with error=%w", err)
		}
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Login{}, err
	}
	logger.Info().Msg("found admin in database")

	logger = logger.With().Str(log.KeyProcess, "verifying password").Logger()
	logger.Trace().Msg("verifying password")
	if err = bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(param.Password)); err != nil {
		err = fmt.Errorf("failed verifying password with error=%w", inErrors.ErrWrongCredentials)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Login{}, err
	}
	logger.Info().Msg("verified password")

	logger = logger.With().Str(log.KeyProcess, "creating token").Logger()
	logger.Trace().Msg("creating token")
	token, err := common.CreateToken(admin.Username, svc.secretKey)
	if err != nil {
		err = fmt.Errorf("failed creating token with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Login{}, err
	}
	logger.Info().Msg("created token")

	return response.Login{Token: token}, nil
}
