package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	commonOtel "github.com/ipetrenko/cardshop/catalog/internal/otel"
	"github.com/ipetrenko/cardshop/catalog/internal/service"
	"github.com/ipetrenko/cardshop/catalog/request"
	inErrors "github.com/ipetrenko/cardshop/internal/errors"
	inHttp "github.com/ipetrenko/cardshop/internal/http"
	"github.com/ipetrenko/cardshop/internal/log"
	"github.com/ipetrenko/cardshop/internal/middleware"
	"github.com/ipetrenko/cardshop/internal/otel"
)

const maxUploadSize = 10 << 20

type AdminController struct {
	products service.ProductService
	admins   service.AdminService
	uploads  service.UploadService
}

func AttachAdminController(
	mux *mux.Router,
	products service.ProductService,
	admins service.AdminService,
	uploads service.UploadService,
	secretKey string,
) {
	controller := AdminController{products: products, admins: admins, uploads: uploads}

	mux.HandleFunc("/auth/login", controller.Login).Methods(http.MethodPost)

	router := mux.PathPrefix("/admin").Subrouter()
	router.Use(middleware.Auth(secretKey))
	router.HandleFunc("/products", controller.InsertProduct).Methods(http.MethodPost)
	router.HandleFunc("/products/{productId}", controller.UpdateProduct).Methods(http.MethodPut)
	router.HandleFunc("/products/{productId}", controller.RemoveProduct).
		Methods(http.MethodDelete)
	router.HandleFunc("/reviews/{reviewId}", controller.RemoveReview).Methods(http.MethodDelete)
	router.HandleFunc("/uploads", controller.UploadImage).Methods(http.MethodPost)
}

func (t AdminController) Login(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "AdminController Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController Login").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Login{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "logging in").Logger()
	logger.Info().Msg("logging in")
	c = logger.WithContext(c)
	login, err := t.admins.Login(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed logging in with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrWrongCredentials) {
			statusCode = http.StatusUnauthorized
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("logged in")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "logged in",
		"data": map[string]interface{}{
			"login": login,
		},
	})
}

func (t AdminController) InsertProduct(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "AdminController InsertProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController InsertProduct").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Product{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "inserting product").Logger()
	logger.Info().Msg("inserting product")
	c = logger.WithContext(c)
	product, err := t.products.InsertProduct(c, reqBody)
	if err != nil {
		err = fmt.Errorf("failed inserting product with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("inserted product")

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "product inserted",
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

func (t AdminController) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "AdminController UpdateProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController UpdateProduct").
		Str(log.KeyProcess, "validating productId").
		Logger()

	pathValues := mux.Vars(r)
	productId, err := uuid.Parse(pathValues["productId"])
	if err != nil {
		err = fmt.Errorf("failed validating productId=%s with error=%w", pathValues["productId"], err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyProductID, productId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "decoding requestbody").Logger()
	logger.Info().Msg("decoding requestbody")
	reqBody := request.Product{}
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		err = fmt.Errorf("failed decoding request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("decoded request body")

	logger = logger.With().Str(log.KeyProcess, "validating requestbody").Logger()
	logger.Info().Msg("validating request body")
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.StructCtx(c, reqBody); err != nil {
		err = fmt.Errorf("failed validating request body with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msg("validated request body")

	logger = logger.With().Str(log.KeyProcess, "updating product").Logger()
	logger.Info().Msgf("updating productId=%s", productId.String())
	c = logger.WithContext(c)
	product, err := t.products.UpdateProduct(c, productId, reqBody)
	if err != nil {
		err = fmt.Errorf("failed updating productId=%s with error=%w", productId.String(), err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("updated productId=%s", productId.String())

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("productId=%s updated", productId.String()),
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

func (t AdminController) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "AdminController RemoveProduct")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController RemoveProduct").
		Str(log.KeyProcess, "validating productId").
		Logger()

	pathValues := mux.Vars(r)
	productId, err := uuid.Parse(pathValues["productId"])
	if err != nil {
		err = fmt.Errorf("failed validating productId=%s with error=%w", pathValues["productId"], err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	logger = logger.With().Str(log.KeyProductID, productId.String()).Logger()

	logger = logger.With().Str(log.KeyProcess, "removing product").Logger()
	logger.Info().Msgf("removing productId=%s", productId.String())
	c = logger.WithContext(c)
	product, err := t.products.RemoveProduct(c, productId)
	if err != nil {
		err = fmt.Errorf("failed removing productId=%s with error=%w", productId.String(), err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		statusCode := http.StatusInternalServerError
		if errors.Is(err, inErrors.ErrProductNotFound) {
			statusCode = http.StatusNotFound
		}
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": statusCode,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("removed productId=%s", productId.String())

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("productId=%s removed", productId.String()),
		"data": map[string]interface{}{
			"product": product,
		},
	})
}

func (t AdminController) RemoveReview(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "AdminController RemoveReview")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController RemoveReview").
		Str(log.KeyProcess, "validating reviewId").
		Logger()

	pathValues := mux.Vars(r)
	reviewId, err := uuid.Parse(pathValues["reviewId"])
	if err != nil {
		err = fmt.Errorf("failed validating reviewId=%s with error=%w", pathValues["reviewId"], err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}

	logger = logger.With().Str(log.KeyProcess, "removing review").Logger()
	logger.Info().Msgf("removing reviewId=%s", reviewId.String())
	c = logger.WithContext(c)
	review, err := t.products.RemoveReview(c, reviewId)
	if err != nil {
		err = fmt.Errorf("failed removing reviewId=%s with error=%w", reviewId.String(), err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("removed reviewId=%s", reviewId.String())

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    fmt.Sprintf("reviewId=%s removed", reviewId.String()),
		"data": map[string]interface{}{
			"review": review,
		},
	})
}

func (t AdminController) UploadImage(w http.ResponseWriter, r *http.Request) {
	c, span := commonOtel.Tracer.Start(r.Context(), "AdminController UploadImage")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "AdminController UploadImage").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "parsing multipart form").Logger()
	logger.Info().Msg("parsing multipart form")
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		err = fmt.Errorf("failed parsing multipart form with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		err = fmt.Errorf("failed reading image from form with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusBadRequest,
			"message":    err.Error(),
		})
		return
	}
	defer file.Close()
	logger.Info().Msg("parsed multipart form")

	logger = logger.With().Str(log.KeyProcess, "saving image").Logger()
	logger.Info().Msgf("saving image=%s", header.Filename)
	c = logger.WithContext(c)
	upload, err := t.uploads.SaveImage(c, header.Filename, file)
	if err != nil {
		err = fmt.Errorf("failed saving image with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
			"status":     "failed",
			"statusCode": http.StatusInternalServerError,
			"message":    err.Error(),
		})
		return
	}
	logger.Info().Msgf("saved image=%s", header.Filename)

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "image uploaded",
		"data": map[string]interface{}{
			"upload": upload,
		},
	})
}
