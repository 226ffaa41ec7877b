package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ipetrenko/cardshop/cart"
	inErrors "github.com/ipetrenko/cardshop/internal/errors"
	inHttp "github.com/ipetrenko/cardshop/internal/http"
	"github.com/ipetrenko/cardshop/internal/log"
	"github.com/ipetrenko/cardshop/internal/otel"
	commonOtel "github.com/ipetrenko/cardshop/shop/internal/otel"
)

// CatalogClient looks product snapshots up from the catalog service. The cart
// stores the snapshot it gets here, so later catalog price edits never touch
// lines already in a cart.
type CatalogClient struct {
	baseURL string
	client  *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{baseURL: baseURL, client: otelhttp.DefaultClient}
}

type findProductResponse struct {
	Data struct {
		Product cart.Product `json:"product"`
	} `json:"data"`
}

func (s *CatalogClient) FindProductById(c context.Context, id string) (cart.Product, error) {
	c, span := commonOtel.Tracer.Start(c, "CatalogClient FindProductById")
	defer span.End()

	logger := zerolog.Ctx(c).With().
		Str(log.KeyTag, "CatalogClient FindProductById").
		Str(log.KeyProductID, id).
		Logger()

	url := fmt.Sprintf("%s/products/%s", s.baseURL, id)
	logger = logger.With().Str(log.KeyProcess, "finding product").Logger()
	c = logger.WithContext(c)
	logger.Info().Msg("finding product")
	req, err := http.NewRequestWithContext(c, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("failed creating catalog request with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return cart.Product{}, err
	}
	req.Header.Add(inHttp.KeyHeaderRequestID, log.RequestIDFromContext(c))
	res, err := s.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed calling catalog service with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return cart.Product{}, err
	}
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		err = fmt.Errorf("failed finding product by id=%s with error=%w", id, inErrors.ErrProductNotFound)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return cart.Product{}, err
	}
	if res.StatusCode != http.StatusOK {
		err = fmt.Errorf("failed finding product by id=%s catalog returned status code=%d", id, res.StatusCode)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return cart.Product{}, err
	}
	body := findProductResponse{}
	if err = json.NewDecoder(res.Body).Decode(&body); err != nil {
		err = fmt.Errorf("failed decoding catalog response with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return cart.Product{}, err
	}
	logger.Info().Str(log.KeyProcess, "found product").Msg("found product")
	return body.Data.Product, nil
}
