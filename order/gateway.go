package order

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"

	inHttp "github.com/ipetrenko/cardshop/internal/http"
	"github.com/ipetrenko/cardshop/internal/log"
	inOtel "github.com/ipetrenko/cardshop/internal/otel"
)

var tracer = otel.Tracer("order-gateway")

// Gateway delivers a composed submission to the relay endpoint. It performs
// no retries: a failed delivery is reported to the caller, which lets the
// customer retry manually.
type Gateway struct {
	url    string
	client *http.Client
}

func NewGateway(url string) *Gateway {
	return &Gateway{url: url, client: otelhttp.DefaultClient}
}

type relayResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Submit posts the submission as JSON and interprets the relay's answer. The
// submission itself is never mutated.
func (g *Gateway) Submit(c context.Context, submission Submission) error {
	c, span := tracer.Start(c, "Gateway Submit")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Gateway Submit").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "marshaling submission").Logger()
	logger.Info().Msg("marshaling submission")
	body, err := json.Marshal(submission)
	if err != nil {
		err = fmt.Errorf("failed marshaling submission with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("marshaled submission")

	logger = logger.With().Str(log.KeyProcess, "sending submission to relay").Logger()
	logger.Info().Msg("sending submission to relay")
	req, err := http.NewRequestWithContext(c, http.MethodPost, g.url, bytes.NewReader(body))
	if err != nil {
		err = fmt.Errorf("failed creating request to relay with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set(inHttp.KeyHeaderContentType, inHttp.ValueHeaderJson)
	req.Header.Set(inHttp.KeyHeaderRequestID, log.RequestIDFromContext(c))
	resp, err := g.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed sending submission to relay with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()
	logger.Info().Msg("sent submission to relay")

	logger = logger.With().Str(log.KeyProcess, "decoding relay response").Logger()
	relayResp := relayResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&relayResp); err != nil && resp.StatusCode == http.StatusOK {
		err = fmt.Errorf("failed decoding relay response with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf(
			"relay returned status code=%d with message=%s",
			resp.StatusCode,
			relayResp.Error,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if !relayResp.Success {
		err = fmt.Errorf("relay rejected the submission with message=%s", relayResp.Error)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("relay accepted the submission")

	return nil
}
