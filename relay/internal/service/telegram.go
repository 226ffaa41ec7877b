package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ipetrenko/cardshop/internal/config"
	inErrors "github.com/ipetrenko/cardshop/internal/errors"
	inHttp "github.com/ipetrenko/cardshop/internal/http"
	"github.com/ipetrenko/cardshop/internal/log"
	inOtel "github.com/ipetrenko/cardshop/internal/otel"
	"github.com/ipetrenko/cardshop/order"
	"github.com/ipetrenko/cardshop/relay/internal/otel"
)

const defaultApiURL = "https://api.telegram.org"

// TelegramNotifier forwards a rendered order message to the Telegram Bot API.
// One outbound call per order, no automatic retry: a rejected message is
// surfaced to the caller unchanged.
type TelegramNotifier struct {
	client   *http.Client
	apiURL   string
	botToken string
	chatID   string
	currency string
}

func NewTelegramNotifier(cfg config.Telegram, currency string) *TelegramNotifier {
	apiURL := cfg.ApiURL
	if apiURL == "" {
		apiURL = defaultApiURL
	}
	return &TelegramNotifier{
		client:   otelhttp.DefaultClient,
		apiURL:   apiURL,
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		currency: currency,
	}
}

type sendMessageRequest struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

type sendMessageResponse struct {
	Ok          bool   `json:"ok"`
	Description string `json:"description"`
}

func (s *TelegramNotifier) SendOrder(c context.Context, submission order.Submission) error {
	c, span := otel.Tracer.Start(c, "TelegramNotifier SendOrder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "TelegramNotifier SendOrder").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "checking credentials").Logger()
	if s.botToken == "" || s.chatID == "" {
		err := inErrors.ErrMissingCredentials
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}

	logger = logger.With().Str(log.KeyProcess, "rendering message").Logger()
	logger.Info().Msg("rendering message")
	text := order.RenderMessage(submission, s.currency)
	logger.Info().Msg("rendered message")

	logger = logger.With().Str(log.KeyProcess, "sending message to telegram").Logger()
	logger.Info().Msg("sending message to telegram")
	body, err := json.Marshal(sendMessageRequest{
		ChatID:    s.chatID,
		Text:      text,
		ParseMode: "MarkdownV2",
	})
	if err != nil {
		err = fmt.Errorf("failed marshaling sendMessage request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	url := fmt.Sprintf("%s/bot%s/sendMessage", s.apiURL, s.botToken)
	req, err := http.NewRequestWithContext(c, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		err = fmt.Errorf("failed creating sendMessage request with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	req.Header.Set(inHttp.KeyHeaderContentType, inHttp.ValueHeaderJson)
	resp, err := s.client.Do(req)
	if err != nil {
		err = fmt.Errorf("failed sending message to telegram with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	defer resp.Body.Close()
	logger.Info().Msg("sent message to telegram")

	logger = logger.With().Str(log.KeyProcess, "decoding telegram response").Logger()
	apiResp := sendMessageResponse{}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil && resp.StatusCode == http.StatusOK {
		err = fmt.Errorf("failed decoding telegram response with error=%w", err)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	if resp.StatusCode != http.StatusOK || !apiResp.Ok {
		err = fmt.Errorf(
			"%w: status code=%d description=%s",
			inErrors.ErrChannelRejected,
			resp.StatusCode,
			apiResp.Description,
		)
		inOtel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("telegram accepted the message")

	return nil
}
