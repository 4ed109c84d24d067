package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"push-channel-sync/internal/domain"
)

type listOnlyHost struct {
	result domain.ChannelListResult
}

func (h *listOnlyHost) CreateChannel(context.Context, domain.ChannelConfig) error { return nil }
func (h *listOnlyHost) CreateChannelGroup(context.Context, string, string) error  { return nil }
func (h *listOnlyHost) ListChannels(context.Context) domain.ChannelListResult     { return h.result }
func (h *listOnlyHost) DeleteChannel(context.Context, string) error               { return nil }
func (h *listOnlyHost) GetChannel(context.Context, string) (domain.ChannelConfig, bool, error) {
	return domain.ChannelConfig{}, false, nil
}

func serveList(result domain.ChannelListResult) *httptest.ResponseRecorder {
	handler := ListChannelsHandler(&listOnlyHost{result: result}, zerolog.Nop())
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/channels", nil))
	return rec
}

func TestListChannelsHandlerOK(t *testing.T) {
	rec := serveList(domain.ChannelListResult{
		Channels: []domain.ChannelConfig{{ID: "OS_a", Name: "Alpha"}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}
	var body struct {
		Channels []domain.ChannelConfig `json:"channels"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	if len(body.Channels) != 1 || body.Channels[0].ID != "OS_a" {
		t.Fatalf("ожидали один канал OS_a, получили %+v", body.Channels)
	}
}

func TestListChannelsHandlerEmptyList(t *testing.T) {
	rec := serveList(domain.ChannelListResult{})
	if rec.Code != http.StatusOK {
		t.Fatalf("ожидали 200, получили %d", rec.Code)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("не удалось разобрать ответ: %v", err)
	}
	if string(body["channels"]) != "[]" {
		t.Fatalf("ожидали пустой массив, получили %s", body["channels"])
	}
}

// Несогласованный список — не пустой: отдавать его как успешный ответ нельзя.
func TestListChannelsHandlerUnavailable(t *testing.T) {
	rec := serveList(domain.ChannelListResult{Unavailable: true})
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("ожидали 503, получили %d", rec.Code)
	}
}

func TestListChannelsHandlerError(t *testing.T) {
	rec := serveList(domain.ChannelListResult{Err: errors.New("boom")})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("ожидали 500, получили %d", rec.Code)
	}
}
