package http

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"push-channel-sync/internal/domain"
)

// ListChannelsHandler отдаёт текущее содержимое реестра каналов. Известный
// дефект хоста с несогласованным списком отдаётся как 503, а не как пустой
// успешный ответ.
func ListChannelsHandler(host domain.NotificationHost, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := host.ListChannels(r.Context())
		switch {
		case result.Unavailable:
			logger.Error().Msg("реестр вернул несогласованный список каналов")
			writeError(w, http.StatusServiceUnavailable, "channel list temporarily unavailable")
			return
		case result.Err != nil:
			logger.Error().Err(result.Err).Msg("не удалось получить список каналов")
			writeError(w, http.StatusInternalServerError, "failed to list channels")
			return
		}
		if result.Channels == nil {
			result.Channels = []domain.ChannelConfig{}
		}
		writeJSON(w, map[string]any{"channels": result.Channels})
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
