package worker

// Los trabajos que agotan sus reintentos se estacionan en una lista Redis
// aparte ("comanda:dlq:{cola origen}") para inspección manual. Nada los
// vuelve a encolar automáticamente.

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const DLQPrefix = "comanda:dlq:"

// DLQEntry conserva el trabajo fallido junto con el contexto del fallo.
type DLQEntry struct {
	ColaOrigen string          `json:"cola_origen"`
	TipoJob    string          `json:"tipo_job"`
	Payload    json.RawMessage `json:"payload"`
	Motivo     string          `json:"motivo"`
	FallidoEn  time.Time       `json:"fallido_en"`
	Intentos   int             `json:"intentos"`
}

// SendToDLQ estaciona un trabajo fallido. Es best-effort: si Redis no
// responde solo se registra el error, el trabajo ya quedó marcado fallido
// en la base.
func SendToDLQ(ctx context.Context, rdb *redis.Client, queue, jobType string, payload json.RawMessage, reason string, attempts int) {
	entry := DLQEntry{
		ColaOrigen: queue,
		TipoJob:    jobType,
		Payload:    payload,
		Motivo:     reason,
		FallidoEn:  time.Now().UTC(),
		Intentos:   attempts,
	}

	data, err := json.Marshal(entry)
	if err != nil {
		log.Error().Err(err).Str("cola", queue).Msg("dlq: no se pudo serializar la entrada")
		return
	}

	if err := rdb.LPush(ctx, DLQPrefix+queue, data).Err(); err != nil {
		log.Error().Err(err).Str("cola", queue).Msg("dlq: no se pudo estacionar el trabajo")
		return
	}

	log.Warn().
		Str("cola", queue).
		Str("tipo", jobType).
		Str("motivo", reason).
		Int("intentos", attempts).
		Msg("dlq: trabajo estacionado")
}

// DLQLength informa cuántos trabajos hay estacionados para una cola.
func DLQLength(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.LLen(ctx, DLQPrefix+queue).Result()
}
