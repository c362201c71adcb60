package worker

// retry_cron.go
// Background goroutine that periodically re-attempts ticket emails stuck in
// estado='fallido' with a next_retry_at in the past. Uses the Circuit Breaker
// to avoid hammering a downed SMTP server.

import (
	"context"
	"fmt"
	"time"

	"comanda/internal/infra"
	"comanda/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = 30 * time.Second
	retryBatchSize    = 10
)

// RetryCronConfig holds all dependencies for the retry goroutine.
type RetryCronConfig struct {
	EnvioRepo  repository.EnvioRepository
	PedidoRepo repository.PedidoRepository
	Mailer     *infra.Mailer
	CB         *infra.CircuitBreaker
	RDB        *redis.Client
	PDFPath    string
}

// StartRetryCron launches a background goroutine that ticks every 30s,
// queries fallido envíos due for retry and re-attempts them through the CB.
// It respects the context for graceful shutdown.
func StartRetryCron(ctx context.Context, cfg RetryCronConfig) {
	go func() {
		ticker := time.NewTicker(retryTickInterval)
		defer ticker.Stop()

		log.Info().Msg("retry_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("retry_cron: shutting down")
				return
			case <-ticker.C:
				processRetries(ctx, cfg)
			}
		}
	}()
}

func processRetries(ctx context.Context, cfg RetryCronConfig) {
	// If CB is open, skip entirely — don't hammer a downed server
	if cfg.CB.State() == infra.CBOpen {
		log.Debug().Msg("retry_cron: circuit breaker is open, skipping tick")
		return
	}

	envios, err := cfg.EnvioRepo.ListPendingRetries(ctx, time.Now(), retryBatchSize)
	if err != nil {
		log.Error().Err(err).Msg("retry_cron: failed to query pending retries")
		return
	}
	if len(envios) == 0 {
		return
	}

	log.Info().Int("count", len(envios)).Msg("retry_cron: reintentando envíos fallidos")

	worker := NewEnvioWorker(cfg.Mailer, cfg.CB, cfg.PedidoRepo, cfg.EnvioRepo, cfg.PDFPath)

	for i := range envios {
		envio := &envios[i]

		// Check CB state before each call — it may have tripped mid-batch
		if cfg.CB.State() == infra.CBOpen {
			log.Debug().Msg("retry_cron: circuit breaker opened mid-batch, stopping")
			return
		}

		pedido, err := cfg.PedidoRepo.FindByID(ctx, envio.PedidoID)
		if err != nil {
			log.Error().Err(err).Str("envio_id", envio.ID.String()).Msg("retry_cron: pedido del envío no encontrado")
			continue
		}

		payload := EnvioTicketPayload{
			EnvioID:      envio.ID.String(),
			PedidoID:     pedido.ID.String(),
			NumeroDiario: pedido.NumeroDiario,
			Destinatario: envio.Destinatario,
			Tipo:         TipoTicket,
		}
		sendErr := worker.enviar(pedido, payload)
		worker.registrarResultado(ctx, envio, payload, sendErr)

		if sendErr != nil && envio.RetryCount >= MaxEnvioRetries {
			raw := fmt.Sprintf(`{"envio_id":"%s","pedido_id":"%s"}`, envio.ID, envio.PedidoID)
			SendToDLQ(ctx, cfg.RDB, QueueEnvioTicket, TipoTicket, []byte(raw),
				fmt.Sprintf("max retries (%d) exceeded: %v", MaxEnvioRetries, sendErr),
				envio.RetryCount)
		}
	}
}
