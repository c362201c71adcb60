package worker

// envio_worker.go
// Processes outbound ticket-email jobs from QueueEnvioTicket.
// All SMTP traffic goes through the circuit breaker, so a downed mail server
// trips fast instead of stalling the pool. Failures are written back to the
// EnvioTicket row with an exponential-backoff schedule the retry cron honors.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"comanda/internal/infra"
	"comanda/internal/model"
	"comanda/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// MaxEnvioRetries is the attempt ceiling before an envío lands in the DLQ.
const MaxEnvioRetries = 5

type EnvioWorker struct {
	mailer         *infra.Mailer
	cb             *infra.CircuitBreaker
	pedidoRepo     repository.PedidoRepository
	envioRepo      repository.EnvioRepository
	pdfStoragePath string
}

func NewEnvioWorker(
	mailer *infra.Mailer,
	cb *infra.CircuitBreaker,
	pedidoRepo repository.PedidoRepository,
	envioRepo repository.EnvioRepository,
	pdfStoragePath string,
) *EnvioWorker {
	return &EnvioWorker{
		mailer:         mailer,
		cb:             cb,
		pedidoRepo:     pedidoRepo,
		envioRepo:      envioRepo,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single envío job:
//  1. Parse EnvioTicketPayload
//  2. Re-read the pedido and the EnvioTicket row
//  3. Render the ticket PDF (only for tipo=ticket)
//  4. Send through the circuit breaker
//  5. Update the EnvioTicket estado so the outcome is observable
func (w *EnvioWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload EnvioTicketPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("envio_worker: invalid payload")
		return
	}
	if payload.Destinatario == "" {
		log.Warn().Msg("envio_worker: destinatario vacío, se omite")
		return
	}

	pedidoID, err := uuid.Parse(payload.PedidoID)
	if err != nil {
		log.Error().Str("pedido_id", payload.PedidoID).Msg("envio_worker: pedido_id inválido")
		return
	}
	pedido, err := w.pedidoRepo.FindByID(ctx, pedidoID)
	if err != nil {
		log.Error().Err(err).Str("pedido_id", payload.PedidoID).Msg("envio_worker: pedido no encontrado")
		return
	}

	var envio *model.EnvioTicket
	if envioID, err := uuid.Parse(payload.EnvioID); err == nil {
		envio, _ = w.envioRepo.FindByID(ctx, envioID)
	}

	sendErr := w.enviar(pedido, payload)
	w.registrarResultado(ctx, envio, payload, sendErr)
}

func (w *EnvioWorker) enviar(pedido *model.Pedido, payload EnvioTicketPayload) error {
	var (
		subject = fmt.Sprintf("Tu ticket — Pedido #%d", payload.NumeroDiario)
		body    = fmt.Sprintf("Adjunto encontrarás el ticket de tu pedido #%d.\nTotal: $%s\n\n¡Gracias por tu visita!",
			payload.NumeroDiario, pedido.Total.StringFixed(2))
		pdfPath string
	)

	switch payload.Tipo {
	case TipoConfirmacion:
		subject = fmt.Sprintf("Recibimos tu pedido #%d", payload.NumeroDiario)
		body = fmt.Sprintf("Hola %s:\n\nTu pedido #%d fue recibido y está en cocina.\nTotal: $%s\n\nTe avisaremos cuando esté listo.",
			pedido.ClienteNombre, payload.NumeroDiario, pedido.Total.StringFixed(2))
	default:
		path, err := infra.GenerarTicketPDF(pedido, w.pdfStoragePath)
		if err != nil {
			log.Warn().Err(err).Int("numero", payload.NumeroDiario).Msg("envio_worker: fallo generando PDF, se envía sin adjunto")
		} else {
			pdfPath = path
		}
	}

	return w.cb.Execute(func() error {
		return w.mailer.SendTicket(payload.Destinatario, subject, body, pdfPath)
	})
}

func (w *EnvioWorker) registrarResultado(ctx context.Context, envio *model.EnvioTicket, payload EnvioTicketPayload, sendErr error) {
	if sendErr == nil {
		log.Info().Str("to", payload.Destinatario).Int("numero", payload.NumeroDiario).Msg("envio_worker: correo enviado")
		if envio != nil {
			envio.Estado = model.EnvioEnviado
			envio.NextRetryAt = nil
			envio.LastError = nil
			_ = w.envioRepo.Update(ctx, envio)
		}
		return
	}

	log.Error().Err(sendErr).Str("to", payload.Destinatario).Msg("envio_worker: fallo el envío")
	if envio == nil {
		return
	}
	envio.Estado = model.EnvioFallido
	envio.RetryCount++
	msg := sendErr.Error()
	envio.LastError = &msg
	if envio.RetryCount < MaxEnvioRetries {
		next := time.Now().Add(computeRetryBackoff(envio.RetryCount))
		envio.NextRetryAt = &next
	} else {
		envio.NextRetryAt = nil
	}
	_ = w.envioRepo.Update(ctx, envio)
}

// computeRetryBackoff: 1m, 2m, 4m, 8m… capped at 30m.
func computeRetryBackoff(retryCount int) time.Duration {
	d := time.Minute * time.Duration(1<<uint(retryCount-1))
	if d > 30*time.Minute {
		d = 30 * time.Minute
	}
	return d
}
