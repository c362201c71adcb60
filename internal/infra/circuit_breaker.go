package infra

import (
	"errors"
	"sync"
	"time"
)

// Circuit breaker para el servidor SMTP. Cuando el envío de tickets falla
// repetidamente, el circuito se abre y los trabajos fallan rápido en lugar
// de bloquear el pool esperando timeouts; tras el período de enfriamiento se
// deja pasar una sonda y, si responde, el circuito vuelve a cerrarse.

// CBState es el estado actual del circuito.
type CBState int

const (
	CBClosed CBState = iota
	CBOpen
	CBHalfOpen
)

func (s CBState) String() string {
	switch s {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrCircuitOpen se devuelve sin ejecutar la operación cuando el circuito
// está abierto.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreakerConfig agrupa los umbrales del circuito.
type CircuitBreakerConfig struct {
	FailureThreshold int           // fallas consecutivas para abrir
	SuccessThreshold int           // éxitos en half-open para cerrar
	OpenTimeout      time.Duration // enfriamiento antes de sondear
}

// DefaultCBConfig son los umbrales usados para SMTP.
func DefaultCBConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		OpenTimeout:      60 * time.Second,
	}
}

// CircuitBreaker es seguro para uso concurrente desde el pool de workers,
// el cron de reintentos y el endpoint de health.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu        sync.Mutex
	state     CBState
	fallas    int
	exitos    int
	abiertoEn time.Time
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCBConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = def.SuccessThreshold
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}
	return &CircuitBreaker{cfg: cfg, state: CBClosed}
}

// State devuelve el estado vigente, promoviendo open → half-open cuando ya
// pasó el enfriamiento.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.stateLocked()
}

func (cb *CircuitBreaker) stateLocked() CBState {
	if cb.state == CBOpen && time.Since(cb.abiertoEn) >= cb.cfg.OpenTimeout {
		cb.state = CBHalfOpen
		cb.exitos = 0
	}
	return cb.state
}

// Execute corre fn a través del circuito. Si está abierto devuelve
// ErrCircuitOpen sin invocar fn; el error de fn se propaga tal cual.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	if cb.stateLocked() == CBOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()
	cb.registrar(err)
	return err
}

// registrar actualiza los contadores y transiciona según el resultado.
func (cb *CircuitBreaker) registrar(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.fallas++
		cb.abiertoEn = time.Now()
		switch cb.state {
		case CBClosed:
			if cb.fallas >= cb.cfg.FailureThreshold {
				cb.state = CBOpen
				cb.exitos = 0
			}
		case CBHalfOpen:
			// La sonda falló: de vuelta a abierto por otro ciclo completo
			cb.state = CBOpen
			cb.fallas = 0
		}
		return
	}

	switch cb.state {
	case CBClosed:
		cb.fallas = 0
	case CBHalfOpen:
		cb.exitos++
		if cb.exitos >= cb.cfg.SuccessThreshold {
			cb.state = CBClosed
			cb.fallas = 0
			cb.exitos = 0
		}
	}
}
