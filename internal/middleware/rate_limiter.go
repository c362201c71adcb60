package middleware

import (
	"net/http"
	"sync"
	"time"

	"comanda/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Limitador por IP con ventana fija. Cada instancia mantiene su propia tabla
// de contadores; las entradas vencidas se purgan en segundo plano para que la
// tabla no crezca con IPs que nunca vuelven.

type ventana struct {
	conteo int
	cierra time.Time
}

type limiterTable struct {
	mu      sync.Mutex
	porIP   map[string]*ventana
	limite  int
	periodo time.Duration
}

func newLimiterTable(limite int, periodo time.Duration) *limiterTable {
	t := &limiterTable{
		porIP:   make(map[string]*ventana),
		limite:  limite,
		periodo: periodo,
	}
	go t.purgar()
	return t
}

// permitir incrementa el contador de la IP y dice si la solicitud pasa.
// Devuelve además el cierre de la ventana para el header Retry-After.
func (t *limiterTable) permitir(ip string) (bool, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	v, ok := t.porIP[ip]
	if !ok || now.After(v.cierra) {
		v = &ventana{cierra: now.Add(t.periodo)}
		t.porIP[ip] = v
	}
	v.conteo++
	return v.conteo <= t.limite, v.cierra
}

func (t *limiterTable) purgar() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		t.mu.Lock()
		purgadas := 0
		for ip, v := range t.porIP {
			if now.After(v.cierra) {
				delete(t.porIP, ip)
				purgadas++
			}
		}
		restantes := len(t.porIP)
		t.mu.Unlock()
		if purgadas > 0 {
			log.Debug().
				Int("purgadas", purgadas).
				Int("restantes", restantes).
				Msg("rate limiter: tabla depurada")
		}
	}
}

// RateLimiter limita a `limit` solicitudes por IP dentro de `window`.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	tabla := newLimiterTable(limit, window)
	return func(c *gin.Context) {
		ok, cierra := tabla.permitir(c.ClientIP())
		if !ok {
			c.Header("Retry-After", cierra.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiadas solicitudes. Intente nuevamente en un momento."))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter limita los intentos de login a 20 por minuto por IP.
// Es más estricto que el limitador general para frenar fuerza bruta.
func LoginRateLimiter() gin.HandlerFunc {
	tabla := newLimiterTable(20, time.Minute)
	return func(c *gin.Context) {
		ok, _ := tabla.permitir(c.ClientIP())
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Demasiados intentos de login. Intente en 1 minuto."))
			return
		}
		c.Next()
	}
}
