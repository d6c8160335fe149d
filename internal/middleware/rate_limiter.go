package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/nexorasoft/veterinaria-innobov-server-sub001/internal/dto"

	"github.com/gin-gonic/gin"
)

// rateEntry tracks request counts per IP within a sliding window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

var (
	loginRateMap   = make(map[string]*rateEntry)
	loginRateMapMu sync.Mutex

	apiRateMap   = make(map[string]*rateEntry)
	apiRateMapMu sync.Mutex
)

func limited(c *gin.Context, entries map[string]*rateEntry, mu *sync.Mutex, limit int, window time.Duration) bool {
	ip := c.ClientIP()

	mu.Lock()
	entry, exists := entries[ip]
	if !exists {
		entry = &rateEntry{}
		entries[ip] = entry
	}
	mu.Unlock()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	now := time.Now()
	if now.After(entry.windowEnd) {
		entry.count = 0
		entry.windowEnd = now.Add(window)
	}
	entry.count++
	return entry.count > limit
}

// LoginRateLimiter limits login attempts to 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	return func(c *gin.Context) {
		if limited(c, loginRateMap, &loginRateMapMu, 20, time.Minute) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Envelope{
				Success: false,
				Code:    http.StatusTooManyRequests,
				Message: "Demasiados intentos de login. Intente en 1 minuto.",
			})
			return
		}
		c.Next()
	}
}

// RateLimiter returns a general-purpose sliding-window rate limiter per IP.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limited(c, apiRateMap, &apiRateMapMu, limit, window) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.Envelope{
				Success: false,
				Code:    http.StatusTooManyRequests,
				Message: "Demasiadas solicitudes. Intente más tarde.",
			})
			return
		}
		c.Next()
	}
}
