package keepalive

import (
	"context"
	"log"
	"sync"
	"time"

	"ricepro-web/internal/metrics"
	"ricepro-web/internal/models"
)

const (
	DefaultInterval     = 5 * time.Minute
	DefaultMaxFailures  = 3
	DefaultWakeAttempts = 3
	DefaultWakeDelay    = 10 * time.Second

	// healthEvery runs a health probe on every second ping.
	healthEvery = 2
)

// Backend is the slice of the API client the pinger needs.
type Backend interface {
	Ping(ctx context.Context) (*models.PingResponse, error)
	Health(ctx context.Context) (*models.BackendHealth, error)
}

// Pinger keeps a sleeping backend awake by pinging it on an interval.
// After MaxFailures consecutive failures it makes WakeAttempts extra
// pings WakeDelay apart before giving up until the next tick.
type Pinger struct {
	backend      Backend
	interval     time.Duration
	MaxFailures  int
	WakeAttempts int
	WakeDelay    time.Duration

	mu         sync.Mutex
	failures   int
	ticks      int
	lastHealth *models.BackendHealth

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a pinger. An interval of zero or less disables it; Start is
// then a no-op.
func New(backend Backend, interval time.Duration) *Pinger {
	return &Pinger{
		backend:      backend,
		interval:     interval,
		MaxFailures:  DefaultMaxFailures,
		WakeAttempts: DefaultWakeAttempts,
		WakeDelay:    DefaultWakeDelay,
		stopChan:     make(chan struct{}),
	}
}

// Enabled reports whether Start will run a loop.
func (p *Pinger) Enabled() bool { return p.interval > 0 }

// Start pings immediately and then on every tick until Stop is called.
func (p *Pinger) Start() {
	if !p.Enabled() {
		log.Println("[KeepAlive] Disabled")
		return
	}
	log.Printf("[KeepAlive] Pinging backend every %s", p.interval)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			select {
			case <-p.stopChan:
				cancel()
			case <-ctx.Done():
			}
		}()

		p.Tick(ctx)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.Tick(ctx)
			case <-p.stopChan:
				log.Println("[KeepAlive] Stopping...")
				return
			}
		}
	}()
}

// Stop ends the loop and waits for an in-flight tick to return.
func (p *Pinger) Stop() {
	if !p.Enabled() {
		return
	}
	select {
	case <-p.stopChan:
	default:
		close(p.stopChan)
	}
	p.wg.Wait()
}

// Tick performs one ping cycle. It returns true when the backend answered.
func (p *Pinger) Tick(ctx context.Context) bool {
	alive := p.ping(ctx)

	p.mu.Lock()
	if alive {
		p.failures = 0
	} else {
		p.failures++
		log.Printf("[KeepAlive] Consecutive failures: %d/%d", p.failures, p.MaxFailures)
	}
	failures := p.failures
	p.ticks++
	checkHealth := p.ticks%healthEvery == 1
	p.mu.Unlock()

	if failures >= p.MaxFailures {
		alive = p.wake(ctx)
	}
	if alive && checkHealth {
		p.checkHealth(ctx)
	}
	return alive
}

// Failures returns the current consecutive failure count.
func (p *Pinger) Failures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failures
}

// LastHealth returns the most recent backend health answer, if any.
func (p *Pinger) LastHealth() *models.BackendHealth {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastHealth
}

func (p *Pinger) ping(ctx context.Context) bool {
	resp, err := p.backend.Ping(ctx)
	if err != nil {
		metrics.KeepAliveTotal.WithLabelValues("failure").Inc()
		log.Printf("[KeepAlive] Ping failed: %v", err)
		return false
	}
	metrics.KeepAliveTotal.WithLabelValues("success").Inc()
	log.Printf("[KeepAlive] Backend alive (server time %s)", resp.Timestamp)
	return true
}

func (p *Pinger) wake(ctx context.Context) bool {
	log.Println("[KeepAlive] Backend might be sleeping, attempting wake-up")
	for attempt := 1; attempt <= p.WakeAttempts; attempt++ {
		select {
		case <-time.After(p.WakeDelay):
		case <-ctx.Done():
			return false
		}
		log.Printf("[KeepAlive] Wake-up attempt %d/%d", attempt, p.WakeAttempts)
		if p.ping(ctx) {
			metrics.KeepAliveTotal.WithLabelValues("woken").Inc()
			p.mu.Lock()
			p.failures = 0
			p.mu.Unlock()
			return true
		}
	}
	metrics.KeepAliveTotal.WithLabelValues("wake_failed").Inc()
	log.Printf("[KeepAlive] Failed to wake backend after %d attempts", p.WakeAttempts)
	return false
}

func (p *Pinger) checkHealth(ctx context.Context) {
	h, err := p.backend.Health(ctx)
	if err != nil {
		log.Printf("[KeepAlive] Health check failed: %v", err)
		return
	}
	p.mu.Lock()
	p.lastHealth = h
	p.mu.Unlock()
	log.Printf("[KeepAlive] Backend health %s, database %s", h.Status, h.Database)
}
