package heartbeat

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	DefaultInterval    = 10 * time.Minute
	DefaultPingTimeout = 5 * time.Second
)

// Pinger is anything that can report whether its backing store answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Config struct {
	Interval    time.Duration
	PingTimeout time.Duration
	Logger      *logrus.Logger
}

// Probe periodically logs that the server is alive and checks the store.
// It has no effect on request handling.
type Probe struct {
	cfg    Config
	pinger Pinger

	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu       sync.Mutex
	lastErr  error
	lastBeat time.Time
}

func New(cfg Config, pinger Pinger) *Probe {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.PingTimeout <= 0 {
		cfg.PingTimeout = DefaultPingTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &Probe{cfg: cfg, pinger: pinger}
}

// Start launches the background loop. It stops when ctx is cancelled or Shutdown is called.
func (p *Probe) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.loop(ctx)
	}()
	p.cfg.Logger.Infof("heartbeat started, interval %s", p.cfg.Interval)
}

func (p *Probe) Shutdown() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// Check pings the store once and records the outcome.
func (p *Probe) Check(ctx context.Context) error {
	var err error
	if p.pinger != nil {
		pingCtx, cancel := context.WithTimeout(ctx, p.cfg.PingTimeout)
		defer cancel()
		if perr := p.pinger.Ping(pingCtx); perr != nil {
			err = fmt.Errorf("store ping: %w", perr)
		}
	}

	p.mu.Lock()
	p.lastErr = err
	p.lastBeat = time.Now()
	p.mu.Unlock()
	return err
}

// Last returns the time and result of the most recent check.
func (p *Probe) Last() (time.Time, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastBeat, p.lastErr
}

func (p *Probe) loop(ctx context.Context) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.cfg.Logger.Info("heartbeat stopped")
			return
		case <-ticker.C:
			if err := p.Check(ctx); err != nil {
				p.cfg.Logger.WithError(err).Warn("keeping server active: store unreachable")
				continue
			}
			p.cfg.Logger.Info("keeping server active")
		}
	}
}
