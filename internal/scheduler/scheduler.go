// Package scheduler runs the end-of-day watchlist scan. It reuses the same
// request pipeline the HTTP layer uses, so the cache keeps scan traffic from
// doubling upstream load.
package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"sharkwatch/internal/model"
	"sharkwatch/internal/notifier"
	"sharkwatch/internal/service"
)

// Scanner walks the watchlist on a cron schedule and pushes a Telegram alert
// for every strong accumulation or distribution classification.
type Scanner struct {
	cron     *cron.Cron
	stocks   *service.StockService
	notifier *notifier.Telegram
	symbols  []string
	ctx      context.Context
}

// NewScanner creates a Scanner.
func NewScanner(ctx context.Context, stocks *service.StockService, tn *notifier.Telegram, symbols []string) *Scanner {
	return &Scanner{
		cron:     cron.New(cron.WithSeconds()),
		stocks:   stocks,
		notifier: tn,
		symbols:  symbols,
		ctx:      ctx,
	}
}

// Register schedules the scan with a six-field cron spec.
func (s *Scanner) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.scan); err != nil {
		return fmt.Errorf("register watchlist scan: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scanner) Start() {
	s.cron.Start()
	log.Info().Int("symbols", len(s.symbols)).Msg("watchlist scanner started")
}

// Stop stops the cron scheduler.
func (s *Scanner) Stop() {
	s.cron.Stop()
	log.Info().Msg("watchlist scanner stopped")
}

// RunNow executes the scan immediately (manual trigger).
func (s *Scanner) RunNow() { s.scan() }

func (s *Scanner) scan() {
	log.Info().Msg("running watchlist scan")
	for _, symbol := range s.symbols {
		payload, err := s.stocks.GetStock(s.ctx, symbol, 0)
		if err != nil {
			log.Warn().Str("symbol", symbol).Err(err).Msg("watchlist scan fetch failed")
			continue
		}
		if payload.Shark == nil {
			continue
		}
		switch payload.Shark.Color {
		case model.ColorStrongBuy, model.ColorStrongSell:
			msg := notifier.FormatSignalAlert(symbol, payload.Latest, payload.Shark)
			if err := s.notifier.SendWithRetry(s.ctx, msg, 3); err != nil {
				log.Error().Str("symbol", symbol).Err(err).Msg("send watchlist alert")
			}
		}
	}
}
