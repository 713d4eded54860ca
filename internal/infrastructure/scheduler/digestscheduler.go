// Package scheduler drives periodic digest refreshes from channel activity.
package scheduler

import (
	"context"
	"time"

	"ticketbridge/internal/application/ports"
	ticketUsecases "ticketbridge/internal/application/ticket/usecases"
	"ticketbridge/internal/domain/ticket"
	"ticketbridge/internal/shared/goroutine"
	"ticketbridge/internal/shared/logger"
)

const defaultRefreshInterval = 60 * time.Second

// DigestScheduler polls open ticket channels for fresh activity and
// refreshes their digests. Channels without new messages since the last
// sweep are skipped, so an idle bridge makes no digest edits.
type DigestScheduler struct {
	bindings      ticket.BindingRepository
	platform      ports.PlatformSender
	refreshDigest ticketUsecases.RefreshDigestExecutor
	logger        logger.Interface
	interval      time.Duration
	stopChan      chan struct{}

	// lastSeen maps channel id to the newest message id observed in the
	// previous sweep.
	lastSeen map[int64]int64
}

func NewDigestScheduler(
	bindings ticket.BindingRepository,
	platform ports.PlatformSender,
	refreshDigest ticketUsecases.RefreshDigestExecutor,
	intervalSeconds int,
	log logger.Interface,
) *DigestScheduler {
	interval := defaultRefreshInterval
	if intervalSeconds > 0 {
		interval = time.Duration(intervalSeconds) * time.Second
	}
	return &DigestScheduler{
		bindings:      bindings,
		platform:      platform,
		refreshDigest: refreshDigest,
		logger:        log,
		interval:      interval,
		stopChan:      make(chan struct{}),
		lastSeen:      make(map[int64]int64),
	}
}

// Start starts the scheduler.
func (s *DigestScheduler) Start(ctx context.Context) {
	s.logger.Infow("starting digest scheduler", "interval", s.interval)
	goroutine.SafeGo(s.logger, "digest-scheduler", func() {
		s.run(ctx)
	})
}

// Stop stops the scheduler.
func (s *DigestScheduler) Stop() {
	close(s.stopChan)
}

func (s *DigestScheduler) run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Infow("digest scheduler stopped due to context cancellation")
			return
		case <-s.stopChan:
			s.logger.Infow("digest scheduler stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep checks every open ticket once and refreshes digests for the
// channels that saw new messages.
func (s *DigestScheduler) sweep(ctx context.Context) {
	bindings, err := s.bindings.List(ctx)
	if err != nil {
		s.logger.Errorw("failed to list ticket bindings", "error", err)
		return
	}

	open := make(map[int64]bool, len(bindings))
	for _, binding := range bindings {
		channelID := binding.ChannelID()
		open[channelID] = true

		newest, ok := s.newestMessageID(ctx, channelID)
		if !ok {
			continue
		}
		if s.lastSeen[channelID] == newest {
			continue
		}

		if _, err := s.refreshDigest.Execute(ctx, ticketUsecases.RefreshDigestCommand{ChannelID: channelID}); err != nil {
			s.logger.Errorw("digest refresh failed", "channel_id", channelID, "error", err)
			continue
		}
		s.lastSeen[channelID] = newest
	}

	// Closed tickets drop out of the activity cache.
	for channelID := range s.lastSeen {
		if !open[channelID] {
			delete(s.lastSeen, channelID)
		}
	}
}

func (s *DigestScheduler) newestMessageID(ctx context.Context, channelID int64) (int64, bool) {
	messages, err := s.platform.FetchRecentMessages(ctx, channelID, 1)
	if err != nil {
		s.logger.Warnw("failed to peek channel activity", "channel_id", channelID, "error", err)
		return 0, false
	}
	if len(messages) == 0 {
		return 0, false
	}
	return messages[len(messages)-1].ID, true
}
