package telegram

import (
	"context"
	"sync"
	"time"

	"ticketbridge/internal/shared/goroutine"
	"ticketbridge/internal/shared/logger"
)

// UpdateHandler defines the interface for handling Telegram updates
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update *Update) error
}

// PollingService long-polls the Bot API and feeds updates to the handler
// sequentially, in arrival order. Command handling mutates shared stores,
// so updates are never processed concurrently.
type PollingService struct {
	botService   *BotService
	handler      UpdateHandler
	logger       logger.Interface
	pollTimeout  int
	stopChan     chan struct{}
	cancelFunc   context.CancelFunc
	wg           sync.WaitGroup
	lastUpdateID int64
	isRunning    bool
	runningMu    sync.Mutex
}

func NewPollingService(botService *BotService, handler UpdateHandler, log logger.Interface, pollTimeout int) *PollingService {
	if pollTimeout <= 0 {
		pollTimeout = 30
	}
	return &PollingService{
		botService:  botService,
		handler:     handler,
		logger:      log,
		pollTimeout: pollTimeout,
		stopChan:    make(chan struct{}),
	}
}

// Start begins polling for updates
func (s *PollingService) Start(ctx context.Context) error {
	s.runningMu.Lock()
	if s.isRunning {
		s.runningMu.Unlock()
		return nil
	}
	s.isRunning = true
	s.stopChan = make(chan struct{})
	pollCtx, cancel := context.WithCancel(ctx)
	s.cancelFunc = cancel
	s.runningMu.Unlock()

	// A leftover webhook blocks getUpdates.
	if err := s.botService.DeleteWebhook(); err != nil {
		s.logger.Warnw("failed to delete webhook before polling", "error", err)
	}

	s.logger.Infow("starting telegram polling service", "timeout", s.pollTimeout)

	s.wg.Add(1)
	goroutine.SafeGo(s.logger, "telegram-poll-loop", func() {
		s.pollLoop(pollCtx)
	})

	return nil
}

// Stop stops the polling service and waits for the loop to drain.
func (s *PollingService) Stop() {
	s.runningMu.Lock()
	if !s.isRunning {
		s.runningMu.Unlock()
		return
	}
	s.isRunning = false
	close(s.stopChan)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.runningMu.Unlock()

	s.wg.Wait()
	s.logger.Infow("telegram polling service stopped")
}

func (s *PollingService) pollLoop(ctx context.Context) {
	defer s.wg.Done()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ctx.Done():
			return
		default:
		}

		updates, err := s.botService.GetUpdatesWithContext(ctx, s.lastUpdateID+1, s.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.logger.Errorw("failed to fetch telegram updates", "error", err)
			backoff := 5 * time.Second
			if retryAfter := GetRetryAfter(err); retryAfter > 0 {
				backoff = time.Duration(retryAfter) * time.Second
			}
			select {
			case <-time.After(backoff):
			case <-s.stopChan:
				return
			}
			continue
		}

		for i := range updates {
			update := &updates[i]
			if update.UpdateID > s.lastUpdateID {
				s.lastUpdateID = update.UpdateID
			}
			if err := s.handler.HandleUpdate(ctx, update); err != nil {
				s.logger.Errorw("failed to handle telegram update",
					"update_id", update.UpdateID, "error", err)
			}
		}
	}
}
