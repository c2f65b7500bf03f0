package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/podwatch/internal/domain"
	"github.com/bnema/podwatch/internal/ports"
)

// AlertFormatter renders a pod status transition into the alert text sent to
// the operator chat.
type AlertFormatter func(domain.Transition) string

// Monitor polls the pod directory on a fixed interval, diffs each poll
// against the last committed snapshot, and pushes one alert per status
// transition. A failed poll skips the whole cycle: the snapshot stays as it
// was and nothing is alerted.
type Monitor struct {
	directory   ports.PodDirectory
	notifier    ports.Notifier
	logger      *zap.Logger
	formatAlert AlertFormatter
	chatID      int64
	interval    time.Duration

	// mu guards snapshot. The monitor goroutine is the only writer;
	// user-event handlers read through Snapshot.
	mu       sync.RWMutex
	snapshot map[domain.PodID]domain.Pod
}

func NewMonitor(directory ports.PodDirectory, notifier ports.Notifier, logger *zap.Logger, formatAlert AlertFormatter, chatID int64, interval time.Duration) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Monitor{
		directory:   directory,
		notifier:    notifier,
		logger:      logger,
		formatAlert: formatAlert,
		chatID:      chatID,
		interval:    interval,
		snapshot:    make(map[domain.PodID]domain.Pod),
	}
}

// Run executes check cycles until ctx is cancelled: one immediately, then one
// per interval. Cycle failures are logged and never stop the loop.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		if err := m.CheckOnce(ctx); err != nil {
			m.logger.Warn("pod check cycle skipped", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// CheckOnce runs a single poll-diff-alert-commit cycle.
func (m *Monitor) CheckOnce(ctx context.Context) error {
	pods, err := m.directory.ListPods(ctx)
	if err != nil {
		return fmt.Errorf("list pods: %w", err)
	}

	next := make(map[domain.PodID]domain.Pod, len(pods))
	for _, pod := range pods {
		next[pod.ID] = pod
	}

	transitions := diffSnapshots(m.Snapshot(), next)
	for _, tr := range transitions {
		if err := m.notifier.Send(ctx, m.chatID, m.formatAlert(tr)); err != nil {
			m.logger.Warn("alert delivery failed",
				zap.String("pod_id", string(tr.Pod.ID)),
				zap.Error(err))
		}
	}

	m.mu.Lock()
	m.snapshot = next
	m.mu.Unlock()

	if len(transitions) > 0 {
		m.logger.Info("pod transitions alerted",
			zap.Int("count", len(transitions)),
			zap.Int("pods", len(pods)))
	}

	return nil
}

// Snapshot returns a copy of the last committed pod snapshot. Readers never
// observe a mapping under construction.
func (m *Monitor) Snapshot() map[domain.PodID]domain.Pod {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[domain.PodID]domain.Pod, len(m.snapshot))
	for id, pod := range m.snapshot {
		out[id] = pod
	}
	return out
}

// diffSnapshots computes the transitions of interest between two polls:
// status changes, newly appeared pods (From == StatusUnknown), and pods that
// vanished from the listing (treated as terminated). The result is ordered by
// ascending pod id so alert order is stable across runs.
func diffSnapshots(prev, next map[domain.PodID]domain.Pod) []domain.Transition {
	var transitions []domain.Transition

	for id, pod := range next {
		from := domain.StatusUnknown
		if before, seen := prev[id]; seen {
			if before.Status == pod.Status {
				continue
			}
			from = before.Status
		}
		transitions = append(transitions, domain.Transition{Pod: pod, From: from, To: pod.Status})
	}

	for id, pod := range prev {
		if _, ok := next[id]; ok {
			continue
		}
		gone := pod
		gone.Status = domain.StatusTerminated
		transitions = append(transitions, domain.Transition{Pod: gone, From: pod.Status, To: domain.StatusTerminated})
	}

	sort.Slice(transitions, func(i, j int) bool {
		return transitions[i].Pod.ID < transitions[j].Pod.ID
	})

	return transitions
}
