package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/podwatch/internal/domain"
)

const alertChatID = int64(42)

func testAlertText(tr domain.Transition) string {
	return string(tr.Pod.ID) + ":" + string(tr.From) + "->" + string(tr.To)
}

func newTestMonitor(directory *fakeDirectory, notifier *fakeNotifier) *Monitor {
	return NewMonitor(directory, notifier, nil, testAlertText, alertChatID, time.Minute)
}

func TestMonitorAlertsOnEveryTransitionOfInterest(t *testing.T) {
	directory := &fakeDirectory{
		pods: []domain.Pod{
			{ID: "p1", Name: "train", Status: domain.StatusRunning},
			{ID: "p3", Name: "steady", Status: domain.StatusRunning},
		},
	}
	notifier := &fakeNotifier{}
	monitor := newTestMonitor(directory, notifier)
	ctx := context.Background()

	require.NoError(t, monitor.CheckOnce(ctx))
	// First cycle: both pods are new.
	require.Len(t, notifier.sent, 2)
	notifier.sent = nil

	// p1 stops, p2 appears, p3 is unchanged.
	directory.pods = []domain.Pod{
		{ID: "p1", Name: "train", Status: domain.StatusStopped},
		{ID: "p2", Name: "fresh", Status: domain.StatusPending},
		{ID: "p3", Name: "steady", Status: domain.StatusRunning},
	}
	require.NoError(t, monitor.CheckOnce(ctx))

	require.Len(t, notifier.sent, 2)
	assert.Equal(t, "p1:running->stopped", notifier.sent[0].text)
	assert.Equal(t, "p2:unknown->pending", notifier.sent[1].text)
	for _, msg := range notifier.sent {
		assert.Equal(t, alertChatID, msg.chatID)
	}

	snapshot := monitor.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, domain.StatusStopped, snapshot["p1"].Status)
	assert.Equal(t, domain.StatusPending, snapshot["p2"].Status)
	assert.Equal(t, domain.StatusRunning, snapshot["p3"].Status)
}

func TestMonitorTreatsDisappearanceAsTerminated(t *testing.T) {
	directory := &fakeDirectory{
		pods: []domain.Pod{{ID: "p1", Name: "train", Status: domain.StatusRunning}},
	}
	notifier := &fakeNotifier{}
	monitor := newTestMonitor(directory, notifier)
	ctx := context.Background()

	require.NoError(t, monitor.CheckOnce(ctx))
	notifier.sent = nil

	directory.pods = nil
	require.NoError(t, monitor.CheckOnce(ctx))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "p1:running->terminated", notifier.sent[0].text)
	assert.Empty(t, monitor.Snapshot())
}

func TestMonitorFailedPollKeepsSnapshotAndStaysSilent(t *testing.T) {
	directory := &fakeDirectory{
		pods: []domain.Pod{{ID: "p1", Status: domain.StatusRunning}},
	}
	notifier := &fakeNotifier{}
	monitor := newTestMonitor(directory, notifier)
	ctx := context.Background()

	require.NoError(t, monitor.CheckOnce(ctx))
	notifier.sent = nil

	directory.listPodsErr = errors.New("gateway timeout")
	require.Error(t, monitor.CheckOnce(ctx))

	assert.Empty(t, notifier.sent, "a failed poll must not alert")
	snapshot := monitor.Snapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, domain.StatusRunning, snapshot["p1"].Status)
}

func TestMonitorAlertOrderIsAscendingPodID(t *testing.T) {
	directory := &fakeDirectory{
		pods: []domain.Pod{
			{ID: "zeta", Status: domain.StatusRunning},
			{ID: "alpha", Status: domain.StatusPending},
			{ID: "mid", Status: domain.StatusStopped},
		},
	}
	notifier := &fakeNotifier{}
	monitor := newTestMonitor(directory, notifier)

	require.NoError(t, monitor.CheckOnce(context.Background()))

	require.Len(t, notifier.sent, 3)
	assert.Equal(t, "alpha:unknown->pending", notifier.sent[0].text)
	assert.Equal(t, "mid:unknown->stopped", notifier.sent[1].text)
	assert.Equal(t, "zeta:unknown->running", notifier.sent[2].text)
}

func TestMonitorDeliveryFailureDoesNotAbortCycle(t *testing.T) {
	directory := &fakeDirectory{
		pods: []domain.Pod{{ID: "p1", Status: domain.StatusRunning}},
	}
	notifier := &fakeNotifier{sendErr: errors.New("chat unreachable")}
	monitor := newTestMonitor(directory, notifier)

	require.NoError(t, monitor.CheckOnce(context.Background()))

	snapshot := monitor.Snapshot()
	require.Len(t, snapshot, 1, "snapshot must commit even when delivery fails")
}

func TestMonitorUnchangedPollEmitsNothing(t *testing.T) {
	directory := &fakeDirectory{
		pods: []domain.Pod{{ID: "p1", Status: domain.StatusRunning}},
	}
	notifier := &fakeNotifier{}
	monitor := newTestMonitor(directory, notifier)
	ctx := context.Background()

	require.NoError(t, monitor.CheckOnce(ctx))
	notifier.sent = nil

	require.NoError(t, monitor.CheckOnce(ctx))
	assert.Empty(t, notifier.sent)
}

func TestMonitorSnapshotReturnsACopy(t *testing.T) {
	directory := &fakeDirectory{
		pods: []domain.Pod{{ID: "p1", Status: domain.StatusRunning}},
	}
	monitor := newTestMonitor(directory, &fakeNotifier{})

	require.NoError(t, monitor.CheckOnce(context.Background()))

	snapshot := monitor.Snapshot()
	snapshot["p1"] = domain.Pod{ID: "p1", Status: domain.StatusStopped}

	assert.Equal(t, domain.StatusRunning, monitor.Snapshot()["p1"].Status)
}

func TestMonitorRunStopsOnContextCancel(t *testing.T) {
	directory := &fakeDirectory{}
	monitor := NewMonitor(directory, &fakeNotifier{}, nil, testAlertText, alertChatID, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		monitor.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop on context cancellation")
	}
}
