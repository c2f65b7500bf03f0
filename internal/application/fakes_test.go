package application

import (
	"context"
	"time"

	"github.com/bnema/podwatch/internal/domain"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fakeDirectory struct {
	pods      []domain.Pod
	templates []domain.Template
	volumes   []domain.NetworkVolume

	listPodsErr  error
	templatesErr error
	volumesErr   error
	createErr    error
	terminateErr error
	stopErr      error

	createdPod domain.Pod
	created    []domain.CreateSpec
	terminated []domain.PodID
	stopped    []domain.PodID
}

func (d *fakeDirectory) ListPods(context.Context) ([]domain.Pod, error) {
	if d.listPodsErr != nil {
		return nil, d.listPodsErr
	}
	return d.pods, nil
}

func (d *fakeDirectory) ListTemplates(context.Context) ([]domain.Template, error) {
	if d.templatesErr != nil {
		return nil, d.templatesErr
	}
	return d.templates, nil
}

func (d *fakeDirectory) ListVolumes(context.Context) ([]domain.NetworkVolume, error) {
	if d.volumesErr != nil {
		return nil, d.volumesErr
	}
	return d.volumes, nil
}

func (d *fakeDirectory) CreatePod(_ context.Context, spec domain.CreateSpec) (domain.Pod, error) {
	if d.createErr != nil {
		return domain.Pod{}, d.createErr
	}
	d.created = append(d.created, spec)
	return d.createdPod, nil
}

func (d *fakeDirectory) TerminatePod(_ context.Context, id domain.PodID) error {
	if d.terminateErr != nil {
		return d.terminateErr
	}
	d.terminated = append(d.terminated, id)
	return nil
}

func (d *fakeDirectory) StopPod(_ context.Context, id domain.PodID) error {
	if d.stopErr != nil {
		return d.stopErr
	}
	d.stopped = append(d.stopped, id)
	return nil
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeNotifier struct {
	sent    []sentMessage
	sendErr error
}

func (n *fakeNotifier) Send(_ context.Context, chatID int64, text string) error {
	if n.sendErr != nil {
		return n.sendErr
	}
	n.sent = append(n.sent, sentMessage{chatID: chatID, text: text})
	return nil
}
