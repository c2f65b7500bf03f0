package ports

import (
	"context"

	"github.com/bnema/podwatch/internal/domain"
)

// PodDirectory is the remote pod service: listing, provisioning, and
// lifecycle operations. Every call is bounded by the implementation's
// client timeout and fails with a retryable error past it.
type PodDirectory interface {
	ListPods(ctx context.Context) ([]domain.Pod, error)
	ListTemplates(ctx context.Context) ([]domain.Template, error)
	ListVolumes(ctx context.Context) ([]domain.NetworkVolume, error)
	CreatePod(ctx context.Context, spec domain.CreateSpec) (domain.Pod, error)
	TerminatePod(ctx context.Context, id domain.PodID) error
	StopPod(ctx context.Context, id domain.PodID) error
}
