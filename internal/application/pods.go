package application

import (
	"context"
	"fmt"

	"github.com/bnema/podwatch/internal/domain"
	"github.com/bnema/podwatch/internal/ports"
)

// PodService answers the direct pod queries and lifecycle commands. Listings
// are always a fresh poll against the directory, not a snapshot read.
type PodService struct {
	directory ports.PodDirectory
}

func NewPodService(directory ports.PodDirectory) *PodService {
	return &PodService{directory: directory}
}

func (s *PodService) ListPods(ctx context.Context) ([]domain.Pod, error) {
	pods, err := s.directory.ListPods(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pods: %w", err)
	}
	return pods, nil
}

func (s *PodService) RunningPods(ctx context.Context) ([]domain.Pod, error) {
	pods, err := s.ListPods(ctx)
	if err != nil {
		return nil, err
	}
	return domain.RunningPods(pods), nil
}

// Terminate deletes the pod entirely. The id is validated before any API call.
func (s *PodService) Terminate(ctx context.Context, id domain.PodID) error {
	if !domain.ValidPodID(id) {
		return domain.ErrInvalidPodID
	}
	if err := s.directory.TerminatePod(ctx, id); err != nil {
		return fmt.Errorf("terminate pod %s: %w", id, err)
	}
	return nil
}

// Stop halts the pod while keeping its storage. The id is validated before
// any API call.
func (s *PodService) Stop(ctx context.Context, id domain.PodID) error {
	if !domain.ValidPodID(id) {
		return domain.ErrInvalidPodID
	}
	if err := s.directory.StopPod(ctx, id); err != nil {
		return fmt.Errorf("stop pod %s: %w", id, err)
	}
	return nil
}
