package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/bnema/podwatch/internal/domain"
	"github.com/bnema/podwatch/internal/ports"
)

// StepView is what the transport renders after a wizard transition: the step
// the session landed on, the session's selections so far, and the options to
// offer at that step.
type StepView struct {
	Step      domain.Step
	Session   domain.Session
	Templates []domain.Template
	Volumes   []domain.NetworkVolume
	GPUTypes  []string
}

// Wizard drives the pod creation flow: template, volume, GPU, confirmation.
// One session per (chat, user); every access checks expiry lazily and every
// selection is validated against the session's current step before any
// mutation, so a rejected callback leaves the session untouched.
type Wizard struct {
	directory ports.PodDirectory
	sessions  ports.SessionStore
	clock     ports.Clock
	logger    *zap.Logger
	gpuTypes  []string
	ttl       time.Duration
}

func NewWizard(directory ports.PodDirectory, sessions ports.SessionStore, clock ports.Clock, logger *zap.Logger, gpuTypes []string, ttl time.Duration) *Wizard {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Wizard{
		directory: directory,
		sessions:  sessions,
		clock:     clock,
		logger:    logger,
		gpuTypes:  gpuTypes,
		ttl:       ttl,
	}
}

// Begin starts a new session in the template step, replacing any session the
// key already has. No session is created when the template list is empty or
// the fetch fails.
func (w *Wizard) Begin(ctx context.Context, key domain.SessionKey) (StepView, error) {
	templates, err := w.directory.ListTemplates(ctx)
	if err != nil {
		return StepView{}, fmt.Errorf("list templates: %w", err)
	}
	if len(templates) == 0 {
		return StepView{}, domain.ErrNoTemplates
	}

	options := make(map[domain.TemplateID]domain.Template, len(templates))
	for _, tpl := range templates {
		options[tpl.ID] = tpl
	}

	now := w.clock.Now()
	session := domain.Session{
		Key:             key,
		Step:            domain.StepAwaitTemplate,
		TemplateOptions: options,
		CreatedAt:       now,
		ExpiresAt:       now.Add(w.ttl),
	}
	w.sessions.Put(session)

	w.logger.Info("wizard session started",
		zap.Int64("chat_id", key.ChatID),
		zap.Int64("user_id", key.UserID),
		zap.Int("templates", len(templates)))

	return StepView{Step: domain.StepAwaitTemplate, Session: session, Templates: templates}, nil
}

// SelectTemplate records the chosen template and advances to the volume step,
// or straight to the GPU step when no network volumes exist.
func (w *Wizard) SelectTemplate(ctx context.Context, key domain.SessionKey, id domain.TemplateID) (StepView, error) {
	session, err := w.current(key, domain.StepAwaitTemplate)
	if err != nil {
		return StepView{}, err
	}

	tpl, ok := session.TemplateOptions[id]
	if !ok {
		return StepView{}, domain.ErrUnknownTemplate
	}

	volumes, err := w.directory.ListVolumes(ctx)
	if err != nil {
		return StepView{}, fmt.Errorf("list network volumes: %w", err)
	}

	session.Template = tpl
	session.TemplateOptions = nil

	if len(volumes) == 0 {
		session.VolumeID = ""
		session.Step = domain.StepAwaitGPU
		w.sessions.Put(session)
		return StepView{Step: domain.StepAwaitGPU, Session: session, GPUTypes: w.gpuTypes}, nil
	}

	options := make(map[domain.VolumeID]domain.NetworkVolume, len(volumes))
	for _, vol := range volumes {
		options[vol.ID] = vol
	}
	session.VolumeOptions = options
	session.Step = domain.StepAwaitVolume
	w.sessions.Put(session)

	return StepView{Step: domain.StepAwaitVolume, Session: session, Volumes: volumes}, nil
}

// SelectVolume records the chosen volume (empty id means "no volume") and
// advances to the GPU step.
func (w *Wizard) SelectVolume(_ context.Context, key domain.SessionKey, id domain.VolumeID) (StepView, error) {
	session, err := w.current(key, domain.StepAwaitVolume)
	if err != nil {
		return StepView{}, err
	}

	if id != "" {
		vol, ok := session.VolumeOptions[id]
		if !ok {
			return StepView{}, domain.ErrUnknownVolume
		}
		session.VolumeID = id
		session.VolumeName = vol.Label()
		session.DataCenterID = vol.DataCenterID
	} else {
		session.VolumeID = ""
		session.VolumeName = ""
		session.DataCenterID = ""
	}

	session.VolumeOptions = nil
	session.Step = domain.StepAwaitGPU
	w.sessions.Put(session)

	return StepView{Step: domain.StepAwaitGPU, Session: session, GPUTypes: w.gpuTypes}, nil
}

// SelectGPU records the GPU choice by index into the configured list,
// generates the pod name, and advances to the confirmation step.
func (w *Wizard) SelectGPU(_ context.Context, key domain.SessionKey, index int) (StepView, error) {
	session, err := w.current(key, domain.StepAwaitGPU)
	if err != nil {
		return StepView{}, err
	}

	if index < 0 || index >= len(w.gpuTypes) {
		return StepView{}, domain.ErrInvalidGPU
	}

	session.GPUType = w.gpuTypes[index]
	session.PodName = domain.GeneratePodName(session.Template.Name, w.clock.Now())
	session.Step = domain.StepAwaitConfirm
	w.sessions.Put(session)

	return StepView{Step: domain.StepAwaitConfirm, Session: session}, nil
}

// ConfirmResult reports a completed creation: the pod the directory returned
// plus the name and GPU the wizard asked for, for the success message.
type ConfirmResult struct {
	Pod     domain.Pod
	Name    string
	GPUType string
}

// Confirm provisions the pod from the session's selections. On success the
// session is destroyed; on a directory failure it stays in the confirmation
// step so the user can retry.
func (w *Wizard) Confirm(ctx context.Context, key domain.SessionKey) (ConfirmResult, error) {
	session, err := w.current(key, domain.StepAwaitConfirm)
	if err != nil {
		return ConfirmResult{}, err
	}

	pod, err := w.directory.CreatePod(ctx, session.CreateSpec())
	if err != nil {
		return ConfirmResult{}, fmt.Errorf("create pod: %w", err)
	}

	w.sessions.Delete(key)

	w.logger.Info("pod created",
		zap.String("pod_id", string(pod.ID)),
		zap.String("name", session.PodName),
		zap.String("gpu", session.GPUType))

	return ConfirmResult{Pod: pod, Name: session.PodName, GPUType: session.GPUType}, nil
}

// Cancel destroys the session if one exists and reports whether it did.
func (w *Wizard) Cancel(key domain.SessionKey) bool {
	if _, ok := w.sessions.Get(key); !ok {
		return false
	}
	w.sessions.Delete(key)
	return true
}

// current loads the session for key, enforcing lazy expiry and the step
// ordering. An expired session is removed and reported as ErrSessionExpired,
// indistinguishable from no session at all.
func (w *Wizard) current(key domain.SessionKey, want domain.Step) (domain.Session, error) {
	session, ok := w.sessions.Get(key)
	if !ok {
		return domain.Session{}, domain.ErrSessionExpired
	}
	if session.Expired(w.clock.Now()) {
		w.sessions.Delete(key)
		return domain.Session{}, domain.ErrSessionExpired
	}
	if session.Step != want {
		return domain.Session{}, domain.ErrInvalidTransition
	}
	return session, nil
}
