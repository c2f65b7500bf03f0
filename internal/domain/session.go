package domain

import (
	"strings"
	"time"
)

type Step string

const (
	StepAwaitTemplate Step = "await-template"
	StepAwaitVolume   Step = "await-volume"
	StepAwaitGPU      Step = "await-gpu"
	StepAwaitConfirm  Step = "await-confirm"
)

// SessionKey scopes a wizard session to one user in one chat.
type SessionKey struct {
	ChatID int64
	UserID int64
}

const (
	defaultContainerDiskGB = 50
	defaultPodPorts        = "8888/http,22/tcp"
	defaultVolumeGB        = 20
)

// Session tracks one user's progress through the pod creation wizard.
// At most one session exists per key; a new /create replaces it. Sessions are
// mutated only by the wizard and expire lazily on access.
type Session struct {
	Key  SessionKey
	Step Step

	// Options presented at the current step. Selections are validated
	// against these before any mutation.
	TemplateOptions map[TemplateID]Template
	VolumeOptions   map[VolumeID]NetworkVolume

	Template     Template
	VolumeID     VolumeID // empty means "no volume"
	VolumeName   string
	DataCenterID string
	GPUType      string
	PodName      string

	CreatedAt time.Time
	ExpiresAt time.Time
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// CreateSpec assembles the pod creation request from the session's selections
// and the chosen template's defaults.
func (s Session) CreateSpec() CreateSpec {
	disk := s.Template.ContainerDiskGB
	if disk == 0 {
		disk = defaultContainerDiskGB
	}
	ports := s.Template.Ports
	if ports == "" {
		ports = defaultPodPorts
	}

	spec := CreateSpec{
		Name:            s.PodName,
		ImageName:       s.Template.ImageName,
		TemplateID:      s.Template.ID,
		GPUType:         s.GPUType,
		GPUCount:        1,
		ContainerDiskGB: disk,
		Ports:           splitTrim(ports),
	}
	if s.Template.DockerArgs != "" {
		spec.DockerStartCmd = strings.Fields(s.Template.DockerArgs)
	}
	if s.VolumeID != "" {
		spec.VolumeID = s.VolumeID
		spec.VolumeGB = 0
		spec.DataCenterID = s.DataCenterID
	} else {
		spec.VolumeGB = defaultVolumeGB
	}
	return spec
}

// CreateSpec is everything the directory needs to provision a pod.
type CreateSpec struct {
	Name            string
	ImageName       string
	TemplateID      TemplateID
	GPUType         string
	GPUCount        int
	ContainerDiskGB int
	Ports           []string
	DockerStartCmd  []string
	VolumeID        VolumeID
	VolumeGB        int
	DataCenterID    string
}

func splitTrim(csv string) []string {
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
