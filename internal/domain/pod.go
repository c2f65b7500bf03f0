package domain

import (
	"strings"
	"time"
	"unicode"
)

type PodID string

type Status string

const (
	StatusPending    Status = "pending"
	StatusRunning    Status = "running"
	StatusStopped    Status = "stopped"
	StatusTerminated Status = "terminated"
	StatusUnknown    Status = "unknown"
)

// ParseStatus maps a RunPod desiredStatus string onto the closed Status set.
func ParseStatus(raw string) Status {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING", "CREATED":
		return StatusPending
	case "RUNNING":
		return StatusRunning
	case "EXITED", "STOPPED":
		return StatusStopped
	case "TERMINATED", "DEAD":
		return StatusTerminated
	default:
		return StatusUnknown
	}
}

type Pod struct {
	ID            PodID
	Name          string
	Status        Status
	GPUType       string
	CostPerHour   float64
	UptimeSeconds int
	CreatedAt     time.Time
}

func (p Pod) Running() bool {
	return p.Status == StatusRunning
}

// TotalRunningCost sums the hourly cost of all running pods.
func TotalRunningCost(pods []Pod) float64 {
	var total float64
	for _, pod := range pods {
		if pod.Running() {
			total += pod.CostPerHour
		}
	}
	return total
}

// RunningPods filters pods down to those currently running.
func RunningPods(pods []Pod) []Pod {
	running := make([]Pod, 0, len(pods))
	for _, pod := range pods {
		if pod.Running() {
			running = append(running, pod)
		}
	}
	return running
}

// Transition records a pod status change observed between two monitor polls.
// A pod that vanished from the listing is reported with To == StatusTerminated;
// a pod seen for the first time is reported with From == StatusUnknown.
type Transition struct {
	Pod  Pod
	From Status
	To   Status
}

// ValidPodID reports whether id looks like a RunPod pod id: non-empty,
// alphanumeric and hyphens only. Checked before any API call built from
// callback payloads.
func ValidPodID(id PodID) bool {
	if id == "" {
		return false
	}
	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

const podNameMaxPrefix = 20

// GeneratePodName derives a pod name from the template name and the current
// time. Truncation counts runes so multibyte template names are never cut
// mid-character. Collisions within the same minute are accepted.
func GeneratePodName(templateName string, now time.Time) string {
	prefix := templateName
	if runes := []rune(prefix); len(runes) > podNameMaxPrefix {
		prefix = string(runes[:podNameMaxPrefix])
	}
	prefix = strings.ReplaceAll(prefix, " ", "-")
	return prefix + "-" + now.Format("0102-1504")
}
