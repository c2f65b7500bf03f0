// Package podtext renders pods, alerts, and wizard prompts into the plain
// Markdown text sent to Telegram.
package podtext

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/bnema/podwatch/internal/domain"
)

// Uptime renders a second count as "Xh Ym Zs", or "N/A" for zero.
func Uptime(seconds int) string {
	if seconds <= 0 {
		return "N/A"
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, secs)
}

// Pod renders one pod as an indented detail block.
func Pod(pod domain.Pod) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  - ID: `%s`\n", pod.ID)
	fmt.Fprintf(&b, "  - Name: %s\n", orNA(pod.Name))
	fmt.Fprintf(&b, "  - GPU: %s\n", orNA(pod.GPUType))
	fmt.Fprintf(&b, "  - Status: %s\n", pod.Status)
	fmt.Fprintf(&b, "  - Uptime: %s\n", Uptime(pod.UptimeSeconds))
	if !pod.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "  - Created: %s\n", humanize.Time(pod.CreatedAt))
	}
	fmt.Fprintf(&b, "  - Hourly cost: $%.4f", pod.CostPerHour)
	return b.String()
}

// PodList renders a headed list of pod detail blocks.
func PodList(header string, pods []domain.Pod) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d\n\n", header, len(pods))
	for _, pod := range pods {
		b.WriteString(Pod(pod))
		b.WriteString("\n\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// StatusReport renders the running pods with their combined hourly cost.
func StatusReport(running []domain.Pod) string {
	if len(running) == 0 {
		return "No pods are currently running."
	}

	var b strings.Builder
	b.WriteString(PodList("Running pods", running))
	fmt.Fprintf(&b, "\n\nTotal hourly cost: $%.4f", domain.TotalRunningCost(running))
	return b.String()
}

// Alert renders a status transition for the monitor's push notifications.
func Alert(tr domain.Transition) string {
	var b strings.Builder
	b.WriteString("[RunPod alert]\n\n")
	fmt.Fprintf(&b, "%s (`%s`)\n", orNA(tr.Pod.Name), tr.Pod.ID)
	if tr.From == domain.StatusUnknown {
		fmt.Fprintf(&b, "New pod: %s", tr.To)
	} else {
		fmt.Fprintf(&b, "Status: %s -> %s", tr.From, tr.To)
	}
	if tr.To == domain.StatusRunning {
		fmt.Fprintf(&b, "\nHourly cost: $%.4f", tr.Pod.CostPerHour)
	}
	return b.String()
}

// CreateSummary renders the confirmation screen for a wizard session in the
// confirm step.
func CreateSummary(session domain.Session) string {
	volume := "none"
	if session.VolumeID != "" {
		volume = session.VolumeName
		if volume == "" {
			volume = string(session.VolumeID)
		}
	}
	spec := session.CreateSpec()

	var b strings.Builder
	b.WriteString("Create pod?\n\n")
	fmt.Fprintf(&b, "Name: %s\n", session.PodName)
	fmt.Fprintf(&b, "Template: %s\n", session.Template.Label())
	fmt.Fprintf(&b, "GPU: %s\n", session.GPUType)
	fmt.Fprintf(&b, "Network volume: %s\n", volume)
	fmt.Fprintf(&b, "Container disk: %dGB\n", spec.ContainerDiskGB)
	fmt.Fprintf(&b, "Ports: %s", strings.Join(spec.Ports, ","))
	return b.String()
}

// CreateResult renders the post-creation message.
func CreateResult(podID domain.PodID, name, gpuType string) string {
	return fmt.Sprintf(
		"Pod created.\n\nID: `%s`\nName: %s\nGPU: %s\n\nCheck it with /status.",
		podID, name, gpuType,
	)
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
