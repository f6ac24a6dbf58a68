package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mgkapitany/pdsnd-github/internal/models"
	"github.com/mgkapitany/pdsnd-github/internal/prompt"
	"github.com/mgkapitany/pdsnd-github/internal/services"
	"github.com/mgkapitany/pdsnd-github/internal/ui/report"
)

// loadDatasetCmd returns a command that loads and filters a city file.
func loadDatasetCmd(mgr *services.Manager, filter models.Filter) tea.Cmd {
	return func() tea.Msg {
		summary, err := mgr.Load(filter)
		return DatasetLoadedMsg{
			Filter:  filter,
			Summary: summary,
			Error:   err,
		}
	}
}

// reportCmd returns a command that computes and renders the report for a
// menu selection.
func reportCmd(mgr *services.Manager, selection string) tea.Cmd {
	return func() tea.Msg {
		text, err := renderReport(mgr, selection)
		return ReportReadyMsg{
			Selection: selection,
			Text:      text,
			Error:     err,
		}
	}
}

func renderReport(mgr *services.Manager, selection string) (string, error) {
	switch selection {
	case prompt.MenuTime:
		s, err := mgr.TimeStats()
		if err != nil {
			return "", err
		}
		return report.TimeStats(s), nil

	case prompt.MenuStations:
		s, err := mgr.StationStats()
		if err != nil {
			return "", err
		}
		return report.StationStats(s), nil

	case prompt.MenuDuration:
		s, err := mgr.DurationStats()
		if err != nil {
			return "", err
		}
		return report.DurationStats(s), nil

	case prompt.MenuUsers:
		s, err := mgr.UserStats()
		if err != nil {
			return "", err
		}
		return report.UserStats(s), nil
	}
	return "", fmt.Errorf("unknown report selection %q", selection)
}

// rawPageCmd returns a command that fetches the raw data page at offset.
func rawPageCmd(mgr *services.Manager, offset int) tea.Cmd {
	return func() tea.Msg {
		page, err := mgr.RawPage(offset)
		return RawPageMsg{Page: page, Error: err}
	}
}

// subscribeToServicesCmd returns a command that subscribes to service events.
func subscribeToServicesCmd(mgr *services.Manager) tea.Cmd {
	ch, _ := mgr.Subscribe()
	return func() tea.Msg {
		return SubscriptionEventMsg{Channel: ch}
	}
}
