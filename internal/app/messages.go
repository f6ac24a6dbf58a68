package app

import (
	"github.com/mgkapitany/pdsnd-github/internal/models"
	"github.com/mgkapitany/pdsnd-github/internal/services"
)

// DatasetLoadedMsg carries the result of loading a filtered dataset.
type DatasetLoadedMsg struct {
	Filter  models.Filter
	Summary models.DatasetSummary
	Error   error
}

// ReportReadyMsg carries a rendered statistics report.
type ReportReadyMsg struct {
	Selection string
	Text      string
	Error     error
}

// RawPageMsg carries one page of the raw data viewer.
type RawPageMsg struct {
	Page  models.RawPage
	Error error
}

// ErrorMsg represents an error to show the user.
type ErrorMsg struct {
	Error   error
	Context string
}

// SubscriptionEventMsg hands the service event channel to the model.
type SubscriptionEventMsg struct {
	Channel chan services.ServiceEvent
}
