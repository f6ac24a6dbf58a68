// Package app provides the interactive shell: a Bubble Tea model that walks
// the user through filter selection, statistics and the raw data viewer.
package app

import (
	"github.com/mgkapitany/pdsnd-github/internal/models"
	"github.com/mgkapitany/pdsnd-github/internal/prompt"
)

// State identifies where the shell is in a filter pass.
type State int

const (
	// StateCity asks for the city.
	StateCity State = iota
	// StateConfirmCity asks the user to confirm the city.
	StateConfirmCity
	// StateFilterMode asks which time filters to apply.
	StateFilterMode
	// StateMonth asks for the month.
	StateMonth
	// StateDay asks for the weekday.
	StateDay
	// StateLoading waits for the dataset to load.
	StateLoading
	// StateMenu offers the statistics menu.
	StateMenu
	// StateReport waits for a report or raw page to be computed.
	StateReport
	// StateRawMore asks whether to show another raw page.
	StateRawMore
	// StateAnother asks whether to examine something else.
	StateAnother
	// StateRestart asks whether to start a new filter pass.
	StateRestart
	// StateDone is terminal.
	StateDone
)

// String returns the string representation of the State.
func (s State) String() string {
	switch s {
	case StateCity:
		return "city"
	case StateConfirmCity:
		return "confirm-city"
	case StateFilterMode:
		return "filter-mode"
	case StateMonth:
		return "month"
	case StateDay:
		return "day"
	case StateLoading:
		return "loading"
	case StateMenu:
		return "menu"
	case StateReport:
		return "report"
	case StateRawMore:
		return "raw-more"
	case StateAnother:
		return "another"
	case StateRestart:
		return "restart"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Busy reports whether the shell is waiting on work rather than input.
func (s State) Busy() bool {
	return s == StateLoading || s == StateReport
}

// Session is the selection made during one filter pass plus the raw
// viewer position.
type Session struct {
	City    string
	Mode    string
	Month   string
	Day     string
	RawNext int
}

// Reset clears the selection for a new pass.
func (s *Session) Reset() {
	*s = Session{}
}

// SetMode records the filter mode and defaults the filters it skips.
// It returns the next state to prompt for.
func (s *Session) SetMode(mode string) State {
	s.Mode = mode
	s.Month = models.FilterAll
	s.Day = models.FilterAll

	switch mode {
	case prompt.ModeMonth, prompt.ModeBoth:
		return StateMonth
	case prompt.ModeDay:
		return StateDay
	default:
		return StateLoading
	}
}

// SetMonth records the month and returns the next state.
func (s *Session) SetMonth(month string) State {
	s.Month = month
	if s.Mode == prompt.ModeBoth {
		return StateDay
	}
	return StateLoading
}

// Filter returns the selection as a dataset filter.
func (s Session) Filter() models.Filter {
	month, day := s.Month, s.Day
	if month == "" {
		month = models.FilterAll
	}
	if day == "" {
		day = models.FilterAll
	}
	return models.NewFilter(s.City, month, day)
}
