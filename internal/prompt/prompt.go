// Package prompt holds the questions the shell asks and the pure validation
// of the answers. Reading the line is left to the terminal UI.
package prompt

import (
	"strings"

	"github.com/mgkapitany/pdsnd-github/internal/models"
)

// Messages printed while prompting.
const (
	InvalidInput = "Your input was invalid - please try again."
	Interrupted  = "Please don't interrupt - no input taken."
)

// Question is a prompt with a closed set of case-insensitive answers.
type Question struct {
	Text     string
	Accepted []string
}

// Validate checks answer against the accepted values. It returns the
// lower-cased answer and whether it was accepted.
func (q Question) Validate(answer string) (string, bool) {
	return Validate(answer, q.Accepted)
}

// Validate trims and lower-cases input and reports whether it matches one
// of accepted, compared case-insensitively.
func Validate(input string, accepted []string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(input))
	if v == "" {
		return "", false
	}
	for _, a := range accepted {
		if strings.EqualFold(a, v) {
			return v, true
		}
	}
	return "", false
}

// IsAffirmative reports whether input is a yes. Anything else is a no.
func IsAffirmative(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "yes", "y":
		return true
	}
	return false
}

// Filter modes.
const (
	ModeMonth = "month"
	ModeDay   = "day"
	ModeBoth  = "both"
	ModeNone  = "none"
)

// Menu selections.
const (
	MenuTime     = "1"
	MenuStations = "2"
	MenuDuration = "3"
	MenuUsers    = "4"
	MenuRaw      = "5"
	MenuExit     = "6"
)

// MenuText lists what the menu offers.
const MenuText = `What would you like to examine today?
1 - Display statistics on the most frequent times of travel
2 - Display statistics on the most popular stations and trip
3 - Display statistics on the total and average trip duration
4 - Display statistics on bike share users
5 - Show me raw trip data
6 - Exit the program`

// Yes/no follow-up questions. These are open: any answer is accepted and
// read with IsAffirmative.
const (
	MoreRawData = "Would you like to see more? Enter yes or no. "
	Another     = "Would you like to go back and examine something else? Enter yes or no. "
	Restart     = "Would you like to restart and change your filters? Enter yes or no. "
)

// City asks for one of the configured cities.
func City(cities []string) Question {
	titled := make([]string, len(cities))
	for i, c := range cities {
		titled[i] = models.Title(c)
	}
	return Question{
		Text:     "Which city would you like to analyze? " + joinChoices(titled) + ": ",
		Accepted: cities,
	}
}

// ConfirmCity asks the user to confirm the chosen city.
func ConfirmCity(city string) Question {
	return Question{
		Text:     "Just to confirm - " + models.Title(city) + "? Enter y/n ",
		Accepted: []string{"y", "n"},
	}
}

// FilterMode asks which time filters to apply.
func FilterMode() Question {
	return Question{
		Text:     "Would you like to filter the data by month, day, or both? Type 'none' for no time filter: ",
		Accepted: []string{ModeMonth, ModeDay, ModeBoth, ModeNone},
	}
}

// Month asks for one of the months the datasets cover.
func Month() Question {
	return Question{
		Text:     "Which month? " + joinChoices(models.FilterMonths) + "? ",
		Accepted: models.FilterMonths,
	}
}

// Day asks for a weekday.
func Day() Question {
	days := weekdaysSundayFirst()
	return Question{
		Text:     "Which weekday? " + joinChoices(days) + "? ",
		Accepted: days,
	}
}

// Menu asks for a menu selection.
func Menu() Question {
	return Question{
		Text:     "Please enter your selection by the corresponding number e.g. 4=bike share users ",
		Accepted: []string{MenuTime, MenuStations, MenuDuration, MenuUsers, MenuRaw, MenuExit},
	}
}

// weekdaysSundayFirst orders the weekday names the way they are offered to
// the user. Indexing still follows models.WeekdayNames.
func weekdaysSundayFirst() []string {
	n := len(models.WeekdayNames)
	days := make([]string, 0, n)
	days = append(days, models.WeekdayNames[n-1])
	return append(days, models.WeekdayNames[:n-1]...)
}

// joinChoices renders "A, B, or C".
func joinChoices(choices []string) string {
	switch len(choices) {
	case 0:
		return ""
	case 1:
		return choices[0]
	case 2:
		return choices[0] + " or " + choices[1]
	}
	return strings.Join(choices[:len(choices)-1], ", ") + ", or " + choices[len(choices)-1]
}
