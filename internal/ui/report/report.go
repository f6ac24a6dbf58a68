// Package report turns computed statistics into the lines printed to the
// terminal.
package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mgkapitany/pdsnd-github/internal/models"
	"github.com/mgkapitany/pdsnd-github/internal/ui/components"
	"github.com/mgkapitany/pdsnd-github/internal/ui/styles"
)

// Fixed lines printed by the shell.
const (
	Greeting        = "Hello! Let's explore some US Bike Share data!"
	Confirmed       = "Awesome - time to dive into the data!"
	NoTrips         = "No trips match the selected filters."
	GenderMissing   = "Gender is not available for this dataset."
	BirthYearAbsent = "Birth Year is not available for this dataset."
	EndOfData       = "End of data."
	Goodbye         = "Bye for now!"
)

const farewellArt = `
 o__         __o       __o
 ,>/_      _ V<_    _ V<_
(*)` + "`" + `(*)...(_)/(_)...(_)/(_)
`

const (
	chartWidth  = 48
	chartHeight = 8
	barWidth    = 50
)

// Separator returns the dashed line printed between sections.
func Separator() string {
	return styles.SeparatorStyle.Render(strings.Repeat("-", 40))
}

// Farewell returns the closing art and goodbye line.
func Farewell() string {
	return farewellArt + "\n" + styles.TitleStyle.Render(Goodbye)
}

// Summary describes a freshly loaded dataset.
func Summary(s models.DatasetSummary) string {
	if s.Rows == 0 {
		return fmt.Sprintf("The selected dataset contains 0 of %s observations. %s",
			humanize.Comma(int64(s.TotalRows)), NoTrips)
	}
	return fmt.Sprintf("The selected dataset contains %s observations, ranging from %s to %s.",
		humanize.Comma(int64(s.Rows)),
		s.First.Format("02 Jan, 2006"),
		s.Last.Format("02 Jan, 2006"),
	)
}

// Elapsed reports how long a computation took.
func Elapsed(d time.Duration) string {
	return fmt.Sprintf("This took %s seconds.", strconv.FormatFloat(d.Seconds(), 'f', 6, 64))
}

// heading renders "Calculating ..." titles.
func heading(title string) string {
	return styles.SubTitleStyle.Render("Calculating " + title + "...")
}

func section(title string, body []string, elapsed time.Duration) string {
	lines := make([]string, 0, len(body)+6)
	lines = append(lines, "", heading(title), "")
	lines = append(lines, body...)
	lines = append(lines, "", Elapsed(elapsed), Separator())
	return strings.Join(lines, "\n")
}

// TimeStats renders the most frequent times of travel.
func TimeStats(s models.TimeStats) string {
	if s.Empty() {
		return section("The Most Frequent Times of Travel", []string{NoTrips}, s.Elapsed)
	}

	body := []string{
		fmt.Sprintf("The most common month is %s.", styles.ValueStyle.Render(models.MonthName(s.Month))),
		fmt.Sprintf("The most common day of the week is %s.", styles.ValueStyle.Render(models.WeekdayName(s.Weekday))),
		fmt.Sprintf("The most common start hour is %s.", styles.ValueStyle.Render(strconv.Itoa(s.Hour))),
		"",
		components.RenderHourlyChart(s.HourlyCounts, chartWidth, chartHeight),
	}
	return section("The Most Frequent Times of Travel", body, s.Elapsed)
}

// StationStats renders the most popular stations and trip.
func StationStats(s models.StationStats) string {
	if s.Empty() {
		return section("The Most Popular Stations and Trip", []string{NoTrips}, s.Elapsed)
	}

	body := []string{
		fmt.Sprintf("The most popular starting station is %s (%s).",
			styles.ValueStyle.Render(s.StartStation), trips(s.StartCount)),
		fmt.Sprintf("The most popular final station is %s (%s).",
			styles.ValueStyle.Render(s.EndStation), trips(s.EndCount)),
		fmt.Sprintf("The most popular start-end trip is %s to %s (%s).",
			styles.ValueStyle.Render(s.TripStart), styles.ValueStyle.Render(s.TripEnd), trips(s.TripCount)),
	}
	return section("The Most Popular Stations and Trip", body, s.Elapsed)
}

// DurationStats renders the total and mean trip duration.
func DurationStats(s models.DurationStats) string {
	body := []string{
		fmt.Sprintf("The total travel time of the selected trips is %s.", styles.ValueStyle.Render(FormatSpan(s.Total()))),
	}
	if s.Trips == 0 {
		body = append(body, "The average travel time is not available. "+NoTrips)
	} else {
		body = append(body,
			fmt.Sprintf("The average travel time of the selected trips is %s.", styles.ValueStyle.Render(FormatSpan(s.Mean()))),
			fmt.Sprintf("Computed over %s.", trips(s.Trips)),
		)
	}
	return section("Trip Duration", body, s.Elapsed)
}

// UserStats renders user demographics. Gender and birth year sections fall
// back to a notice when the dataset does not carry them.
func UserStats(s models.UserStats) string {
	if s.Trips == 0 {
		return section("User Stats", []string{NoTrips}, s.Elapsed)
	}

	var body []string

	labels := make([]string, len(s.UserTypes))
	counts := make([]int, len(s.UserTypes))
	for i, vc := range s.UserTypes {
		body = append(body, fmt.Sprintf("There are %s users of the %s user type.",
			humanize.Comma(int64(vc.Count)), styles.ValueStyle.Render(vc.Value)))
		labels[i] = vc.Value
		counts[i] = vc.Count
	}
	body = append(body, "", components.RenderBarChart(counts, labels, barWidth), "")

	if s.HasGender {
		for _, vc := range s.Genders {
			body = append(body, fmt.Sprintf("There are %s users of the %s gender category.",
				humanize.Comma(int64(vc.Count)), styles.ValueStyle.Render(vc.Value)))
		}
		body = append(body, "", "The following is a Gender breakdown by User Type:", Breakdown(s.Breakdown), "")
	} else {
		body = append(body, GenderMissing, "")
	}

	switch {
	case !s.HasBirth:
		body = append(body, BirthYearAbsent)
	case s.BirthYears == nil:
		body = append(body, "No Birth Year values are recorded for the selected trips.")
	default:
		b := s.BirthYears
		body = append(body,
			fmt.Sprintf("The earliest Birth Year in this dataset is %d.", b.Earliest),
			fmt.Sprintf("The most recent Birth Year in this dataset is %d.", b.MostRecent),
			fmt.Sprintf("The most common Birth Year in this dataset is %d.", b.MostCommon),
		)
	}

	return section("User Stats", body, s.Elapsed)
}

// Breakdown renders the user type by gender cross-tabulation.
func Breakdown(cells []models.CrossCount) string {
	rows := make([][]string, len(cells))
	for i, c := range cells {
		rows[i] = []string{c.UserType, c.Gender, humanize.Comma(int64(c.Count))}
	}
	return components.RenderTable([]string{"User Type", "Gender", "Count"}, rows, 0)
}

// RawHeading is printed before the first raw data page.
func RawHeading() string {
	return "\n" + styles.SubTitleStyle.Render("Displaying Raw Data...") + "\n"
}

// RawPage renders one block of raw rows, truncated to width.
func RawPage(p models.RawPage, width int) string {
	if len(p.Trips) == 0 {
		return NoTrips
	}

	headers := []string{""}
	if p.Schema.HasRideID {
		headers = append(headers, "ride_id")
	}
	headers = append(headers, "Start Time")
	if p.Schema.HasEndTime {
		headers = append(headers, "End Time")
	}
	headers = append(headers, "Trip Duration", "Start Station", "End Station", "User Type")
	if p.Schema.HasGender {
		headers = append(headers, "Gender")
	}
	if p.Schema.HasBirthYear {
		headers = append(headers, "Birth Year")
	}

	rows := make([][]string, 0, len(p.Trips))
	for i, t := range p.Trips {
		row := []string{strconv.Itoa(p.Offset + i)}
		if p.Schema.HasRideID {
			row = append(row, t.RideID)
		}
		row = append(row, t.StartTime.Format("2006-01-02 15:04:05"))
		if p.Schema.HasEndTime {
			row = append(row, formatTime(t.EndTime))
		}
		row = append(row,
			strconv.FormatFloat(t.DurationSec, 'f', -1, 64),
			t.StartStation,
			t.EndStation,
			orMissing(t.UserType),
		)
		if p.Schema.HasGender {
			row = append(row, t.Gender)
		}
		if p.Schema.HasBirthYear {
			row = append(row, formatYear(t.BirthYear))
		}
		rows = append(rows, row)
	}

	out := components.RenderTable(headers, rows, width)
	out += "\n" + styles.HelpStyle.Render(fmt.Sprintf("Rows %d-%d of %s",
		p.Offset+1, p.Offset+len(p.Trips), humanize.Comma(int64(p.Total))))
	if !p.HasMore() {
		out += "\n" + EndOfData
	}
	return out
}

// FormatSpan renders a duration as "D days HH:MM:SS" with milliseconds
// appended when present.
func FormatSpan(d time.Duration) string {
	d = d.Round(time.Millisecond)
	neg := d < 0
	if neg {
		d = -d
	}

	days := d / (24 * time.Hour)
	d -= days * 24 * time.Hour
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second
	ms := (d - sec*time.Second) / time.Millisecond

	unit := "days"
	if days == 1 {
		unit = "day"
	}

	out := fmt.Sprintf("%d %s %02d:%02d:%02d", days, unit, h, m, sec)
	if ms > 0 {
		out += fmt.Sprintf(".%03d", ms)
	}
	if neg {
		out = "-" + out
	}
	return out
}

func trips(n int) string {
	if n == 1 {
		return "1 trip"
	}
	return humanize.Comma(int64(n)) + " trips"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func formatYear(y int) string {
	if y == 0 {
		return ""
	}
	return strconv.Itoa(y)
}

func orMissing(s string) string {
	if s == "" {
		return models.MissingValueLabel
	}
	return s
}
