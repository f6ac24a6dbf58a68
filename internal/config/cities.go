package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// City maps a city name to its CSV file.
type City struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// CityTable is the read-only list of cities the explorer knows about.
type CityTable struct {
	cities []City
}

type cityTableFile struct {
	Cities []City `yaml:"cities"`
}

// DefaultCityTable returns the three bundled city datasets.
func DefaultCityTable() CityTable {
	return NewCityTable([]City{
		{Name: "chicago", File: "chicago.csv"},
		{Name: "new york city", File: "new_york_city.csv"},
		{Name: "washington", File: "washington.csv"},
	})
}

// NewCityTable builds a table from the given cities. Names are lower-cased.
func NewCityTable(cities []City) CityTable {
	out := make([]City, len(cities))
	for i, c := range cities {
		out[i] = City{Name: strings.ToLower(strings.TrimSpace(c.Name)), File: c.File}
	}
	return CityTable{cities: out}
}

// LoadCityTable reads a YAML city table such as:
//
//	cities:
//	  - name: chicago
//	    file: chicago.csv
func LoadCityTable(path string) (CityTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CityTable{}, fmt.Errorf("failed to read cities file: %w", err)
	}

	var f cityTableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return CityTable{}, fmt.Errorf("error parsing cities file: %w", err)
	}
	if len(f.Cities) == 0 {
		return CityTable{}, fmt.Errorf("cities file %s lists no cities", path)
	}

	seen := make(map[string]bool, len(f.Cities))
	for _, c := range f.Cities {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" || c.File == "" {
			return CityTable{}, fmt.Errorf("cities file %s: every city needs a name and a file", path)
		}
		if seen[name] {
			return CityTable{}, fmt.Errorf("cities file %s: duplicate city %q", path, name)
		}
		seen[name] = true
	}

	return NewCityTable(f.Cities), nil
}

// Lookup finds a city by name, case-insensitively.
func (t CityTable) Lookup(name string) (City, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, c := range t.cities {
		if c.Name == name {
			return c, true
		}
	}
	return City{}, false
}

// Names returns the city names in table order.
func (t CityTable) Names() []string {
	names := make([]string, len(t.cities))
	for i, c := range t.cities {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of cities.
func (t CityTable) Len() int {
	return len(t.cities)
}
