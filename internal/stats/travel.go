package stats

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// EarthRadiusMiles is the mean Earth radius used for great-circle distance
const EarthRadiusMiles = 3958.8

// Location is an arena position in decimal degrees
type Location struct {
	Lat float64 `yaml:"lat" json:"lat"`
	Lon float64 `yaml:"lon" json:"lon"`
}

// Haversine returns the great-circle distance between a and b in miles
func Haversine(a, b Location) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * EarthRadiusMiles * math.Asin(math.Sqrt(h))
}

// Locations is an immutable team to arena table
type Locations struct {
	byTeam map[string]Location
}

// NewLocations copies the given table
func NewLocations(table map[string]Location) Locations {
	byTeam := make(map[string]Location, len(table))
	for team, loc := range table {
		byTeam[team] = loc
	}
	return Locations{byTeam: byTeam}
}

// Lookup returns the team's arena
func (l Locations) Lookup(team string) (Location, bool) {
	loc, ok := l.byTeam[team]
	return loc, ok
}

// Distance returns the away team's travel to the home arena in miles, or 0
// when either team is unknown.
func (l Locations) Distance(home, away string) float64 {
	h, ok := l.byTeam[home]
	if !ok {
		return 0
	}
	a, ok := l.byTeam[away]
	if !ok {
		return 0
	}
	return Haversine(a, h)
}

// Len returns the number of teams in the table
func (l Locations) Len() int {
	return len(l.byTeam)
}

// LoadLocations reads a YAML mapping of team to {lat, lon}
func LoadLocations(path string) (Locations, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Locations{}, fmt.Errorf("failed to read locations file: %w", err)
	}

	var table map[string]Location
	if err := yaml.Unmarshal(data, &table); err != nil {
		return Locations{}, fmt.Errorf("failed to parse locations file: %w", err)
	}
	for team, loc := range table {
		if loc.Lat < -90 || loc.Lat > 90 || loc.Lon < -180 || loc.Lon > 180 {
			return Locations{}, fmt.Errorf("location for %s out of range: %+v", team, loc)
		}
	}
	return NewLocations(table), nil
}

// DefaultLocations returns the built-in NBA arena table keyed by canonical abbreviation
func DefaultLocations() Locations {
	return NewLocations(map[string]Location{
		"ATL":  {33.7573, -84.3963},
		"BKN":  {40.6853, -73.9742},
		"BOS":  {42.3662, -71.0621},
		"CHA":  {35.2251, -80.8392},
		"CHI":  {41.8807, -87.6742},
		"CLE":  {41.4965, -81.6882},
		"DAL":  {32.7905, -96.8103},
		"DEN":  {39.7487, -105.0077},
		"DET":  {42.3410, -83.0550},
		"GS":   {37.7680, -122.3877},
		"HOU":  {29.7508, -95.3621},
		"IND":  {39.7640, -86.1555},
		"LAC":  {34.0430, -118.2673},
		"LAL":  {34.0430, -118.2673},
		"MEM":  {35.1382, -90.0505},
		"MIA":  {25.7814, -80.1870},
		"MIL":  {43.0436, -87.9170},
		"MIN":  {44.9795, -93.2760},
		"NO":   {29.9490, -90.0821},
		"NY":   {40.7505, -73.9934},
		"OKC":  {35.4634, -97.5151},
		"ORL":  {28.5392, -81.3839},
		"PHI":  {39.9012, -75.1720},
		"PHX":  {33.4457, -112.0712},
		"POR":  {45.5316, -122.6668},
		"SA":   {29.4271, -98.4375},
		"SAC":  {38.5803, -121.4996},
		"TOR":  {43.6435, -79.3791},
		"UTAH": {40.7683, -111.9011},
		"WSH":  {38.8981, -77.0209},
	})
}
