// Package teams normalizes provider team abbreviations and maps them to provider ids.
package teams

import (
	"sort"
	"strings"
)

// Directory is an immutable alias and id table
type Directory struct {
	aliases map[string]string
	ids     map[string]int
}

// NewDirectory copies the given alias and id tables
func NewDirectory(aliases map[string]string, ids map[string]int) Directory {
	d := Directory{
		aliases: make(map[string]string, len(aliases)),
		ids:     make(map[string]int, len(ids)),
	}
	for k, v := range aliases {
		d.aliases[strings.ToUpper(k)] = v
	}
	for k, v := range ids {
		d.ids[k] = v
	}
	return d
}

// NBA returns the default directory for the NBA stats provider
func NBA() Directory {
	return NewDirectory(
		map[string]string{
			"GSW": "GS",
			"NOP": "NO",
			"NYK": "NY",
			"SAS": "SA",
			"UTA": "UTAH",
			"WAS": "WSH",
		},
		map[string]int{
			"ATL": 1610612737, "BOS": 1610612738, "BKN": 1610612751, "CHA": 1610612766,
			"CHI": 1610612741, "CLE": 1610612739, "DAL": 1610612742, "DEN": 1610612743,
			"DET": 1610612765, "GS": 1610612744, "HOU": 1610612745, "IND": 1610612754,
			"LAC": 1610612746, "LAL": 1610612747, "MEM": 1610612763, "MIA": 1610612748,
			"MIL": 1610612749, "MIN": 1610612750, "NO": 1610612740, "NY": 1610612752,
			"OKC": 1610612760, "ORL": 1610612753, "PHI": 1610612755, "PHX": 1610612756,
			"POR": 1610612757, "SAC": 1610612758, "SA": 1610612759, "TOR": 1610612761,
			"UTAH": 1610612762, "WSH": 1610612764,
		},
	)
}

// Normalize maps a provider abbreviation to the canonical one
func (d Directory) Normalize(abbr string) string {
	a := strings.ToUpper(strings.TrimSpace(abbr))
	if canonical, ok := d.aliases[a]; ok {
		return canonical
	}
	return a
}

// ID returns the provider id for a team, accepting aliases
func (d Directory) ID(abbr string) (int, bool) {
	id, ok := d.ids[d.Normalize(abbr)]
	return id, ok
}

// Teams lists canonical abbreviations in sorted order
func (d Directory) Teams() []string {
	out := make([]string, 0, len(d.ids))
	for team := range d.ids {
		out = append(out, team)
	}
	sort.Strings(out)
	return out
}
