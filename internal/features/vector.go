// Package features builds point-in-time feature vectors for matchups.
package features

// FeatureVector is the fixed-order model input for one matchup.
// Every field is derived from games dated strictly before the matchup.
type FeatureVector struct {
	HomeNetRating  float64 `json:"home_net_rating"`
	AwayNetRating  float64 `json:"away_net_rating"`
	NetRatingDiff  float64 `json:"net_rating_diff"`
	HomeCourt      float64 `json:"home_court_flag"`
	TravelDistance float64 `json:"travel_distance"`
	TravelBucket   float64 `json:"travel_bucket"`
	HomeWinPct     float64 `json:"home_win_pct"`
	AwayWinPct     float64 `json:"away_win_pct"`
	WinPctDiff     float64 `json:"win_pct_diff"`
	HomeOffRating  float64 `json:"home_off_rating"`
	AwayOffRating  float64 `json:"away_off_rating"`
	OffRatingDiff  float64 `json:"off_rating_diff"`
}

type column struct {
	name  string
	value func(FeatureVector) float64
}

// columns fixes the order shared by training and inference
var columns = []column{
	{"home_net_rating", func(v FeatureVector) float64 { return v.HomeNetRating }},
	{"away_net_rating", func(v FeatureVector) float64 { return v.AwayNetRating }},
	{"net_rating_diff", func(v FeatureVector) float64 { return v.NetRatingDiff }},
	{"home_court_flag", func(v FeatureVector) float64 { return v.HomeCourt }},
	{"travel_distance", func(v FeatureVector) float64 { return v.TravelDistance }},
	{"travel_bucket", func(v FeatureVector) float64 { return v.TravelBucket }},
	{"home_win_pct", func(v FeatureVector) float64 { return v.HomeWinPct }},
	{"away_win_pct", func(v FeatureVector) float64 { return v.AwayWinPct }},
	{"win_pct_diff", func(v FeatureVector) float64 { return v.WinPctDiff }},
	{"home_off_rating", func(v FeatureVector) float64 { return v.HomeOffRating }},
	{"away_off_rating", func(v FeatureVector) float64 { return v.AwayOffRating }},
	{"off_rating_diff", func(v FeatureVector) float64 { return v.OffRatingDiff }},
}

// NumFeatures is the width of every vector
var NumFeatures = len(columns)

// FeatureNames returns the column names in vector order
func FeatureNames() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return names
}

// Values flattens the vector in column order
func (v FeatureVector) Values() []float64 {
	out := make([]float64, len(columns))
	for i, c := range columns {
		out[i] = c.value(v)
	}
	return out
}
