package stats

// Travel distance thresholds in miles
const (
	ShortTripMiles  = 500
	MediumTripMiles = 1500
	LongTripMiles   = 2500
)

// TravelBucket maps a travel distance to a fatigue bucket and its
// win-probability penalty in percentage points.
func TravelBucket(distance float64) (int, float64) {
	switch {
	case distance < ShortTripMiles:
		return 0, -0.5
	case distance < MediumTripMiles:
		return 1, -2.0
	case distance < LongTripMiles:
		return 2, -5.0
	default:
		return 3, -7.0
	}
}
