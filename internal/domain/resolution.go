package domain

// Documented option lists for dataset resolution fields. Values outside
// these lists are advisory problems, not hard failures: the portal's field
// guidance calls them "typical ranges".

// HorizontalResolutionRanges lists the accepted horizontal resolution options.
var HorizontalResolutionRanges = []string{
	"Point Resolution",
	"< 1 meter",
	"1 meter - 30 meters",
	"30 meters - 100 meters",
	"100 meters - 250 meters",
	"250 meters - 500 meters",
	"500 meters - 1 km",
	"1 km - 10 km",
	"10 km - 50 km",
	"50 km - 100 km",
	"100 km - 250 km",
	"250 km - 500 km",
	"500 km - 1000 km",
	"> 1000 km",
	"Varies",
}

// VerticalResolutionRanges lists the accepted vertical resolution options.
var VerticalResolutionRanges = []string{
	"Point Resolution",
	"< 1 meter",
	"1 meter - 100 meters",
	"> 100 meters",
	"Not Applicable",
	"Varies",
}

// TemporalResolutionRanges lists the accepted temporal resolution options.
var TemporalResolutionRanges = []string{
	"Hourly - Sub-hourly",
	"Sub-daily",
	"Daily",
	"Weekly",
	"Monthly",
	"Annually",
	"Sub-annual",
	"Multi-annual",
	"One-time",
	"Varies",
}

func inList(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// TypicalHorizontalRange reports whether v is in the documented option list.
func TypicalHorizontalRange(v string) bool { return inList(HorizontalResolutionRanges, v) }

// TypicalVerticalRange reports whether v is in the documented option list.
func TypicalVerticalRange(v string) bool { return inList(VerticalResolutionRanges, v) }

// TypicalTemporalRange reports whether v is in the documented option list.
func TypicalTemporalRange(v string) bool { return inList(TemporalResolutionRanges, v) }
