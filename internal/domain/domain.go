// Package domain holds the closed vocabularies and geographic constants of
// the polar data portal: dataset categories, ISO topics, expedition types,
// the category→topic map, and the default bounding boxes used when a dataset
// mentions no specific location. These sets are fixed; AI output is validated
// against them, never the other way around.
package domain

// Field length ceilings for dataset metadata.
const (
	MaxTitleLen    = 220
	MaxAbstractLen = 1000
	MaxPurposeLen  = 1000
	MaxKeywords    = 10
)

// Valid expedition year range for the corpus.
const (
	MinYear = 1981
	MaxYear = 2036
)

// Expedition identifies one of the portal's expedition programmes.
type Expedition string

const (
	ExpeditionAntarctic     Expedition = "antarctic"
	ExpeditionArctic        Expedition = "arctic"
	ExpeditionSouthernOcean Expedition = "southern_ocean"
	ExpeditionHimalaya      Expedition = "himalaya"
)

// Expeditions lists all valid expedition type keys in display order.
var Expeditions = []Expedition{
	ExpeditionAntarctic,
	ExpeditionArctic,
	ExpeditionSouthernOcean,
	ExpeditionHimalaya,
}

// ExpeditionLabels maps expedition keys to their human-readable labels.
var ExpeditionLabels = map[Expedition]string{
	ExpeditionAntarctic:     "Antarctic",
	ExpeditionArctic:        "Arctic",
	ExpeditionSouthernOcean: "Southern Ocean",
	ExpeditionHimalaya:      "Himalayan",
}

// ExpeditionLabel returns the display label for an expedition type,
// falling back to "Polar" for unknown or empty values.
func ExpeditionLabel(e Expedition) string {
	if l, ok := ExpeditionLabels[e]; ok {
		return l
	}
	return "Polar"
}

// ValidExpedition reports whether e is one of the closed expedition keys.
func ValidExpedition(e Expedition) bool {
	_, ok := ExpeditionLabels[e]
	return ok
}

// ExpeditionAliases maps free-text region mentions to expedition keys.
// Keys must be lowercase.
var ExpeditionAliases = map[string]Expedition{
	"antarctic":      ExpeditionAntarctic,
	"antarctica":     ExpeditionAntarctic,
	"arctic":         ExpeditionArctic,
	"svalbard":       ExpeditionArctic,
	"southern ocean": ExpeditionSouthernOcean,
	"himalaya":       ExpeditionHimalaya,
	"himalayas":      ExpeditionHimalaya,
	"himalayan":      ExpeditionHimalaya,
}

// Categories lists the valid dataset category keys.
var Categories = []string{
	"agriculture",
	"atmosphere",
	"biological_classification",
	"biosphere",
	"climate_indicators",
	"cryosphere",
	"human_dimensions",
	"land_surface",
	"oceans",
	"paleoclimate",
	"solid_earth",
	"spectral_engineering",
	"sun_earth_interactions",
	"terrestrial_hydrosphere",
	"marine_science",
	"terrestrial_science",
	"wind_profiler_radar",
	"geotectonic_studies",
	"audio_signals",
}

// ISOTopics lists the valid ISO 19115 topic category keys.
var ISOTopics = []string{
	"climatologyMeteorologyAtmosphere",
	"oceans",
	"environment",
	"geoscientificInformation",
	"imageryBaseMapsEarthCover",
	"inlandWaters",
	"location",
	"boundaries",
	"biota",
	"economy",
	"elevation",
	"farming",
	"health",
	"intelligenceMilitary",
	"society",
	"structure",
	"transportation",
	"utilitiesCommunication",
}

// CategoryTopics maps each category key to its valid scientific sub-topics.
var CategoryTopics = map[string][]string{
	"agriculture": {"Agriculture", "Atmosphere", "Biological Classification", "Biosphere",
		"Climate Indicators", "Cryosphere", "Human Dimensions", "Land Surface",
		"Oceans", "Paleoclimate", "Solid Earth", "Spectral/Engineering",
		"Sun-Earth Interactions", "Terrestrial Hydrosphere", "Marine Science",
		"Terrestrial Science", "Wind Profiler Radar", "Geotectonic Studies", "Audio Signals"},
	"atmosphere": {"Aerosols", "Air Quality", "Altitude", "Atmospheric Chemistry",
		"Atmospheric Electricity", "Atmospheric Phenomena", "Atmospheric Pressure",
		"Atmospheric Radiation", "Atmospheric Temperature", "Atmospheric Water Vapor",
		"Atmospheric Winds", "Clouds", "Cryosphere", "Precipitation",
		"Wind Profiler Radar", "Atmospheric Ozone", "Ionosphere", "Global Electric Circuit"},
	"biological_classification": {"Animals/Invertebrates", "Animals/Vertebrates", "Bacteria/Archaea",
		"Cryosphere", "Fungi", "Plants", "Protists", "Viruses"},
	"biosphere": {"Aquatic Ecosystems", "Cryosphere", "Ecological Dynamics",
		"Terrestrial Ecosystems", "Vegetation", "Ocean/Lake Records"},
	"climate_indicators": {"Air Temperature Indices", "Cryosphere", "Drought/Precipitation Indices",
		"Humidity Indices", "Hydrologic/Ocean Indices", "Ocean/Sst Indices", "Teleconnections"},
	"cryosphere": {"Cryosphere", "Frozen Ground", "Glaciers/Ice Sheets", "Sea Ice", "Snow/Ice"},
	"human_dimensions": {"Attitudes/Preferences/Behavior", "Boundaries", "Cryosphere", "Economic Resources",
		"Environmental Impacts", "Habitat Conversion/Fragmentation", "Human Health",
		"Infrastructure", "Land Use/Land Cover", "Natural Hazards", "Population"},
	"land_surface": {"Cryosphere", "Erosion/Sedimentation", "Frozen Ground", "Geomorphology",
		"Land Temperature", "Land Use/Land Cover", "Landscape", "Soils",
		"Surface Radiative Properties", "Topography", "Neo-tectonics"},
	"oceans": {"Ocean/Lake Records", "Marine Biology", "Ocean Chemistry", "Hydrography",
		"Marine Environment Monitoring", "Ocean Acoustics", "Marine Sediments", "Aquatic Sciences",
		"Biogeochemistry", "Nutrients", "Chlorophyll A", "Paleoclimate Reconstructions",
		"Ice Core Records", "Land Records", "Cryosphere"},
	"paleoclimate": {"Cryosphere", "Geodetics/Gravity", "Geomagnetism", "Geomorphology",
		"Geothermal", "Natural Resources", "Rocks/Minerals", "Seismology",
		"Tectonics", "Volcanoes", "Geo-Chemistry", "Paleo"},
	"solid_earth": {"Cryosphere", "Gamma Ray", "Infrared Wavelengths", "Lidar", "Microwave",
		"Platform Characteristics", "Radar", "Radio Wave", "Sensor Characteristics",
		"Ultraviolet Wavelengths", "Visible Wavelengths", "X-Ray", "GPS",
		"Seismology", "Geomagnetism"},
	"spectral_engineering": {"Cryosphere", "Ionosphere/Magnetosphere Dynamics", "Solar Activity",
		"Solar Energetic Particle Flux", "Solar Energetic Particle Properties"},
	"sun_earth_interactions": {"Cryosphere", "Glaciers/Ice Sheets", "Ground Water", "Snow/Ice",
		"Surface Water", "Water Quality/Water Chemistry", "Polar Ionosphere"},
	"terrestrial_hydrosphere": {"Cryosphere"},
	"marine_science": {"Aquatic Sciences", "Bathymetry/Seafloor Topography", "Coastal Processes",
		"Cryosphere", "Marine Environment Monitoring", "Marine Geophysics",
		"Marine Sediments", "Marine Volcanism", "Ocean Acoustics", "Ocean Chemistry",
		"Ocean Circulation", "Ocean Heat Budget", "Ocean Optics", "Ocean Pressure",
		"Ocean Temperature", "Ocean Waves", "Ocean Winds", "Salinity/Density",
		"Sea Ice", "Sea Surface Topography", "Tides", "Water Quality", "Earth Science Test"},
	"terrestrial_science": {"Cryosphere"},
	"wind_profiler_radar":  {"Atmospheric Science"},
	"geotectonic_studies":  {"Surveying & Mapping"},
	"audio_signals":        {"Physical data"},
}

// ValidCategory reports whether key is a valid category.
func ValidCategory(key string) bool {
	_, ok := CategoryTopics[key]
	return ok
}

// ValidISOTopic reports whether key is a valid ISO topic.
func ValidISOTopic(key string) bool {
	for _, t := range ISOTopics {
		if t == key {
			return true
		}
	}
	return false
}

// ValidTopic reports whether topic belongs to category's sub-topic list.
func ValidTopic(category, topic string) bool {
	for _, t := range CategoryTopics[category] {
		if t == topic {
			return true
		}
	}
	return false
}
