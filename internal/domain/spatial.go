package domain

import "fmt"

// BBox is a geographic bounding box in decimal degrees.
type BBox struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// Valid reports whether the box is inside world bounds with correctly
// ordered edges (west ≤ east, south ≤ north).
func (b BBox) Valid() bool {
	return b.West >= -180 && b.West <= 180 &&
		b.East >= -180 && b.East <= 180 &&
		b.South >= -90 && b.South <= 90 &&
		b.North >= -90 && b.North <= 90 &&
		b.West <= b.East && b.South <= b.North
}

// Intersects reports whether two boxes overlap.
func (b BBox) Intersects(o BBox) bool {
	return b.West <= o.East && o.West <= b.East &&
		b.South <= o.North && o.South <= b.North
}

func (b BBox) String() string {
	return fmt.Sprintf("N:%.2f S:%.2f E:%.2f W:%.2f", b.North, b.South, b.East, b.West)
}

// ExpeditionBBox returns the default bounding box for an expedition type.
// Unknown expedition types get the whole world.
func ExpeditionBBox(e Expedition) BBox {
	if b, ok := expeditionBBoxes[e]; ok {
		return b
	}
	return BBox{North: 90, South: -90, East: 180, West: -180}
}

var expeditionBBoxes = map[Expedition]BBox{
	ExpeditionAntarctic:     {North: -60, South: -90, East: 180, West: -180},
	ExpeditionArctic:        {North: 90, South: 60, East: 180, West: -180},
	ExpeditionSouthernOcean: {North: -40, South: -78, East: 180, West: -180},
	ExpeditionHimalaya:      {North: 36, South: 26, East: 105, West: 73},
}

// Station is a well-known research location used to anchor coordinate
// extraction prompts.
type Station struct {
	Name string
	Lat  float64
	Lon  float64
}

// KnownStations lists the research stations and sites the coordinate
// extractor should recognise.
var KnownStations = []Station{
	{Name: "Maitri Station", Lat: -70.77, Lon: 11.73},
	{Name: "Bharati Station", Lat: -69.41, Lon: 76.19},
	{Name: "Larsemann Hills", Lat: -69.4, Lon: 76.2},
	{Name: "Schirmacher Oasis", Lat: -70.75, Lon: 11.72},
	{Name: "Himadri Station (Svalbard)", Lat: 78.92, Lon: 11.93},
	{Name: "IndARC mooring", Lat: 79.0, Lon: 12.0},
}

// ZoneType classifies the spatial extent of a dataset.
type ZoneType string

const (
	ZoneBoundingBox ZoneType = "bounding_box"
	ZoneGlobal      ZoneType = "global"
	ZonePoint       ZoneType = "point"
)

// ValidZoneType reports whether z is a recognised zone type.
func ValidZoneType(z ZoneType) bool {
	switch z {
	case ZoneBoundingBox, ZoneGlobal, ZonePoint:
		return true
	}
	return false
}

// ExpeditionLocation returns the location category and place label derived
// from the expedition type (e.g. himalaya → region/Himalaya).
func ExpeditionLocation(e Expedition) (category, place string) {
	switch e {
	case ExpeditionAntarctic:
		return "region", "Antarctica"
	case ExpeditionArctic:
		return "region", "Arctic"
	case ExpeditionSouthernOcean:
		return "ocean", "Southern Ocean"
	case ExpeditionHimalaya:
		return "region", "Himalaya"
	}
	return "", ""
}
