package handler

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/99minutos/cargo-tracking/internal/core/domain"
)

const geoJSONContentType = "application/geo+json"

// toRouteFeatureCollection renders the travelled route as a LineString plus
// one Point per origin, destination and current location. GeoJSON positions
// are [longitude, latitude].
func toRouteFeatureCollection(s *domain.Shipment) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	// A LineString needs at least two positions.
	if len(s.Route) >= 2 {
		line := make(orb.LineString, len(s.Route))
		for i, l := range s.Route {
			line[i] = toPoint(l)
		}
		f := geojson.NewFeature(line)
		f.Properties["kind"] = "route"
		f.Properties["shipment_id"] = s.ShipmentID
		f.Properties["waypoints"] = len(s.Route)
		fc.Append(f)
	}

	fc.Append(pointFeature("origin", s.Origin))
	fc.Append(pointFeature("destination", s.Destination))

	current := pointFeature("current", s.CurrentLocation)
	current.Properties["status"] = string(s.Status)
	fc.Append(current)

	return fc
}

func pointFeature(kind string, l domain.Location) *geojson.Feature {
	f := geojson.NewFeature(toPoint(l))
	f.Properties["kind"] = kind
	f.Properties["name"] = l.Name
	f.Properties["timestamp"] = l.Timestamp.UTC()
	return f
}

func toPoint(l domain.Location) orb.Point {
	return orb.Point{l.Coordinates.Longitude, l.Coordinates.Latitude}
}
