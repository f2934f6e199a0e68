package seed

import "github.com/99minutos/cargo-tracking/internal/core/ports"

func point(name, address string, lat, lon float64) ports.LocationInput {
	return ports.LocationInput{
		Name:        name,
		Address:     address,
		Coordinates: ports.CoordinatesInput{Latitude: lat, Longitude: lon},
	}
}

var (
	losAngeles = point("Port of Los Angeles", "425 S Palos Verdes St, San Pedro, CA 90731, USA", 33.7361, -118.2639)
	newYork    = point("Port of New York", "1 Bay St, Staten Island, NY 10301, USA", 40.6892, -74.0445)
	phoenix    = point("Phoenix, Arizona", "Phoenix, AZ, USA", 33.4484, -112.0740)
	denver     = point("Denver, Colorado", "Denver, CO, USA", 39.7392, -104.9903)
	seattle    = point("Port of Seattle", "Seattle, WA, USA", 47.6062, -122.3321)
	miami      = point("Port of Miami", "Miami, FL, USA", 25.7617, -80.1918)
	chicago    = point("Chicago, Illinois", "Chicago, IL, USA", 41.8781, -87.6298)
	houston    = point("Port of Houston", "Houston, TX, USA", 29.7604, -95.3698)
	atlanta    = point("Atlanta, Georgia", "Atlanta, GA, USA", 33.7490, -84.3880)
	boston     = point("Port of Boston", "Boston, MA, USA", 42.3601, -71.0589)
)

// Demo returns the demo data set: one shipment mid-route, one early in its
// trip and one already delivered.
func Demo() []Sample {
	return []Sample{
		{
			ContainerID: "CONT001",
			Origin:      losAngeles,
			Destination: newYork,
			Cargo:       ports.CargoInput{Description: "Electronics and Computer Parts", Weight: 15000, Value: 250000, Category: "Electronics"},
			Carrier:     ports.CarrierInput{Name: "Global Shipping Co.", Contact: "+1-555-0123"},
			Stops: []Stop{
				{Location: phoenix, Status: "in_transit", Notes: "Passed through Phoenix distribution center"},
				{Location: denver, Status: "in_transit", Notes: "Currently at Denver hub"},
			},
		},
		{
			ContainerID: "CONT002",
			Origin:      seattle,
			Destination: miami,
			Cargo:       ports.CargoInput{Description: "Automotive Parts", Weight: 22000, Value: 180000, Category: "Automotive"},
			Carrier:     ports.CarrierInput{Name: "Express Logistics", Contact: "+1-555-0456"},
			Stops: []Stop{
				{Location: chicago, Status: "in_transit", Notes: "Arrived at Chicago sorting facility"},
			},
		},
		{
			ContainerID: "CONT003",
			Origin:      houston,
			Destination: boston,
			Cargo:       ports.CargoInput{Description: "Medical Equipment", Weight: 8500, Value: 500000, Category: "Medical"},
			Carrier:     ports.CarrierInput{Name: "MedTrans Logistics", Contact: "+1-555-0789"},
			Stops: []Stop{
				{Location: atlanta, Status: "in_transit", Notes: "Passed through Atlanta hub"},
				{Location: boston, Status: "delivered", Notes: "Successfully delivered to destination"},
			},
		},
	}
}
