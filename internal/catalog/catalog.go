// Package catalog holds the static route and slot-template reference data.
// Everything here is loaded at process start and never mutated.
package catalog

import (
	"github.com/adriaway/booking/internal/domain"
)

var routes = []domain.Route{
	{
		ID:                         "blue-lagoon-trogir",
		NameEN:                     "Blue Lagoon & Trogir",
		NameHR:                     "Plava Laguna i Trogir",
		DescriptionEN:              "Experience the crystal clear waters of Blue Lagoon and visit the historic UNESCO town of Trogir",
		DescriptionHR:              "Doživite kristalno čisto more Plave Lagune i posjetite povijesni UNESCO grad Trogir",
		Duration:                   300,
		Capacity:                   10,
		BasePrice:                  70,
		PrivateTourPrice:           550,
		DiscountedPrivateTourPrice: 400,
		Stops:                      []string{"Trogir", "Blue Lagoon", "Maslinica"},
	},
	{
		ID:                         "blue-cave-vis",
		NameEN:                     "Blue Cave & Island Vis",
		NameHR:                     "Modra Špilja i Otok Vis",
		DescriptionEN:              "Full day adventure visiting the magical Blue Cave, Stiniva bay, and beautiful islands",
		DescriptionHR:              "Cjelodnevna avantura s posjetom čarobnoj Modroj špilji, uvali Stiniva i prekrasnim otocima",
		Duration:                   660,
		Capacity:                   10,
		BasePrice:                  130,
		PrivateTourPrice:           1200,
		DiscountedPrivateTourPrice: 1100,
		Stops:                      []string{"Blue Cave", "Stiniva bay", "Budikovac Island", "Pakleni Island", "Hvar"},
	},
	{
		ID:                         "swimming-horses-brac",
		NameEN:                     "Swimming with Horses - Brač",
		NameHR:                     "Plivanje s Konjima - Brač",
		DescriptionEN:              "Unique experience swimming with horses on the beautiful island of Brač",
		DescriptionHR:              "Jedinstveni doživljaj plivanja s konjima na prekrasnom otoku Braču",
		Duration:                   300,
		Capacity:                   10,
		BasePrice:                  500,
		PrivateTourPrice:           500,
		DiscountedPrivateTourPrice: 400,
		Stops:                      []string{"Brač"},
	},
	{
		ID:                         "hvar-blue-lagoon",
		NameEN:                     "Hvar & Blue Lagoon",
		NameHR:                     "Hvar i Plava Laguna",
		DescriptionEN:              "Combine the glamour of Hvar with the natural beauty of Blue Lagoon",
		DescriptionHR:              "Spojite glamur Hvara s prirodnim ljepotama Plave Lagune",
		Duration:                   600,
		Capacity:                   10,
		BasePrice:                  900,
		PrivateTourPrice:           900,
		DiscountedPrivateTourPrice: 800,
		Stops:                      []string{"Hvar", "Blue Lagoon"},
	},
	{
		ID:                         "split-airport-transfer",
		NameEN:                     "Split - Airport Transfer",
		NameHR:                     "Split - Zračna Luka Transfer",
		DescriptionEN:              "Quick and comfortable boat transfer to Split Airport",
		DescriptionHR:              "Brzi i udobni transfer brodom do zračne luke Split",
		Duration:                   15,
		Capacity:                   10,
		BasePrice:                  150,
		DiscountedPrivateTourPrice: 150,
		Stops:                      []string{"Split", "Airport"},
	},
	{
		ID:                         "split-trogir-transfer",
		NameEN:                     "Split - Trogir Transfer",
		NameHR:                     "Split - Trogir Transfer",
		DescriptionEN:              "Scenic boat transfer between Split and Trogir",
		DescriptionHR:              "Slikoviti transfer brodom između Splita i Trogira",
		Duration:                   20,
		Capacity:                   10,
		BasePrice:                  180,
		DiscountedPrivateTourPrice: 180,
		Stops:                      []string{"Split", "Trogir"},
	},
	{
		ID:                         "split-supetar-transfer",
		NameEN:                     "Split - Supetar (Brač) Transfer",
		NameHR:                     "Split - Supetar (Brač) Transfer",
		DescriptionEN:              "Direct boat transfer to Supetar on Brač island",
		DescriptionHR:              "Direktni transfer brodom do Supetra na otoku Braču",
		Duration:                   20,
		Capacity:                   10,
		BasePrice:                  200,
		DiscountedPrivateTourPrice: 200,
		Stops:                      []string{"Split", "Supetar"},
	},
	{
		ID:                         "split-milna-transfer",
		NameEN:                     "Split - Milna (Brač) Transfer",
		NameHR:                     "Split - Milna (Brač) Transfer",
		DescriptionEN:              "Comfortable boat transfer to Milna on Brač island",
		DescriptionHR:              "Udobni transfer brodom do Milne na otoku Braču",
		Duration:                   25,
		Capacity:                   10,
		BasePrice:                  200,
		DiscountedPrivateTourPrice: 200,
		Stops:                      []string{"Split", "Milna"},
	},
	{
		ID:                         "split-bol-transfer",
		NameEN:                     "Split - Bol (Brač) Transfer",
		NameHR:                     "Split - Bol (Brač) Transfer",
		DescriptionEN:              "Fast boat transfer to Bol on Brač island",
		DescriptionHR:              "Brzi transfer brodom do Bola na otoku Braču",
		Duration:                   60,
		Capacity:                   10,
		BasePrice:                  350,
		DiscountedPrivateTourPrice: 350,
		Stops:                      []string{"Split", "Bol"},
	},
	{
		ID:                         "split-stomorska-transfer",
		NameEN:                     "Split - Stomorska (Šolta) Transfer",
		NameHR:                     "Split - Stomorska (Šolta) Transfer",
		DescriptionEN:              "Direct boat transfer to Stomorska on Šolta island",
		DescriptionHR:              "Direktni transfer brodom do Stomorske na otoku Šolti",
		Duration:                   25,
		Capacity:                   10,
		BasePrice:                  200,
		DiscountedPrivateTourPrice: 200,
		Stops:                      []string{"Split", "Stomorska"},
	},
	{
		ID:                         "split-rogac-transfer",
		NameEN:                     "Split - Rogač (Šolta) Transfer",
		NameHR:                     "Split - Rogač (Šolta) Transfer",
		DescriptionEN:              "Quick boat transfer to Rogač on Šolta island",
		DescriptionHR:              "Brzi transfer brodom do Rogača na otoku Šolti",
		Duration:                   25,
		Capacity:                   10,
		BasePrice:                  200,
		DiscountedPrivateTourPrice: 200,
		Stops:                      []string{"Split", "Rogač"},
	},
	{
		ID:                         "split-hvar-transfer",
		NameEN:                     "Split/Airport - Hvar Transfer",
		NameHR:                     "Split/Zračna Luka - Hvar Transfer",
		DescriptionEN:              "Luxury boat transfer to Hvar island",
		DescriptionHR:              "Luksuzni transfer brodom do otoka Hvara",
		Duration:                   60,
		Capacity:                   10,
		BasePrice:                  350,
		DiscountedPrivateTourPrice: 350,
		Stops:                      []string{"Split", "Airport", "Hvar"},
	},
}

// SlotTemplate is a fixed (route, time-of-day, duration, type, capacity)
// tuple from which concrete dated slots are generated.
type SlotTemplate struct {
	ID          string
	RouteID     string
	StartHour   int
	StartMinute int
	Duration    int // minutes
	Type        domain.TourType
	Seats       int
}

var templates = []SlotTemplate{
	{ID: "blue-lagoon-morning-group", RouteID: "blue-lagoon-trogir", StartHour: 9, Duration: 300, Type: domain.TourGroup, Seats: 10},
	{ID: "blue-lagoon-afternoon-group", RouteID: "blue-lagoon-trogir", StartHour: 14, Duration: 300, Type: domain.TourGroup, Seats: 10},
	{ID: "blue-cave-group", RouteID: "blue-cave-vis", StartHour: 7, Duration: 660, Type: domain.TourGroup, Seats: 10},
	{ID: "blue-lagoon-morning-private", RouteID: "blue-lagoon-trogir", StartHour: 9, Duration: 300, Type: domain.TourPrivate, Seats: 10},
	{ID: "blue-lagoon-afternoon-private", RouteID: "blue-lagoon-trogir", StartHour: 14, Duration: 300, Type: domain.TourPrivate, Seats: 10},
	{ID: "blue-cave-private", RouteID: "blue-cave-vis", StartHour: 7, Duration: 660, Type: domain.TourPrivate, Seats: 10},
	{ID: "swimming-horses-morning-private", RouteID: "swimming-horses-brac", StartHour: 9, Duration: 300, Type: domain.TourPrivate, Seats: 10},
	{ID: "swimming-horses-afternoon-private", RouteID: "swimming-horses-brac", StartHour: 14, Duration: 300, Type: domain.TourPrivate, Seats: 10},
	{ID: "hvar-blue-lagoon-private", RouteID: "hvar-blue-lagoon", StartHour: 8, Duration: 600, Type: domain.TourPrivate, Seats: 10},
}

var groupRouteIDs = map[string]bool{
	"blue-lagoon-trogir": true,
	"blue-cave-vis":      true,
}

var privateRouteIDs = map[string]bool{
	"blue-lagoon-trogir":   true,
	"blue-cave-vis":        true,
	"swimming-horses-brac": true,
	"hvar-blue-lagoon":     true,
}

// Routes returns the full catalog in canonical order.
func Routes() []domain.Route {
	return routes
}

// Templates returns the slot templates in generation order.
func Templates() []SlotTemplate {
	return templates
}

func RouteByID(id string) (domain.Route, bool) {
	for _, r := range routes {
		if r.ID == id {
			return r, true
		}
	}
	return domain.Route{}, false
}

// RoutesFor returns the routes bookable under the given tour type: two
// scheduled routes for group tours, four for private charters, and every
// transfer route for taxi boats.
func RoutesFor(t domain.TourType) []domain.Route {
	var out []domain.Route
	for _, r := range routes {
		switch t {
		case domain.TourGroup:
			if groupRouteIDs[r.ID] {
				out = append(out, r)
			}
		case domain.TourPrivate:
			if privateRouteIDs[r.ID] {
				out = append(out, r)
			}
		case domain.TourTaxi:
			if r.IsTransfer() {
				out = append(out, r)
			}
		}
	}
	return out
}

// TransferRoutes returns every taxi transfer route in canonical order.
func TransferRoutes() []domain.Route {
	var out []domain.Route
	for _, r := range routes {
		if r.IsTransfer() {
			out = append(out, r)
		}
	}
	return out
}

// Price computes the total price in euros for a booking: group tours are
// per-person, private charters use the discounted flat price, taxi boats
// use the route's flat base price.
func Price(r domain.Route, t domain.TourType, passengers int) int {
	switch t {
	case domain.TourGroup:
		return r.BasePrice * passengers
	case domain.TourPrivate:
		return r.DiscountedPrivateTourPrice
	case domain.TourTaxi:
		return r.BasePrice
	default:
		return 0
	}
}
