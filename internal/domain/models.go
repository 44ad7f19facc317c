package domain

import "time"

// FlightDetails holds the per-leg metadata of a ticket.
type FlightDetails struct {
	FlightNumber  string     `json:"flightNumber"`
	DepartureTime *time.Time `json:"departureTime"`
	ArrivalTime   *time.Time `json:"arrivalTime"`
	Origin        *string    `json:"origin"`
	Destination   *string    `json:"destination"`
	Price         *float64   `json:"price"`
}

// Passenger is a single traveller listed on a flight leg.
type Passenger struct {
	Name           string  `json:"name"`
	PassportNumber string  `json:"passportNumber"`
	SeatNumber     *string `json:"seatNumber"`
	MealPreference *string `json:"mealPreference"`
}

// FlightRecord is one flight leg together with the passengers booked on it.
// A record is only valid with a flight number and at least one passenger.
type FlightRecord struct {
	FlightDetails    FlightDetails `json:"flightDetails"`
	PassengerDetails []Passenger   `json:"passengerDetails"`
}

// Valid reports whether the record satisfies the emission invariant.
func (r *FlightRecord) Valid() bool {
	return r.FlightDetails.FlightNumber != "" && len(r.PassengerDetails) > 0
}

// ExtractionPayload is the result of one extraction run over a single document.
type ExtractionPayload struct {
	FlightTickets []FlightRecord `json:"flightTickets"`
	RawText       string         `json:"rawText"`
	Lines         []string       `json:"lines"`
	Confidence    float64        `json:"confidence"`

	Strategy Strategy   `json:"-"`
	Source   SourceType `json:"-"`
}
