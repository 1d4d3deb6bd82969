package entity

// Airline is the display name of a carrier code.
type Airline struct {
	Code string
	Name string
}

// Timezone maps an IATA airport code to its IANA zone name.
type Timezone struct {
	AirportCode string
	AirportName string
	TzName      string
}
