package domain

// Observation is a single eBird sighting. It is never persisted; it flows
// straight from the eBird API to the response.
type Observation struct {
	Species      string
	SpeciesCode  string
	Location     string
	LocationID   string
	Date         string
	Lat          float64
	Lng          float64
	HowMany      *int
	ObserverName *string
}

// SpeciesEntry is one row of the eBird taxonomy kept in the species cache.
type SpeciesEntry struct {
	CommonName     string `json:"comName"`
	ScientificName string `json:"sciName"`
	SpeciesCode    string `json:"speciesCode"`
}

// SpeciesSuggestion is an autocomplete match against the taxonomy.
type SpeciesSuggestion struct {
	SpeciesName    string
	SpeciesCode    string
	ScientificName string
}
