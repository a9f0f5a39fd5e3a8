package overpass

// element is one entry of an Overpass API response. Only node elements carry
// lat/lon directly; ways and relations are ignored by this client.
type element struct {
	Type string            `json:"type"`
	ID   int64             `json:"id"`
	Lat  float64           `json:"lat"`
	Lon  float64           `json:"lon"`
	Tags map[string]string `json:"tags"`
}

type response struct {
	Elements []element `json:"elements"`
}
