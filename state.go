package tileview

// ViewState is the part of the viewport worth persisting, for example across
// a configuration change. It marshals to JSON.
type ViewState struct {
	Scale       float64     `json:"scale"`
	Center      Point       `json:"center"`
	Orientation Orientation `json:"orientation"`
}
