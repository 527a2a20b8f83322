package domain

// SchoolRecord is one row of the school locations dataset.
// Name identifies the school; uniqueness is assumed but not enforced.
type SchoolRecord struct {
	Name    string `json:"name" csv:"Name"`
	Address string `json:"address" csv:"Address"`
	Suburb  string `json:"suburb" csv:"Suburb"`
}
