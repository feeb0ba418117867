package domain

// Item is a directory record resolving an item name to its canonical code,
// unit of measure and active status. The directory's unit is authoritative
// and overwrites whatever unit a caller supplies.
type Item struct {
	Name   string
	Code   string
	Unit   string
	Active bool
}
