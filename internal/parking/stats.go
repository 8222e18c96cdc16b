package parking

// LotStats are the public counters of the single lot. Reserved spots are
// unavailable capacity, so Occupied already includes them.
type LotStats struct {
	Total       int `json:"total"`
	Free        int `json:"free"`
	Occupied    int `json:"occupied"`
	RawOccupied int `json:"rawOccupied"`
	Reserved    int `json:"reserved"`
}

// Stats counts the spots by status.
func Stats(spots []Spot) LotStats {
	var occupied, reserved int
	for _, s := range spots {
		switch s.Status {
		case StatusOccupied:
			occupied++
		case StatusReserved:
			reserved++
		}
	}
	total := len(spots)
	return LotStats{
		Total:       total,
		Free:        total - occupied - reserved,
		Occupied:    occupied + reserved,
		RawOccupied: occupied,
		Reserved:    reserved,
	}
}
