package destinations

import (
	"time"
)

// Source table column names. The flight-hours column keeps its historical
// London-specific name; it holds hours from whatever origin the table was built for.
const (
	ColumnCity        = "city"
	ColumnCountry     = "country"
	ColumnIATA        = "iata"
	ColumnAvgTempCFeb = "avg_temp_c_feb"
	ColumnHasBeach    = "has_beach"
	ColumnHasOldTown  = "has_old_town"
	ColumnFlightHours = "flight_hours_from_LON"
)

// Columns lists every column the source table must carry, in coercion order.
var Columns = []string{
	ColumnCity,
	ColumnCountry,
	ColumnIATA,
	ColumnAvgTempCFeb,
	ColumnFlightHours,
	ColumnHasBeach,
	ColumnHasOldTown,
}

// RawRecord is one data row of the source table keyed by column name.
type RawRecord struct {
	// Row is the 1-based data row number; the header is not counted.
	Row int

	// Line is the physical line the row starts on.
	Line int

	Fields map[string]string
}

// Record is a fully normalized destination.
type Record struct {
	City                  string  `json:"city" validate:"required"`
	Country               string  `json:"country" validate:"required"`
	IATA                  string  `json:"iata" validate:"len=3,alpha"`
	AvgTempCFeb           float64 `json:"avg_temp_c_feb"`
	HasBeach              bool    `json:"has_beach"`
	HasOldTown            bool    `json:"has_old_town"`
	FlightHoursFromOrigin float64 `json:"flight_hours_from_LON" validate:"gte=0"`
}

// Index is the artifact read by the planning service.
type Index struct {
	GeneratedAt  time.Time `json:"generated_at"` // always UTC
	Count        int       `json:"count"`
	Destinations []Record  `json:"destinations"`
}
