package transit

import (
	"io"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/jinzhu/copier"
)

type trailRow struct {
	VehicleID string    `csv:"vehicle_id"`
	Lat       float64   `csv:"lat"`
	Lon       float64   `csv:"lon"`
	SpeedKph  float64   `csv:"speed_kph"`
	Timestamp time.Time `csv:"timestamp"`
}

// WriteTrailCSV writes position records as CSV rows with a header line. Raw params are not included.
func WriteTrailCSV(w io.Writer, records []PositionRecord) error {
	rows := []trailRow{}
	if err := copier.Copy(&rows, &records); err != nil {
		return err
	}

	return gocsv.Marshal(rows, w)
}
