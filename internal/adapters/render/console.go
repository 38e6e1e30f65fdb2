package render

import (
	"fmt"
	"io"
	"math"
	"mixed-route-service/internal/domain"
)

// ConsoleReport writes the plain-text plan report, one block per vehicle.
func ConsoleReport(w io.Writer, routes []domain.RouteSummary) error {
	for i, r := range routes {
		if _, err := fmt.Fprintf(w, "Vehicle %d:\n", i+1); err != nil {
			return err
		}

		for k, s := range r.Steps {
			_, err := fmt.Fprintf(w, "step %d, %s - volume: %v, location: %v, %v\n",
				k+1, s.ID, s.Volume, s.Position.Lat, s.Position.Lng)
			if err != nil {
				return err
			}
		}

		_, err := fmt.Fprintf(w, "total duration: %v seconds, total_volume: %v\n\n",
			math.Round(r.DurationSeconds*100)/100, math.Round(r.DeliveriesVolume*100)/100)
		if err != nil {
			return err
		}
	}

	return nil
}
