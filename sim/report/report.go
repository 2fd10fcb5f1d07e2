// Package report exports simulation results as CSV for offline analysis.
// It reads a drained Simulator's public state; nothing here mutates the
// engine.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/restaurant-sim/restaurant-sim/sim"
)

// WriteCustomers writes one row per completed customer, in completion
// order.
func WriteCustomers(w io.Writer, s *sim.Simulator) error {
	cw := csv.NewWriter(w)
	header := []string{
		"customer_id", "arrival_min", "departure_min",
		"wait_min", "service_min", "system_min", "orders", "route",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write customer header: %w", err)
	}

	names := s.Config().StationNames()
	for _, id := range s.CompletedIDs {
		c := s.Customers[id]
		row := []string{
			strconv.Itoa(c.ID),
			formatMinutes(c.ArrivalTime),
			formatMinutes(c.DepartureTime),
			formatMinutes(c.WaitTime),
			formatMinutes(c.ServiceTime),
			formatMinutes(c.SystemTime()),
			strconv.Itoa(c.Orders),
			routeString(c.Route, names),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write customer %d: %w", c.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStations writes one row per station with its final occupancy
// accounting.
func WriteStations(w io.Writer, s *sim.Simulator) error {
	cw := csv.NewWriter(w)
	header := []string{
		"station_id", "name", "servers", "utilization", "total_served", "still_queued",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write station header: %w", err)
	}

	stats := s.GetStatistics()
	for i, st := range s.Stations {
		row := []string{
			strconv.Itoa(st.ID),
			st.Name,
			strconv.Itoa(st.ServerCount),
			strconv.FormatFloat(stats.Utilization[i], 'f', 4, 64),
			strconv.Itoa(st.TotalServed()),
			strconv.Itoa(st.QueueLen()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write station %d: %w", st.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatMinutes(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// routeString renders a route as station names joined by ';', falling back
// to ids for out-of-range entries.
func routeString(route []int, names []string) string {
	parts := make([]string, len(route))
	for i, id := range route {
		if id >= 0 && id < len(names) {
			parts[i] = names[id]
		} else {
			parts[i] = strconv.Itoa(id)
		}
	}
	return strings.Join(parts, ";")
}
