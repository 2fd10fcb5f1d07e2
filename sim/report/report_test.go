package report

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"testing"

	"github.com/restaurant-sim/restaurant-sim/sim"
)

func drainedSimulator(t *testing.T) *sim.Simulator {
	t.Helper()
	s, err := sim.NewSimulator(sim.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Run()
	return s
}

func TestWriteCustomers(t *testing.T) {
	s := drainedSimulator(t)

	var buf bytes.Buffer
	if err := WriteCustomers(&buf, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != len(s.CompletedIDs)+1 {
		t.Fatalf("got %d rows, want header + %d customers", len(rows), len(s.CompletedIDs))
	}
	if rows[0][0] != "customer_id" || rows[0][7] != "route" {
		t.Errorf("unexpected header: %v", rows[0])
	}

	// Rows follow completion order and reference real customers.
	for i, id := range s.CompletedIDs {
		row := rows[i+1]
		if row[0] != strconv.Itoa(id) {
			t.Fatalf("row %d: customer id %s, want %d", i+1, row[0], id)
		}
		if row[7] == "" {
			t.Errorf("row %d: empty route for customer %d", i+1, id)
		}
	}
}

func TestWriteStations(t *testing.T) {
	s := drainedSimulator(t)

	var buf bytes.Buffer
	if err := WriteStations(&buf, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != len(s.Stations)+1 {
		t.Fatalf("got %d rows, want header + %d stations", len(rows), len(s.Stations))
	}

	names := s.Config().StationNames()
	for i, st := range s.Stations {
		row := rows[i+1]
		if row[1] != names[i] {
			t.Errorf("row %d: name %s, want %s", i+1, row[1], names[i])
		}
		if row[2] != strconv.Itoa(st.ServerCount) {
			t.Errorf("row %d: servers %s, want %d", i+1, row[2], st.ServerCount)
		}
		rho, err := strconv.ParseFloat(row[3], 64)
		if err != nil || rho < 0 || rho > 1 {
			t.Errorf("row %d: utilization %s not a fraction in [0,1]", i+1, row[3])
		}
	}
}

func TestWriteCustomers_NoCompletions(t *testing.T) {
	s, err := sim.NewSimulator(sim.DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Initialize()

	var buf bytes.Buffer
	if err := WriteCustomers(&buf, s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("got %d rows, want header only", len(rows))
	}
}
