package sim

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DistSpec parameterizes a service-time or order-count distribution.
type DistSpec struct {
	Type   string             `yaml:"type"`
	Params map[string]float64 `yaml:"params,omitempty"`
}

// StationConfig describes one service point.
type StationConfig struct {
	Name    string `yaml:"name"`
	Servers int    `yaml:"servers"`
	// VisitProbability is the chance a customer's route includes this
	// station. The first station must have probability 1.0; every
	// customer passes through it.
	VisitProbability float64 `yaml:"visit_probability"`
	// ServerCost is the equipment cost per server, consumed by the
	// optimizer. Zero is valid.
	ServerCost int      `yaml:"server_cost,omitempty"`
	Service    DistSpec `yaml:"service"`
}

// Config is the full input to one simulation run.
type Config struct {
	Seed           int64           `yaml:"seed"`
	HorizonMinutes float64         `yaml:"horizon_minutes"`
	ArrivalRate    float64         `yaml:"arrival_rate"` // customers per minute
	Orders         DistSpec        `yaml:"orders"`
	Stations       []StationConfig `yaml:"stations"`
}

// DefaultConfig returns the restaurant described in the project brief:
// mandatory cashiers followed by four optional stations, Poisson arrivals
// at 3 customers/min over an 8-hour day.
func DefaultConfig() Config {
	return Config{
		Seed:           42,
		HorizonMinutes: 480.0,
		ArrivalRate:    3.0,
		Orders: DistSpec{
			Type:   "binomial",
			Params: map[string]float64{"trials": 5, "p": 0.4},
		},
		Stations: []StationConfig{
			{
				Name:             "cashiers",
				Servers:          3,
				VisitProbability: 1.0,
				ServerCost:       500,
				Service:          DistSpec{Type: "exponential", Params: map[string]float64{"rate": 0.4}},
			},
			{
				Name:             "drinks",
				Servers:          2,
				VisitProbability: 0.9,
				ServerCost:       750,
				Service:          DistSpec{Type: "exponential", Params: map[string]float64{"rate": 1.333}},
			},
			{
				Name:             "fryer",
				Servers:          2,
				VisitProbability: 0.7,
				ServerCost:       200,
				Service:          DistSpec{Type: "normal", Params: map[string]float64{"mean": 3.0, "std_dev": 0.5}},
			},
			{
				Name:             "desserts",
				Servers:          1,
				VisitProbability: 0.25,
				ServerCost:       0,
				Service:          DistSpec{Type: "binomial", Params: map[string]float64{"trials": 5, "p": 0.6}},
			},
			{
				Name:             "chicken",
				Servers:          4,
				VisitProbability: 0.3,
				ServerCost:       100,
				Service:          DistSpec{Type: "geometric", Params: map[string]float64{"p": 0.1}},
			},
		},
	}
}

// LoadConfig reads and validates a Config from a YAML file. Unknown fields
// are rejected so typos cause errors instead of silent defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every parameter the engine depends on. It fails fast, at
// configuration time, so no distribution or routing error can surface
// mid-run.
func (c Config) Validate() error {
	if len(c.Stations) == 0 {
		return fmt.Errorf("config needs at least one station")
	}
	if c.ArrivalRate <= 0 {
		return fmt.Errorf("arrival_rate must be > 0, got %v", c.ArrivalRate)
	}
	if c.HorizonMinutes <= 0 {
		return fmt.Errorf("horizon_minutes must be > 0, got %v", c.HorizonMinutes)
	}
	if _, err := NewOrderCountSampler(c.Orders); err != nil {
		return fmt.Errorf("orders: %w", err)
	}
	if c.Stations[0].VisitProbability != 1.0 {
		return fmt.Errorf("station %q is the mandatory entry station and must have visit_probability 1.0, got %v",
			c.Stations[0].Name, c.Stations[0].VisitProbability)
	}
	if c.Stations[0].Servers < 1 {
		return fmt.Errorf("station %q must have at least one server, got %d",
			c.Stations[0].Name, c.Stations[0].Servers)
	}
	for i, st := range c.Stations {
		if st.Name == "" {
			return fmt.Errorf("station %d has no name", i)
		}
		// Zero servers is a valid count on optional stations: the optimizer
		// explores allocations that staff a zero-cost station with nobody.
		// Initialize warns when such a station is still reachable.
		if st.Servers < 0 {
			return fmt.Errorf("station %q: servers must be >= 0, got %d", st.Name, st.Servers)
		}
		if st.VisitProbability < 0 || st.VisitProbability > 1 {
			return fmt.Errorf("station %q: visit_probability must be in [0,1], got %v", st.Name, st.VisitProbability)
		}
		if st.ServerCost < 0 {
			return fmt.Errorf("station %q: server_cost must be >= 0, got %d", st.Name, st.ServerCost)
		}
		if _, err := NewServiceSampler(st.Service); err != nil {
			return fmt.Errorf("station %q: %w", st.Name, err)
		}
	}
	return nil
}

// WithServers returns a copy of the config with the per-station server
// counts replaced. The optimizer uses this to evaluate candidate
// allocations against an otherwise fixed scenario.
func (c Config) WithServers(counts []int) (Config, error) {
	if len(counts) != len(c.Stations) {
		return Config{}, fmt.Errorf("got %d server counts for %d stations", len(counts), len(c.Stations))
	}
	out := c
	out.Stations = make([]StationConfig, len(c.Stations))
	copy(out.Stations, c.Stations)
	for i, n := range counts {
		out.Stations[i].Servers = n
	}
	return out, nil
}

// TotalServers returns the headcount across all stations.
func (c Config) TotalServers() int {
	total := 0
	for _, st := range c.Stations {
		total += st.Servers
	}
	return total
}

// TotalCost returns the equipment cost of the configuration.
func (c Config) TotalCost() int {
	cost := 0
	for _, st := range c.Stations {
		cost += st.Servers * st.ServerCost
	}
	return cost
}

// StationNames returns the station names in station-id order.
func (c Config) StationNames() []string {
	names := make([]string, len(c.Stations))
	for i, st := range c.Stations {
		names[i] = st.Name
	}
	return names
}
