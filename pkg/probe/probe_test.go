package probe

import (
	"context"
	"errors"
	"testing"
	"time"

	"nanonav/pkg/db"
	"nanonav/pkg/geo"
	"nanonav/pkg/sim"
	"nanonav/pkg/site"
)

func TestRun(t *testing.T) {
	probes := []Probe{
		{
			Name: "Success Probe",
			Check: func(ctx context.Context) error {
				return nil
			},
			Critical: true,
		},
		{
			Name: "Failure Probe (Non-Critical)",
			Check: func(ctx context.Context) error {
				return errors.New("minor issue")
			},
		},
		{
			Name: "Slow Probe",
			Check: func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			},
			Timeout: 10 * time.Millisecond,
		},
	}

	results := Run(context.Background(), probes)

	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[0].Error != nil {
		t.Errorf("Expected success probe to pass, got error: %v", results[0].Error)
	}
	if results[1].Error == nil {
		t.Error("Expected failure probe to fail")
	}
	if !errors.Is(results[2].Error, context.DeadlineExceeded) {
		t.Errorf("Expected slow probe to time out, got %v", results[2].Error)
	}
}

func TestAnalyzeResults(t *testing.T) {
	tests := []struct {
		name    string
		results []Result
		wantErr bool
	}{
		{
			name: "All Pass",
			results: []Result{
				{Probe: Probe{Name: "P1", Critical: true}, Error: nil},
			},
			wantErr: false,
		},
		{
			name: "Critical Failure",
			results: []Result{
				{Probe: Probe{Name: "P1", Critical: true}, Error: errors.New("fail")},
			},
			wantErr: true,
		},
		{
			name: "Non-Critical Failure",
			results: []Result{
				{Probe: Probe{Name: "P1", Critical: false}, Error: errors.New("fail")},
			},
			wantErr: false,
		},
		{
			name: "Mixed Failure",
			results: []Result{
				{Probe: Probe{Name: "P1", Critical: false}, Error: errors.New("fail")},
				{Probe: Probe{Name: "P2", Critical: true}, Error: errors.New("fail")},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := AnalyzeResults(tt.results)
			if (err != nil) != tt.wantErr {
				t.Errorf("AnalyzeResults() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDatabase(t *testing.T) {
	d, err := db.Init(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	p := Database(d)
	if !p.Critical {
		t.Error("database probe must be critical")
	}
	if err := p.Check(context.Background()); err != nil {
		t.Errorf("open db: %v", err)
	}

	d.Close()
	if err := p.Check(context.Background()); err == nil {
		t.Error("closed db must fail")
	}
}

func TestCatalog(t *testing.T) {
	noILS := func() *site.Catalog {
		r1 := site.NewRunway(site.RunwaySpec{ID: "RWY 090", Heading: 90}, site.DefaultDefaults)
		r2 := site.NewRunway(site.RunwaySpec{ID: "RWY 270", Threshold: geo.Point{Lon: 0.02}, Heading: 270}, site.DefaultDefaults)
		af, err := site.NewAirfield("Grass", r1, r2)
		if err != nil {
			t.Fatal(err)
		}
		c, err := site.NewCatalog(af)
		if err != nil {
			t.Fatal(err)
		}
		return c
	}
	empty, err := site.NewCatalog()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		catalog *site.Catalog
		want    error
	}{
		{"Default", site.DefaultCatalog(), nil},
		{"Empty", empty, ErrEmptyCatalog},
		{"NoILS", noILS(), ErrNoILS},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Catalog(tt.catalog).Check(context.Background())
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

type stateClient struct{ state sim.State }

func (c stateClient) GetTelemetry(ctx context.Context) (sim.Telemetry, error) {
	return sim.Telemetry{}, nil
}
func (c stateClient) GetState() sim.State { return c.state }
func (c stateClient) Close() error        { return nil }

func TestSimulator(t *testing.T) {
	if err := Simulator(stateClient{sim.StateInactive}).Check(context.Background()); err != nil {
		t.Errorf("inactive sim should pass: %v", err)
	}
	err := Simulator(stateClient{sim.StateDisconnected}).Check(context.Background())
	if !errors.Is(err, sim.ErrNotConnected) {
		t.Errorf("got %v, want ErrNotConnected", err)
	}
}
