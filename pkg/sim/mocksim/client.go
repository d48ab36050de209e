// Package mocksim provides a simulator client that flies a scripted
// straight-in approach, for running without the game.
package mocksim

import (
	"context"
	"math"
	"sync"
	"time"

	"nanonav/pkg/geo"
	"nanonav/pkg/sim"
)

const (
	StageLoading  = "LOADING"
	StageApproach = "APPROACH"
	StageRollout  = "ROLLOUT"
	StageStopped  = "STOPPED"

	tickRateMs = 100

	// braking on the runway, m/s²
	rolloutDecel = 3.0
)

// Config holds the scripted approach for the mock vessel.
type Config struct {
	Body            geo.Body
	StartLat        float64
	StartLon        float64
	StartAlt        float64 // meters MSL
	StartHeading    float64 // degrees
	GroundSpeed     float64 // m/s
	DescentAngle    float64 // degrees below the horizon
	GroundElevation float64 // meters MSL
	Delay           time.Duration
}

// MockClient implements sim.Client.
type MockClient struct {
	mu         sync.Mutex
	tel        sim.Telemetry
	stage      string
	stageStart time.Time
	config     Config
	stopCh     chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup

	trackBuf *geo.TrackBuffer
	vsBuf    *sim.VerticalSpeedBuffer
}

// NewClient creates a mock client and starts its physics loop.
func NewClient(cfg Config) *MockClient {
	m := newClient(cfg, time.Now())
	m.wg.Add(1)
	go m.physicsLoop()
	return m
}

func newClient(cfg Config, now time.Time) *MockClient {
	if cfg.Body.Radius <= 0 {
		cfg.Body = geo.Kerbin
	}
	stage := StageApproach
	if cfg.Delay > 0 {
		stage = StageLoading
	}
	alt := math.Max(cfg.StartAlt, cfg.GroundElevation)
	return &MockClient{
		config:     cfg,
		stopCh:     make(chan struct{}),
		stage:      stage,
		stageStart: now,
		tel: sim.Telemetry{
			Latitude:    cfg.StartLat,
			Longitude:   cfg.StartLon,
			AltitudeMSL: alt,
			AltitudeAGL: alt - cfg.GroundElevation,
			Heading:     geo.NormalizeHeading(cfg.StartHeading),
			Track:       geo.NormalizeHeading(cfg.StartHeading),
			IsOnGround:  alt <= cfg.GroundElevation,
		},
		trackBuf: geo.NewTrackBuffer(5),
		vsBuf:    sim.NewVerticalSpeedBuffer(5 * time.Second),
	}
}

// GetTelemetry returns the current state of the mock vessel.
func (m *MockClient) GetTelemetry(ctx context.Context) (sim.Telemetry, error) {
	if err := ctx.Err(); err != nil {
		return sim.Telemetry{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tel, nil
}

// GetState reports inactive while the scenario is still loading.
func (m *MockClient) GetState() sim.State {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stage == StageLoading {
		return sim.StateInactive
	}
	return sim.StateActive
}

// Stage returns the current scenario stage.
func (m *MockClient) Stage() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stage
}

// Close stops the physics loop. It is safe to call more than once.
func (m *MockClient) Close() error {
	m.closeOnce.Do(func() { close(m.stopCh) })
	m.wg.Wait()
	return nil
}

func (m *MockClient) physicsLoop() {
	defer m.wg.Done()
	ticker := time.NewTicker(time.Duration(tickRateMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case now := <-ticker.C:
			m.step(float64(tickRateMs)/1000.0, now)
		}
	}
}

// step advances the scenario by dt seconds.
func (m *MockClient) step(dt float64, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.stage {
	case StageLoading:
		if now.Sub(m.stageStart) >= m.config.Delay {
			m.setStage(StageApproach, now)
		}
		return

	case StageApproach:
		m.tel.GroundSpeed = m.config.GroundSpeed
		m.move(dt)
		sink := m.config.GroundSpeed * math.Tan(m.config.DescentAngle*math.Pi/180) * dt
		m.tel.AltitudeMSL -= sink
		if m.tel.AltitudeMSL <= m.config.GroundElevation {
			m.tel.AltitudeMSL = m.config.GroundElevation
			m.setStage(StageRollout, now)
		}

	case StageRollout:
		m.tel.GroundSpeed = math.Max(0, m.tel.GroundSpeed-rolloutDecel*dt)
		m.move(dt)
		if m.tel.GroundSpeed == 0 {
			m.setStage(StageStopped, now)
		}

	case StageStopped:
		m.tel.GroundSpeed = 0
	}

	m.tel.AltitudeAGL = math.Max(0, m.tel.AltitudeMSL-m.config.GroundElevation)
	m.tel.IsOnGround = m.tel.AltitudeAGL <= 0
	m.tel.VerticalSpeed = m.vsBuf.Update(now, m.tel.AltitudeMSL)

	if m.tel.IsOnGround && m.tel.GroundSpeed == 0 {
		m.trackBuf.Reset()
		m.tel.Track = m.tel.Heading
		return
	}
	m.tel.Track = m.trackBuf.Push(m.tel.Position(), m.tel.Heading)
}

func (m *MockClient) move(dt float64) {
	dist := m.tel.GroundSpeed * dt
	if dist <= 0 {
		return
	}
	next := m.config.Body.DestinationPoint(m.tel.Position(), dist, m.tel.Heading)
	m.tel.Latitude = next.Lat
	m.tel.Longitude = next.Lon
}

func (m *MockClient) setStage(stage string, now time.Time) {
	m.stage = stage
	m.stageStart = now
}
