package stream

import (
	"context"
	"math"
	"math/rand"
	"net/http"
	"time"

	"FundPulse/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// FundSeed is the starting state for one simulated fund.
type FundSeed struct {
	SchemeCode string
	FundName   string
	NAV        float64
	Volatility float64 // fractional daily volatility
}

// SeedProvider supplies the fund list the simulator randomizes around.
type SeedProvider interface {
	StreamSeeds(ctx context.Context) ([]FundSeed, error)
}

// fallbackSeeds is used when no NAV history is available yet.
var fallbackSeeds = []FundSeed{
	{SchemeCode: "MF001", FundName: "Bluechip Equity Growth Fund", NAV: 245.50, Volatility: 0.011},
	{SchemeCode: "MF006", FundName: "Corporate Bond Fund", NAV: 28.44, Volatility: 0.003},
	{SchemeCode: "MF010", FundName: "Balanced Advantage Fund", NAV: 76.20, Volatility: 0.008},
}

const (
	minEventDelay = 500 * time.Millisecond
	maxEventDelay = 3 * time.Second
)

// Simulator pushes fabricated market events over WebSocket. The events are
// synthetic demo traffic; they never touch the analysis pipeline.
type Simulator struct {
	upgrader websocket.Upgrader
	provider SeedProvider
	hub      *Hub
	log      *logger.Logger
}

func NewSimulator(provider SeedProvider, log *logger.Logger) *Simulator {
	return &Simulator{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		provider: provider,
		hub:      NewHub(),
		log:      log,
	}
}

type event struct {
	Type      string      `json:"type"`
	Timestamp string      `json:"timestamp"`
	Data      interface{} `json:"data"`
}

type navUpdate struct {
	SchemeCode string  `json:"scheme_code"`
	FundName   string  `json:"fund_name"`
	NAV        float64 `json:"nav"`
	Change     float64 `json:"change"` // percentage
	Zscore     float64 `json:"zscore"`
}

type anomalyEvent struct {
	navUpdate
	Severity  string `json:"severity"`
	Direction string `json:"direction"`
	Message   string `json:"message"`
}

type marketSummary struct {
	FundsTracked int     `json:"funds_tracked"`
	Advancing    int     `json:"advancing"`
	Declining    int     `json:"declining"`
	AvgChange    float64 `json:"avg_change"` // percentage
}

// Handle upgrades the connection and streams events until the client leaves.
func (s *Simulator) Handle(c echo.Context) error {
	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// Drain client frames so we notice the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	seeds := s.loadSeeds(ctx)
	s.log.Info("stream client connected", logger.Int("funds", len(seeds)))
	s.run(ctx, conn, seeds)
	s.log.Debug("stream client disconnected")
	return nil
}

// HandleSubscribe registers the connection with the hub, filtered to one
// scheme code, and receives every matching event from the active stream
// loops. The client may send "unsubscribe" to leave cleanly.
func (s *Simulator) HandleSubscribe(c echo.Context) error {
	schemeCode := c.Param("scheme_code")

	conn, err := s.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	s.hub.Register(conn, schemeCode)
	defer s.hub.Unregister(conn)
	s.log.Info("stream subscriber connected", logger.String("scheme_code", schemeCode))

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			break
		}
		if string(msg) == "unsubscribe" {
			break
		}
	}
	s.log.Debug("stream subscriber disconnected", logger.String("scheme_code", schemeCode))
	return nil
}

func (s *Simulator) loadSeeds(ctx context.Context) []FundSeed {
	if s.provider != nil {
		seeds, err := s.provider.StreamSeeds(ctx)
		if err != nil {
			s.log.Warn("stream seed load failed", logger.Error(err))
		} else if len(seeds) > 0 {
			return seeds
		}
	}
	return fallbackSeeds
}

func (s *Simulator) run(ctx context.Context, conn *websocket.Conn, seeds []FundSeed) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	navs := make(map[string]float64, len(seeds))
	changes := make(map[string]float64, len(seeds))
	for _, f := range seeds {
		navs[f.SchemeCode] = f.NAV
	}

	timer := time.NewTimer(eventDelay(rng))
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		ev, scheme := s.nextEvent(rng, seeds, navs, changes)
		if err := conn.WriteJSON(ev); err != nil {
			return
		}
		s.hub.Broadcast(scheme, ev)
		timer.Reset(eventDelay(rng))
	}
}

func (s *Simulator) nextEvent(rng *rand.Rand, seeds []FundSeed, navs, changes map[string]float64) (event, string) {
	now := time.Now().UTC().Format(time.RFC3339)
	roll := rng.Float64()

	switch {
	case roll < 0.60:
		u := s.tick(rng, seeds, navs, changes, false)
		return event{Type: "nav_update", Timestamp: now, Data: u}, u.SchemeCode
	case roll < 0.85:
		u := s.tick(rng, seeds, navs, changes, true)
		severity := "medium"
		if math.Abs(u.Zscore) > 3 {
			severity = "high"
		}
		direction := "up"
		message := "Unusual upward movement"
		if u.Change < 0 {
			direction = "down"
			message = "Unusual downward movement"
		}
		return event{Type: "anomaly", Timestamp: now, Data: anomalyEvent{
			navUpdate: u,
			Severity:  severity,
			Direction: direction,
			Message:   message,
		}}, u.SchemeCode
	default:
		return event{Type: "market_summary", Timestamp: now, Data: summarize(changes, len(seeds))}, ""
	}
}

// tick advances one random fund's NAV. Anomalous ticks use an outsized move.
func (s *Simulator) tick(rng *rand.Rand, seeds []FundSeed, navs, changes map[string]float64, anomalous bool) navUpdate {
	f := seeds[rng.Intn(len(seeds))]

	vol := f.Volatility
	if vol <= 0 {
		vol = 0.01
	}

	change := rng.NormFloat64() * vol
	if anomalous {
		change = vol * (4 + rng.Float64()*6)
		if rng.Float64() < 0.5 {
			change = -change
		}
	}

	nav := navs[f.SchemeCode] * (1 + change)
	if nav < 0.01 {
		nav = 0.01
	}
	navs[f.SchemeCode] = nav
	changes[f.SchemeCode] = change

	// Crude score: move relative to the fund's own volatility.
	zscore := change / vol

	return navUpdate{
		SchemeCode: f.SchemeCode,
		FundName:   f.FundName,
		NAV:        round2(nav),
		Change:     round2(change * 100),
		Zscore:     round2(zscore),
	}
}

func summarize(changes map[string]float64, tracked int) marketSummary {
	advancing, declining := 0, 0
	sum := 0.0
	for _, ch := range changes {
		if ch > 0 {
			advancing++
		} else if ch < 0 {
			declining++
		}
		sum += ch
	}
	avg := 0.0
	if len(changes) > 0 {
		avg = sum / float64(len(changes)) * 100
	}
	return marketSummary{
		FundsTracked: tracked,
		Advancing:    advancing,
		Declining:    declining,
		AvgChange:    round2(avg),
	}
}

func eventDelay(rng *rand.Rand) time.Duration {
	span := maxEventDelay - minEventDelay
	return minEventDelay + time.Duration(rng.Int63n(int64(span)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
