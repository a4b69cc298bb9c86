// Package api provides the twinspect HTTP surface: the dashboard pages
// rendered at bootstrap time and the JSON data API behind them.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/twinspect/twinspect/internal/cache"
	"github.com/twinspect/twinspect/internal/model"
	"github.com/twinspect/twinspect/internal/seed"
	"github.com/twinspect/twinspect/internal/simulator"
	"github.com/twinspect/twinspect/internal/store"

	_ "github.com/twinspect/twinspect/docs/swagger"
)

// dashboardTTL bounds how often the dashboard aggregates are recomputed.
// Polls inside the window get the memoized response.
const dashboardTTL = 2 * time.Minute

// randomAlertChance is the probability that an alert feed poll surfaces a
// fresh random alert, keeping the demo feed alive between real alerts.
const randomAlertChance = 0.10

// Server is the HTTP server for twinspect.
type Server struct {
	cache   *cache.Cache
	store   *store.Store
	webRoot string

	startedAt time.Time

	mu          sync.Mutex // guards rng and the dashboard memo
	rng         *rand.Rand
	dashCached  *dashboardResponse
	dashExpires time.Time

	mux    *http.ServeMux
	server *http.Server
}

// NewServer creates a new HTTP server serving pages from webRoot.
func NewServer(addr string, c *cache.Cache, s *store.Store, webRoot string) *Server {
	srv := &Server{
		cache:     c,
		store:     s,
		webRoot:   webRoot,
		startedAt: time.Now(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		mux:       http.NewServeMux(),
	}

	srv.registerRoutes()

	srv.server = &http.Server{
		Addr:         addr,
		Handler:      SecurityHeadersMiddleware(RecoveryMiddleware(CORSMiddleware(LoggingMiddleware(srv.mux)))),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return srv
}

// Run starts the HTTP server. It blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	base := baseURL(s.server.Addr)
	slog.Info("HTTP server starting",
		"addr", s.server.Addr,
		"dashboard", base+"/dashboard",
		"data_api", base+"/api/dashboard_data",
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Info("HTTP server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// baseURL turns a listen address into something an operator can click.
func baseURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%s", host, port)
}

func (s *Server) registerRoutes() {
	// Static assets, rendered into webRoot by the bootstrap ui patch step.
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir(s.webRoot))))

	// Full pages
	s.mux.HandleFunc("GET /", s.handleIndex)
	s.mux.HandleFunc("GET /dashboard", s.handleDashboardPage)
	s.mux.HandleFunc("GET /devices", s.handleDevicesPage)
	s.mux.HandleFunc("GET /analytics", s.handleAnalyticsPage)

	// JSON API
	s.mux.HandleFunc("GET /api/dashboard_data", s.handleDashboardData)
	s.mux.HandleFunc("GET /api/devices", s.handleDevices)
	s.mux.HandleFunc("GET /api/alerts", s.handleAlerts)
	s.mux.HandleFunc("GET /api/analytics", s.handleAnalytics)
	s.mux.HandleFunc("GET /api/system_status", s.handleSystemStatus)
	s.mux.HandleFunc("GET /api/history/device/{id}", s.handleDeviceHistory)
	s.mux.HandleFunc("GET /api/history/energy", s.handleEnergyHistory)

	// Health check
	s.mux.HandleFunc("GET /health", s.handleHealth)

	// Prometheus metrics
	s.mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger UI
	s.mux.Handle("GET /swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
}

// servePage serves a page rendered at bootstrap time. A missing page means
// the ui patch step never ran against this data directory.
func (s *Server) servePage(w http.ResponseWriter, r *http.Request, name string) {
	path := filepath.Join(s.webRoot, name)
	if _, err := os.Stat(path); err != nil {
		slog.Error("page asset missing, run setup first", "page", name, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.ServeFile(w, r, path)
}

// writeJSON marshals v to JSON into a buffer first, then writes it to the
// response. This ensures marshalling errors can be returned as a proper 500.
func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("encoding JSON response", "path", r.URL.Path, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		slog.Debug("writing JSON response", "path", r.URL.Path, "error", err)
	}
}

// @Summary Overview page
// @Description Plant overview HTML page
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router / [get]
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.servePage(w, r, "index.html")
}

// @Summary Dashboard page
// @Description Fleet dashboard HTML page
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /dashboard [get]
func (s *Server) handleDashboardPage(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, "dashboard.html")
}

// @Summary Devices page
// @Description Device inventory HTML page
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /devices [get]
func (s *Server) handleDevicesPage(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, "devices.html")
}

// @Summary Analytics page
// @Description Sensor analytics HTML page
// @Produce html
// @Success 200 {string} string "HTML page"
// @Router /analytics [get]
func (s *Server) handleAnalyticsPage(w http.ResponseWriter, r *http.Request) {
	s.servePage(w, r, "analytics.html")
}

// performancePoint is one hourly sample of the dashboard trend.
type performancePoint struct {
	Timestamp         time.Time `json:"timestamp"`
	HealthPercent     float64   `json:"health_percent"`
	EfficiencyPercent float64   `json:"efficiency_percent"`
}

// dashboardResponse is the response body for GET /api/dashboard_data.
type dashboardResponse struct {
	Fleet            model.FleetSummary `json:"fleet"`
	SystemHealthPct  float64            `json:"system_health_percent"`
	EnergyUsageKWh   float64            `json:"energy_usage_kwh"`
	UptimePct        float64            `json:"uptime_percent"`
	ResponseTimeMs   float64            `json:"response_time_ms"`
	PerformanceTrend []performancePoint `json:"performance_trend"`
}

// @Summary Dashboard aggregates
// @Description Returns the fleet summary, headline KPIs and the 24h performance trend. Recomputed at most every two minutes.
// @Produce json
// @Success 200 {object} dashboardResponse
// @Router /api/dashboard_data [get]
func (s *Server) handleDashboardData(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, s.dashboardData())
}

func (s *Server) dashboardData() dashboardResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.dashCached != nil && now.Before(s.dashExpires) {
		return *s.dashCached
	}

	snap := s.cache.Snapshot()
	fleet := fleetSummary(snap.Devices)

	trend := make([]performancePoint, 0, 24)
	for i := 0; i < 24; i++ {
		ts := now.Add(-time.Duration(23-i) * time.Hour)
		base := 85.0
		if h := ts.Hour(); h >= 8 && h <= 16 {
			base = 90.0
		}
		trend = append(trend, performancePoint{
			Timestamp:         ts,
			HealthPercent:     round2(clampPct(base + s.uniform(-5, 5))),
			EfficiencyPercent: round2(clampPct(base - 5 + s.uniform(-8, 8))),
		})
	}

	resp := dashboardResponse{
		Fleet:            fleet,
		SystemHealthPct:  round2(fleet.AvgHealth * 100),
		EnergyUsageKWh:   round2(1200 + math.Sin(2*math.Pi*float64(now.Hour())/24)*300 + s.uniform(-50, 50)),
		UptimePct:        round2(s.uniform(98.5, 99.9)),
		ResponseTimeMs:   round2(s.uniform(50, 200)),
		PerformanceTrend: trend,
	}

	s.dashCached = &resp
	s.dashExpires = now.Add(dashboardTTL)
	return resp
}

// devicesResponse is the response body for GET /api/devices.
type devicesResponse struct {
	Devices []model.Device `json:"devices"`
}

// @Summary Device fleet
// @Description Returns the live state of every device, sorted by device ID
// @Produce json
// @Success 200 {object} devicesResponse
// @Router /api/devices [get]
func (s *Server) handleDevices(w http.ResponseWriter, r *http.Request) {
	snap := s.cache.Snapshot()
	devices := make([]model.Device, 0, len(snap.Devices))
	for _, id := range sortedDeviceIDs(snap.Devices) {
		devices = append(devices, *snap.Devices[id])
	}
	writeJSON(w, r, devicesResponse{Devices: devices})
}

// alertsResponse is the response body for GET /api/alerts.
type alertsResponse struct {
	Alerts []model.Alert `json:"alerts"`
}

// @Summary Recent alerts
// @Description Returns the newest alerts from the in-memory feed
// @Produce json
// @Param limit query int false "Maximum alerts to return (1-50)" default(10)
// @Success 200 {object} alertsResponse
// @Router /api/alerts [get]
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if l := r.URL.Query().Get("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 50 {
			limit = v
		}
	}

	snap := s.cache.Snapshot()

	s.mu.Lock()
	fire := s.rng.Float64() < randomAlertChance
	var alert model.Alert
	if fire {
		alert = seed.RandomAlert(s.rng, sortedDeviceIDs(snap.Devices), time.Now())
	}
	s.mu.Unlock()
	if fire {
		s.cache.PushAlert(alert)
	}

	writeJSON(w, r, alertsResponse{Alerts: s.cache.RecentAlerts(limit)})
}

// analyticsResponse is the response body for GET /api/analytics.
type analyticsResponse struct {
	Sensors []model.SensorSeries `json:"sensors"`
}

// @Summary Sensor analytics
// @Description Returns a 24h hourly series per sensor class with normal-band thresholds
// @Produce json
// @Success 200 {object} analyticsResponse
// @Router /api/analytics [get]
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	end := time.Now().Truncate(time.Hour)
	patterns := simulator.AnalyticsPatterns()
	sensors := make([]model.SensorSeries, 0, len(patterns))

	s.mu.Lock()
	for _, p := range patterns {
		sensors = append(sensors, model.SensorSeries{
			Sensor:       p.Sensor,
			Unit:         p.Unit,
			Points:       simulator.AnalyticsSeries(s.rng, p, end),
			ThresholdLow: p.ThresholdLow,
			ThresholdHi:  p.ThresholdHi,
		})
	}
	s.mu.Unlock()

	writeJSON(w, r, analyticsResponse{Sensors: sensors})
}

// systemStatusResponse is the response body for GET /api/system_status.
type systemStatusResponse struct {
	Status        string              `json:"status"`
	UptimeSeconds int64               `json:"uptime_seconds"`
	System        model.SystemMetrics `json:"system"`
}

// @Summary System status
// @Description Returns service status, process uptime and the latest host resource sample
// @Produce json
// @Success 200 {object} systemStatusResponse
// @Router /api/system_status [get]
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	snap := s.cache.Snapshot()

	resp := systemStatusResponse{
		Status:        "operational",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	}
	if snap.System != nil {
		resp.System = *snap.System
	} else {
		resp.Status = "starting"
	}
	writeJSON(w, r, resp)
}

// deviceHistoryResponse is the response body for GET /api/history/device/{id}.
type deviceHistoryResponse struct {
	DeviceID string                `json:"device_id"`
	Hours    int                   `json:"hours"`
	Readings []model.DeviceReading `json:"readings"`
}

// @Summary Device history
// @Description Returns stored readings for one device, oldest first
// @Produce json
// @Param id path string true "Device ID"
// @Param hours query int false "Hours of history (1-168)" default(24)
// @Success 200 {object} deviceHistoryResponse
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/history/device/{id} [get]
func (s *Server) handleDeviceHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	hours := historyHours(r)

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	readings, err := s.store.QueryDeviceHistory(id, since)
	if err != nil {
		slog.Error("querying device history", "device", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if readings == nil {
		readings = []model.DeviceReading{}
	}

	writeJSON(w, r, deviceHistoryResponse{DeviceID: id, Hours: hours, Readings: readings})
}

// energyHistoryResponse is the response body for GET /api/history/energy.
type energyHistoryResponse struct {
	Hours   int                  `json:"hours"`
	Samples []model.EnergySample `json:"samples"`
}

// @Summary Energy history
// @Description Returns stored plant-wide energy samples, oldest first
// @Produce json
// @Param hours query int false "Hours of history (1-168)" default(24)
// @Success 200 {object} energyHistoryResponse
// @Failure 500 {string} string "Internal Server Error"
// @Router /api/history/energy [get]
func (s *Server) handleEnergyHistory(w http.ResponseWriter, r *http.Request) {
	hours := historyHours(r)

	since := time.Now().Add(-time.Duration(hours) * time.Hour)
	samples, err := s.store.QueryEnergySeries(since)
	if err != nil {
		slog.Error("querying energy history", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if samples == nil {
		samples = []model.EnergySample{}
	}

	writeJSON(w, r, energyHistoryResponse{Hours: hours, Samples: samples})
}

// @Summary Health check
// @Description Returns service health status and collector poll times
// @Produce json
// @Success 200 {object} map[string]interface{} "Health status"
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	snap := s.cache.Snapshot()
	healthy := len(snap.LastPoll) > 0

	status := "ok"
	if !healthy {
		status = "no_data"
	}

	collectors := make(map[string]string, len(snap.LastPoll))
	for k, v := range snap.LastPoll {
		collectors[k] = fmt.Sprintf("%ds ago", int(time.Since(v).Seconds()))
	}
	writeJSON(w, r, map[string]any{
		"status":     status,
		"timestamp":  time.Now().Unix(),
		"collectors": collectors,
	})
}

// historyHours parses the hours query parameter, defaulting to 24 and
// ignoring anything outside 1-168.
func historyHours(r *http.Request) int {
	hours := 24
	if h := r.URL.Query().Get("hours"); h != "" {
		if v, err := strconv.Atoi(h); err == nil && v > 0 && v <= 168 {
			hours = v
		}
	}
	return hours
}

// fleetSummary aggregates the device map for the dashboard. Every known
// status appears in ByStatus even when zero, so consumers get stable keys.
func fleetSummary(devices map[string]*model.Device) model.FleetSummary {
	sum := model.FleetSummary{
		TotalDevices: len(devices),
		ByStatus: map[string]int{
			model.StatusNormal:   0,
			model.StatusWarning:  0,
			model.StatusCritical: 0,
			model.StatusOffline:  0,
		},
	}

	var health, efficiency float64
	for _, d := range devices {
		sum.ByStatus[d.Status]++
		health += d.HealthScore
		efficiency += d.EfficiencyScore
	}
	if sum.TotalDevices > 0 {
		sum.AvgHealth = round2(health / float64(sum.TotalDevices))
		sum.AvgEfficiency = round2(efficiency / float64(sum.TotalDevices))
	}
	return sum
}

func sortedDeviceIDs(devices map[string]*model.Device) []string {
	ids := make([]string, 0, len(devices))
	for id := range devices {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// uniform draws from [lo, hi). Callers hold s.mu.
func (s *Server) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func clampPct(v float64) float64 {
	return math.Min(100, math.Max(0, v))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
