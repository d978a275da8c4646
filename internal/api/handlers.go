package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"station-dashboard/internal/logging"
	"station-dashboard/internal/metrics"
	"station-dashboard/internal/models"
	"station-dashboard/internal/stream"
)

// SnapshotSource yields the latest published snapshot.
type SnapshotSource interface {
	Snapshot() *models.Snapshot
}

type Handler struct {
	source   SnapshotSource
	datasets models.Datasets
	hub      *stream.Hub
	logger   *logging.Logger
	upgrader websocket.Upgrader
}

func NewHandler(source SnapshotSource, datasets models.Datasets, hub *stream.Hub, logger *logging.Logger) *Handler {
	return &Handler{
		source:   source,
		datasets: datasets,
		hub:      hub,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "seq": h.source.Snapshot().Seq})
}

func (h *Handler) GetStations(c *gin.Context) {
	snap := h.source.Snapshot()
	dept := c.Query("department")
	if dept == "" {
		c.JSON(http.StatusOK, snap.Stations)
		return
	}

	d, ok := models.ParseDepartment(dept)
	if !ok {
		h.log(c).Warnf("Unknown department %q", dept)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown department"})
		return
	}
	stations := make([]models.Station, 0, len(snap.Stations))
	for _, s := range snap.Stations {
		if s.Department == d {
			stations = append(stations, s)
		}
	}
	h.log(c).Debugf("Retrieved %d stations for %s", len(stations), d)
	c.JSON(http.StatusOK, stations)
}

func (h *Handler) GetStation(c *gin.Context) {
	id := c.Param("id")
	s, ok := h.source.Snapshot().Station(id)
	if !ok {
		h.log(c).Warnf("Station %s not found", id)
		c.JSON(http.StatusNotFound, gin.H{"error": "Station not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"station": s, "risk": metrics.AssessRisk(s)})
}

func (h *Handler) GetSummary(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.Summarize(h.source.Snapshot()))
}

func (h *Handler) GetRisks(c *gin.Context) {
	limit := metrics.DefaultRankLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.log(c).Warnf("Invalid limit %q: %v", raw, err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}
	ranked := metrics.RankAtRisk(h.source.Snapshot().Stations, limit)
	h.log(c).Debugf("Ranked %d stations at risk", len(ranked))
	c.JSON(http.StatusOK, ranked)
}

func (h *Handler) GetQualityMix(c *gin.Context) {
	c.JSON(http.StatusOK, h.datasets.QualityMix)
}

func (h *Handler) GetFunnel(c *gin.Context) {
	c.JSON(http.StatusOK, h.datasets.Funnel)
}

func (h *Handler) GetShipments(c *gin.Context) {
	c.JSON(http.StatusOK, h.datasets.Shipments)
}

func (h *Handler) GetPineTrend(c *gin.Context) {
	c.JSON(http.StatusOK, h.datasets.PineTrend)
}

// Stream upgrades to a WebSocket and registers the client with the hub. The
// read loop only exists to notice the client going away.
func (h *Handler) Stream(c *gin.Context) {
	if h.hub.Full() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Too many stream connections"})
		return
	}
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log(c).Errorf("WebSocket upgrade failed: %v", err)
		return
	}
	if err := h.hub.Add(conn); err != nil {
		h.log(c).Warnf("Stream refused: %v", err)
		_ = conn.Close()
		return
	}
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.hub.Remove(conn)
			return
		}
	}
}

func (h *Handler) log(c *gin.Context) *logrus.Entry {
	return h.logger.WithRequestID(c.GetString(requestIDKey))
}
