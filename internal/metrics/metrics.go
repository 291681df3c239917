package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gin-gonic/gin"
)

// Счетчики доменных событий. Технические HTTP-метрики намеренно не
// собираются - хватает логов запросов.
var (
	CodesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assist_linking_codes_issued_total",
		Help: "Number of linking codes issued by patients",
	})

	CodesRedeemed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assist_linking_codes_redeemed_total",
		Help: "Number of linking codes successfully redeemed",
	})

	RequestsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "assist_requests_created_total",
		Help: "Number of help requests created by patients",
	}, []string{"urgent"})

	RequestsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assist_requests_completed_total",
		Help: "Number of help requests completed by caregivers",
	})

	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "assist_messages_sent_total",
		Help: "Number of chat messages sent",
	})

	WSClientsConnected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "assist_ws_clients_connected",
		Help: "Number of currently connected websocket clients",
	})
)

// Handler отдает /metrics в формате Prometheus
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
