package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contadores de negocio expuestos en /metrics.
var (
	MovimientosRegistrados = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "movimientos_registrados_total",
		Help: "Total de movimientos de inventario registrados por tipo",
	}, []string{"tipo"})

	EntregasCreadas = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entregas_creadas_total",
		Help: "Total de entregas de producción creadas",
	})

	EntregasProcesadas = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "entregas_procesadas_total",
		Help: "Total de intentos de procesamiento de entregas por resultado",
	}, []string{"resultado"})

	EntregasCanceladas = promauto.NewCounter(prometheus.CounterOpts{
		Name: "entregas_canceladas_total",
		Help: "Total de entregas canceladas",
	})
)
