package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

// Единственный экземпляр на пакет: New регистрирует метрики в default registry
var m = New("hold-service-test")

func TestHoldLifecycleCounters(t *testing.T) {
	m.IncHoldCreated("7")
	m.IncHoldCreated("7")
	m.IncHoldCompleted("stripe")
	m.IncHoldCancelled("CUSTOMER_REQUEST")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.holdsCreatedTotal.WithLabelValues("7")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.holdsCompletedTotal.WithLabelValues("stripe")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.holdsCancelledTotal.WithLabelValues("CUSTOMER_REQUEST")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.holdsCancelledTotal.WithLabelValues("ADMIN_REQUEST")))
}

func TestSweeperCounters(t *testing.T) {
	m.IncSweeperTick("ok")
	m.IncHoldExpired("signing")
	m.IncHoldWarning("payment")
	m.IncSweeperError("signing")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.sweeperTicksTotal.WithLabelValues("ok")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.holdsExpiredTotal.WithLabelValues("signing")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.holdWarningsTotal.WithLabelValues("payment")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.sweeperErrorsTotal.WithLabelValues("signing")))
}
