package metrics

import (
	"errors"
	"testing"

	"storefront/internal/apperr"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestResult(t *testing.T) {
	assert.Equal(t, ResultOK, Result(nil))
	assert.Equal(t, ResultRejected, Result(apperr.BadRequest("Cart is empty")))
	assert.Equal(t, ResultError, Result(apperr.Internal(errors.New("db down"))))
	assert.Equal(t, ResultError, Result(errors.New("db down")))
}

func TestCartMutationAndCheckout(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.CartMutation("add", nil)
	m.CartMutation("add", apperr.BadRequest("insufficient stock"))
	m.Checkout(2500, nil)
	m.Checkout(0, apperr.BadRequest("Cart is empty"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartMutations.WithLabelValues("add", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CartMutations.WithLabelValues("add", ResultRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts.WithLabelValues(ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Checkouts.WithLabelValues(ResultRejected)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.CartMutation("add", nil)
		m.Checkout(100, nil)
	})
}
