package service

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"work-placement/internal/domain"
)

var (
	applyTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "placement_apply_total", Help: "Apply attempts by outcome"},
		[]string{"outcome"},
	)
	statusChangeTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "placement_status_change_total", Help: "Application status changes by target status"},
		[]string{"to"},
	)
	withdrawTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "placement_withdraw_total", Help: "Withdraw attempts by outcome"},
		[]string{"outcome"},
	)
)

func init() { prometheus.MustRegister(applyTotal, statusChangeTotal, withdrawTotal) }

// outcome ok / 拒绝原因 / 错误类别
func outcome(err error) string {
	var rej *domain.Rejection
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &rej):
		return string(rej.Reason)
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrIllegalState):
		return "illegal_state"
	}
	return "error"
}
