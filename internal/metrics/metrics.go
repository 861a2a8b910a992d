package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campus_registrations_total",
		Help: "Event registrations created, labeled by resulting status.",
	}, []string{"status"})

	CheckinsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campus_checkins_total",
		Help: "Attendance check-ins recorded.",
	})

	FeedbackTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "campus_feedback_total",
		Help: "Feedback submissions recorded.",
	})
)
