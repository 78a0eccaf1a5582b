package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	captionRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "caption_requests_total",
			Help: "Caption completion calls by result",
		},
		[]string{"result"},
	)

	captionRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "caption_request_duration_seconds",
			Help:    "Caption completion call latency in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
	)

	postsQueuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_posts_queued_total",
			Help: "Posts inserted into the moderation queue",
		},
	)

	postsApprovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_posts_approved_total",
			Help: "Successful approve operations (including repeats)",
		},
	)

	commentsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moderation_comments_total",
			Help: "Comments appended to posts",
		},
	)

	notificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_total",
			Help: "Notification deliveries by result (sent, failed, dropped)",
		},
		[]string{"result"},
	)

	notificationQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notification_queue_depth",
			Help: "Notifications waiting for a worker",
		},
	)
)
