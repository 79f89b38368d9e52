package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/odontocare/clinic-api/internal/handler"
	anamnesisH "github.com/odontocare/clinic-api/internal/handler/anamnesis"
	appointmentH "github.com/odontocare/clinic-api/internal/handler/appointment"
	attendanceH "github.com/odontocare/clinic-api/internal/handler/attendance"
	auditH "github.com/odontocare/clinic-api/internal/handler/audit"
	authH "github.com/odontocare/clinic-api/internal/handler/auth"
	budgetH "github.com/odontocare/clinic-api/internal/handler/budget"
	changefeedH "github.com/odontocare/clinic-api/internal/handler/changefeed"
	healthH "github.com/odontocare/clinic-api/internal/handler/health"
	invoiceH "github.com/odontocare/clinic-api/internal/handler/invoice"
	medicineH "github.com/odontocare/clinic-api/internal/handler/medicine"
	patientH "github.com/odontocare/clinic-api/internal/handler/patient"
	prescriptionH "github.com/odontocare/clinic-api/internal/handler/prescription"
	"github.com/odontocare/clinic-api/internal/middleware"
	"github.com/odontocare/clinic-api/internal/model"
)

type Handlers struct {
	Auth         *authH.Handler
	Patient      *patientH.Handler
	Appointment  *appointmentH.Handler
	Prescription *prescriptionH.Handler
	Budget       *budgetH.Handler
	Medicine     *medicineH.Handler
	Anamnesis    *anamnesisH.Handler
	Invoice      *invoiceH.Handler
	Attendance   *attendanceH.Handler
	Audit        *auditH.Handler
	Changes      *changefeedH.Handler
	Health       *healthH.Handler
}

type Config struct {
	RateLimitEnabled bool
	RateLimit        rate.Limit
	RateBurst        int
	CORSConfig       middleware.CORSConfig
	Timeout          time.Duration
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers Handlers
	metrics  *routerMetrics
}

type routerMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
}

func newRouterMetrics() *routerMetrics {
	return &routerMetrics{
		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "HTTP request duration in seconds",
		}, []string{"method", "path", "status"}),
		requestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
	}
}

func NewRouter(auth *middleware.AuthMiddleware, handlers Handlers, config Config) *Router {
	gin.SetMode(gin.ReleaseMode)
	handler.RegisterValidations()
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		metrics:  newRouterMetrics(),
	}

	if config.Timeout == 0 {
		config.Timeout = middleware.DefaultTimeoutConfig().Duration
	}

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		r.metricsMiddleware(),
		middleware.Timeout(middleware.TimeoutConfig{Duration: config.Timeout}),
		middleware.CORS(config.CORSConfig),
	)

	if config.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  config.RateLimit,
			Burst: config.RateBurst,
		})
		engine.Use(rateLimiter.RateLimit())
	}

	return r
}

// Setup wires the route tree. Authoring prescriptions and approving budgets
// are doctor actions; everything else under the API is open to both clinic
// roles once signed in.
func (r *Router) Setup() {
	root := r.engine.Group("/")
	r.handlers.Health.RegisterRoutes(root)
	r.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.engine.Group("/api/v1")
	r.handlers.Auth.RegisterRoutes(api)

	authed := api.Group("")
	authed.Use(r.auth.Authenticate())
	authed.GET("/auth/me", r.handlers.Auth.Me)

	r.handlers.Patient.RegisterRoutes(authed)
	r.handlers.Appointment.RegisterRoutes(authed)
	r.handlers.Medicine.RegisterRoutes(authed)
	r.handlers.Anamnesis.RegisterRoutes(authed)
	r.handlers.Invoice.RegisterRoutes(authed)
	r.handlers.Attendance.RegisterRoutes(authed)
	r.handlers.Audit.RegisterRoutes(authed)
	r.handlers.Changes.RegisterRoutes(authed)
	r.handlers.Budget.RegisterRoutes(authed, r.auth.RequireRole(model.RoleDoctor))

	doctors := authed.Group("")
	doctors.Use(r.auth.RequireRole(model.RoleDoctor))
	r.handlers.Prescription.RegisterRoutes(doctors)
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		r.metrics.requestDuration.WithLabelValues(c.Request.Method, path, status).
			Observe(time.Since(start).Seconds())
		r.metrics.requestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}
