package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Skufu/OTCAdvisor/internal/artifacts"
	"github.com/Skufu/OTCAdvisor/internal/audit"
	"github.com/Skufu/OTCAdvisor/internal/form"
	"github.com/Skufu/OTCAdvisor/internal/presenter"
	"github.com/Skufu/OTCAdvisor/internal/recommend"
)

// Submitter runs one questionnaire submission.
type Submitter interface {
	Submit(ctx context.Context, sub form.Submission) recommend.Outcome
}

// OutcomeCounter reports stored outcomes per kind.
type OutcomeCounter interface {
	Counts(ctx context.Context, since time.Time) (map[string]int64, error)
}

type app struct {
	service   Submitter
	catalog   *form.Catalog
	reference *artifacts.Dataset
	db        audit.HealthChecker
	outcomes  OutcomeCounter
}

const defaultOutcomeWindow = 24 * time.Hour

func setupRouter(a app, maxBody int64) *gin.Engine {
	router := gin.New()
	router.Use(
		gin.Logger(),
		gin.Recovery(),
		limitBodySize(maxBody),
		cors.New(cors.Config{
			AllowOrigins: []string{"*"},
			AllowMethods: []string{"GET", "POST", "OPTIONS"},
			AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
			MaxAge:       12 * time.Hour,
		}),
	)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/readyz", func(c *gin.Context) {
		if a.db == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "disabled"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := a.db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "degraded",
				"db":     fmt.Sprintf("unhealthy: %v", err),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "ok"})
	})

	router.GET("/", a.showForm)
	router.POST("/", a.submitForm)

	api := router.Group("/api")
	{
		api.GET("/form", func(c *gin.Context) {
			c.JSON(http.StatusOK, a.catalog)
		})
		api.GET("/reference/summary", a.referenceSummary)
		api.GET("/outcomes/summary", a.outcomeSummary)
		api.POST("/recommendations", a.recommend)
	}

	return router
}

func (a app) showForm(c *gin.Context) {
	a.renderPage(c, form.Submission{}, nil)
}

func (a app) submitForm(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}
	sub := form.FromValues(c.Request.PostForm)
	out := a.service.Submit(c.Request.Context(), sub)
	a.renderPage(c, sub, &out)
}

func (a app) renderPage(c *gin.Context, values form.Submission, out *recommend.Outcome) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	err := presenter.RenderPage(c.Writer, presenter.PageData{
		Catalog: a.catalog,
		Values:  values,
		Outcome: out,
	})
	if err != nil {
		_ = c.Error(err)
	}
}

func (a app) recommend(c *gin.Context) {
	var sub form.Submission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	out := a.service.Submit(c.Request.Context(), sub)
	c.JSON(statusFor(out), presenter.NewView(out))
}

func (a app) referenceSummary(c *gin.Context) {
	if a.reference == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "reference data not loaded"})
		return
	}
	c.JSON(http.StatusOK, a.reference.Summary())
}

// outcomeSummary counts audited outcomes since ?since=, given as an RFC 3339
// time or a duration back from now. The default window is one day.
func (a app) outcomeSummary(c *gin.Context) {
	if a.outcomes == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "outcome audit disabled"})
		return
	}

	since, err := parseSince(c.Query("since"), time.Now())
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	counts, err := a.outcomes.Counts(ctx, since)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not count outcomes"})
		return
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	c.JSON(http.StatusOK, gin.H{
		"since":  since.UTC().Format(time.RFC3339),
		"total":  total,
		"counts": counts,
	})
}

func parseSince(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now.Add(-defaultOutcomeWindow), nil
	}
	if d, err := time.ParseDuration(raw); err == nil {
		if d < 0 {
			return time.Time{}, fmt.Errorf("since must not be negative")
		}
		return now.Add(-d), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("since must be an RFC 3339 time or a duration")
	}
	return t, nil
}

func statusFor(out recommend.Outcome) int {
	switch {
	case out.Rejected():
		return http.StatusUnprocessableEntity
	case out.Kind == recommend.KindFailed:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

func limitBodySize(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
