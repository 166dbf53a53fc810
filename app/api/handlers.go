package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/cfg"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/storage"
	"github.com/Nonlinear-EA/The-Nonlinear-Library/app/tasks"
)

// GetFeed serves a published feed straight from storage, exactly the bytes
// the podcast apps see.
func (h *Handler) GetFeed(c *gin.Context) {
	name := c.Param("name")

	feedConfig, ok := h.configs[name]
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}

	data, err := h.store.ReadFeed(c.Request.Context(), feedConfig.RSSFilename)
	if err != nil {
		if storage.IsNotFound(err) {
			c.Status(http.StatusNotFound)
			return
		}
		slog.Error("Storage error", "operation", "get_feed", "feed", name, "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Header("Content-Type", "application/xml; charset=utf-8")
	c.Header("X-Feed-Name", name)
	c.Data(http.StatusOK, "application/xml; charset=utf-8", data)
}

func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"timestamp":             time.Now().In(time.Local).Format(time.RFC3339),
		"version":               cfg.Get().Version,
		"loaded_configurations": len(h.configs),
	})
}

func (h *Handler) APIListFeeds(c *gin.Context) {
	feeds := make([]map[string]interface{}, 0, len(h.configs))

	for _, feedConfig := range h.configs {
		feeds = append(feeds, map[string]interface{}{
			"name":             feedConfig.Name,
			"kind":             string(feedConfig.Kind),
			"source":           feedConfig.Source,
			"rss_filename":     feedConfig.RSSFilename,
			"enabled":          feedConfig.Settings.Enabled,
			"top_post_only":    feedConfig.Filters.TopPostOnly,
			"search_period":    string(feedConfig.Filters.SearchPeriod),
			"refresh_interval": feedConfig.Settings.GetRefreshInterval().String(),
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"feeds": feeds,
		"count": len(feeds),
	})
}

// APIRunFeed enqueues an immediate update run for one feed. The run itself
// still goes through the worker pool, so it cannot race a scheduled run
// against the same destination.
func (h *Handler) APIRunFeed(c *gin.Context) {
	name := c.Param("name")

	feedConfig, ok := h.configs[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown feed: " + name})
		return
	}

	task := h.scheduler.NewTaskFor(feedConfig)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue run", "feed", name, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"feed": name, "task_id": task.ID()})
}

// APICheckFeeds enqueues an integrity check over every persisted feed.
func (h *Handler) APICheckFeeds(c *gin.Context) {
	task := tasks.NewCheckFeedsTask(h.store)
	if err := h.scheduler.EnqueueTask(task); err != nil {
		slog.Error("Failed to enqueue integrity check", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"task_id": task.ID()})
}
