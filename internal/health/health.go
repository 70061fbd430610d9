package health

import (
	"context"
	"time"

	"github.com/studyace/studyace-server/internal/chat"
	"github.com/studyace/studyace-server/internal/config"
	"github.com/studyace/studyace-server/internal/store"
)

var startTime = time.Now()

// Component is one probed subsystem.
type Component struct {
	Status string         `json:"status"`
	Detail map[string]any `json:"detail"`
}

// Response is the health endpoint body.
type Response struct {
	Status     string               `json:"status"`
	Components map[string]Component `json:"components"`
}

// Checker probes the server's dependencies.
type Checker struct {
	cfg   *config.Config
	store *store.Store
	cache *chat.Cache
}

// NewChecker builds a health checker over live dependencies.
func NewChecker(cfg *config.Config, st *store.Store, cache *chat.Cache) *Checker {
	return &Checker{cfg: cfg, store: st, cache: cache}
}

// Collect probes each subsystem. Deep checks touch the database and cache;
// shallow checks only report configuration.
func (h *Checker) Collect(ctx context.Context, deepChecks bool) Response {
	if ctx == nil {
		ctx = context.Background()
	}

	components := map[string]Component{
		"app":        buildAppStatus(),
		"database":   h.buildDatabaseStatus(ctx, deepChecks),
		"chat_cache": h.buildCacheStatus(ctx, deepChecks),
		"gemini":     h.buildGeminiStatus(),
	}

	overall := "ok"
	for _, component := range components {
		if component.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	return Response{
		Status:     overall,
		Components: components,
	}
}

func buildAppStatus() Component {
	return Component{
		Status: "ok",
		Detail: map[string]any{
			"uptime_seconds": int(time.Since(startTime).Seconds()),
		},
	}
}

func (h *Checker) buildDatabaseStatus(ctx context.Context, deepChecks bool) Component {
	detail := map[string]any{"deep_checked": deepChecks}
	if h.cfg != nil {
		detail["host"] = h.cfg.Database.Host
		detail["name"] = h.cfg.Database.Name
	}

	if !deepChecks || h.store == nil {
		detail["connected"] = h.store != nil
		status := "ok"
		if h.store == nil {
			status = "degraded"
		}
		return Component{Status: status, Detail: detail}
	}

	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(checkCtx); err != nil {
		detail["connected"] = false
		detail["error"] = err.Error()
		return Component{Status: "degraded", Detail: detail}
	}
	detail["connected"] = true
	return Component{Status: "ok", Detail: detail}
}

func (h *Checker) buildCacheStatus(ctx context.Context, deepChecks bool) Component {
	enabled := false
	if h.cfg != nil {
		enabled = h.cfg.ChatCache.Enabled
	}
	detail := map[string]any{
		"enabled":      enabled,
		"deep_checked": deepChecks,
	}

	if h.cache == nil {
		return Component{Status: "degraded", Detail: detail}
	}
	if !deepChecks {
		return Component{Status: "ok", Detail: detail}
	}

	checkCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	if err := h.cache.Ping(checkCtx); err != nil {
		detail["connected"] = false
		detail["error"] = err.Error()
		return Component{Status: "degraded", Detail: detail}
	}
	detail["connected"] = true
	return Component{Status: "ok", Detail: detail}
}

func (h *Checker) buildGeminiStatus() Component {
	apiKeyPresent := false
	model := ""
	timeoutSeconds := 0
	if h.cfg != nil {
		apiKeyPresent = h.cfg.Gemini.PrimaryKey() != ""
		model = h.cfg.Gemini.Model
		timeoutSeconds = h.cfg.Gemini.TimeoutSeconds
	}

	status := "ok"
	if !apiKeyPresent {
		status = "degraded"
	}

	return Component{
		Status: status,
		Detail: map[string]any{
			"api_key_present": apiKeyPresent,
			"model":           model,
			"timeout_seconds": timeoutSeconds,
		},
	}
}
