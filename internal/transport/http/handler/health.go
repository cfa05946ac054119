package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"docqa/internal/bootstrap"
)

type HealthHandler struct {
	app *bootstrap.App
}

type componentStatus struct {
	Status        string `json:"status"`
	Error         string `json:"error,omitempty"`
	DocumentCount *int   `json:"document_count,omitempty"`
	Model         string `json:"model,omitempty"`
}

func NewHealthHandler(app *bootstrap.App) *HealthHandler {
	return &HealthHandler{app: app}
}

// Check probes every dependency independently. A failing dependency degrades
// the overall status; missing required configuration is a hard error state.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	components := gin.H{
		"vector_store": h.checkVectorStore(ctx),
		"embeddings":   h.checkEmbeddings(ctx),
		"mysql":        h.checkMySQL(ctx),
		"redis":        h.checkRedis(ctx),
		"rabbitmq":     h.checkRabbitMQ(),
	}

	overall := "ok"
	for _, v := range components {
		if status, ok := v.(componentStatus); ok && status.Status != "ok" {
			overall = "degraded"
			break
		}
	}

	missing := h.app.Config.MissingRequired()
	envStatus := "ok"
	if len(missing) > 0 {
		envStatus = "error"
		overall = "error"
	}
	if missing == nil {
		missing = []string{}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     overall,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"uptime_sec": int(time.Since(h.app.StartedAt).Seconds()),
		"components": components,
		"system":     systemInfo(),
		"environment": gin.H{
			"status":            envStatus,
			"missing_variables": missing,
		},
	})
}

func (h *HealthHandler) checkVectorStore(ctx context.Context) componentStatus {
	count, err := h.app.VectorStore.Count(ctx)
	if err != nil {
		return componentStatus{Status: "error", Error: err.Error()}
	}
	return componentStatus{Status: "ok", DocumentCount: &count}
}

func (h *HealthHandler) checkEmbeddings(ctx context.Context) componentStatus {
	if _, err := h.app.AI.Embed(ctx, "healthcheck"); err != nil {
		return componentStatus{Status: "error", Error: err.Error()}
	}
	return componentStatus{Status: "ok", Model: h.app.Config.LLM.EmbeddingModel}
}

func (h *HealthHandler) checkMySQL(ctx context.Context) componentStatus {
	sqlDB, err := h.app.MySQL.DB()
	if err != nil {
		return componentStatus{Status: "error", Error: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return componentStatus{Status: "error", Error: err.Error()}
	}
	return componentStatus{Status: "ok"}
}

func (h *HealthHandler) checkRedis(ctx context.Context) componentStatus {
	if err := h.app.Redis.Ping(ctx).Err(); err != nil {
		return componentStatus{Status: "error", Error: err.Error()}
	}
	return componentStatus{Status: "ok"}
}

func (h *HealthHandler) checkRabbitMQ() componentStatus {
	if h.app.MQConn == nil || h.app.MQConn.IsClosed() {
		return componentStatus{Status: "error", Error: "connection closed"}
	}
	return componentStatus{Status: "ok"}
}

func systemInfo() gin.H {
	info := gin.H{
		"go_version": runtime.Version(),
		"platform":   runtime.GOOS + "/" + runtime.GOARCH,
	}

	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		info["cpu_usage"] = fmt.Sprintf("%.1f%%", percents[0])
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info["memory_usage"] = fmt.Sprintf("%.1f%%", vm.UsedPercent)
	}
	if du, err := disk.Usage("/"); err == nil {
		info["disk_usage"] = fmt.Sprintf("%.1f%%", du.UsedPercent)
	}
	return info
}
