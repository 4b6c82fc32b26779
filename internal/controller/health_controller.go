package controller

import (
	"context"
	"net/http"
	"quizmaster_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// Pinger 可探活的依赖，例如数据库或 Redis
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthController struct {
	Components map[string]Pinger
}

func NewHealthController(components map[string]Pinger) *HealthController {
	return &HealthController{Components: components}
}

// @Summary 健康检查
// @Description 检查服务及其依赖的状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	status := gin.H{}
	healthy := true
	for name, p := range c.Components {
		if err := p.PingContext(ctx.Request.Context()); err != nil {
			status[name] = "down"
			healthy = false
			continue
		}
		status[name] = "up"
	}

	if !healthy {
		util.ErrorWithData(ctx, http.StatusServiceUnavailable, "Dependency unavailable", gin.H{"components": status})
		return
	}

	util.Success(ctx, gin.H{
		"status":     "ok",
		"components": status,
	})
}
