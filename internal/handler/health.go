package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"nutripae/internal/infra"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// DB and Redis are optional: a nil handle reports "disabled". Upstreams are
// reported with their breaker state and reachability; an unreachable
// upstream degrades the status but does not fail the check.
func Health(db *gorm.DB, rdb *redis.Client, upstreams ...*infra.RESTClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "disabled"
		if db != nil {
			dbStatus = "connected"
			sqlDB, err := db.DB()
			if err != nil || sqlDB.PingContext(ctx) != nil {
				dbStatus = "error"
			}
		}

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "connected"
			if rdb.Ping(ctx).Err() != nil {
				redisStatus = "error"
			}
		}

		services := make(map[string]gin.H, len(upstreams))
		var mu sync.Mutex
		var wg sync.WaitGroup
		degraded := false
		for _, u := range upstreams {
			wg.Add(1)
			go func(u *infra.RESTClient) {
				defer wg.Done()
				reachable := u.Ping(ctx) == nil
				mu.Lock()
				defer mu.Unlock()
				services[u.Service()] = gin.H{"reachable": reachable, "breaker": u.Breaker().State().String()}
				if !reachable {
					degraded = true
				}
			}(u)
		}
		wg.Wait()

		status := http.StatusOK
		if dbStatus == "error" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, gin.H{
			"ok":       status == http.StatusOK,
			"degraded": degraded,
			"db":       dbStatus,
			"redis":    redisStatus,
			"services": services,
		})
	}
}
