package health

import (
	"context"
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"sheettochain-backend/internal/infrastructure/kv"
	"sheettochain-backend/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// CollectResult is the payload served by /health/json and the status page.
type CollectResult struct {
	Status       string               `json:"status"`
	Runtime      RuntimeInfo          `json:"runtime"`
	Traffic      TrafficInfo          `json:"traffic"`
	Dependencies map[string]DepStatus `json:"dependencies"`
}

type RuntimeInfo struct {
	UptimeSeconds int64      `json:"uptimeSeconds"`
	Memory        MemoryInfo `json:"memory"`
	Platform      string     `json:"platform"`
	GoVersion     string     `json:"goVersion"`
}

type MemoryInfo struct {
	RSS      int `json:"rss"`
	HeapUsed int `json:"heapUsed"`
}

type TrafficInfo struct {
	TotalRequests   int         `json:"totalRequests"`
	SuccessCount    int         `json:"successCount"`
	FailedCount     int         `json:"failedCount"`
	SuccessRate     string      `json:"successRate"`
	AvgResponseTime interface{} `json:"avgResponseTime"`
	LastRequest     interface{} `json:"lastRequest"`
}

type DepStatus struct {
	Status string      `json:"status"`
	PingMs interface{} `json:"pingMs"`
}

// Deps are the probes the collector runs. Any of them may be nil, in which
// case the dependency is reported as disconnected (or "not configured" for
// Hedera).
type Deps struct {
	Rdb           *redis.Client
	Store         kv.Pinger
	HederaReady   func() bool
	MirrorBaseURL string
}

// CollectHealth gathers runtime stats, traffic counters from Redis, and the
// reachability of the slot store, Hedera operator config, and the mirror node.
func CollectHealth(ctx context.Context, deps Deps) CollectResult {
	result := CollectResult{
		Dependencies: make(map[string]DepStatus),
	}

	// Slot store
	storeStatus := "disconnected"
	var storePingMs *int64
	if deps.Store != nil {
		start := time.Now()
		if err := deps.Store.Ping(ctx); err == nil {
			ms := time.Since(start).Milliseconds()
			storePingMs = &ms
			storeStatus = "connected"
		} else {
			storeStatus = "error"
		}
	}
	result.Dependencies["store"] = DepStatus{Status: storeStatus, PingMs: storePingMs}

	// Redis + traffic counters
	redisStatus := "disconnected"
	var redisPingMs *int64
	stats := TrafficInfo{AvgResponseTime: 0, SuccessRate: "100"}
	startTimeMs := time.Now().UnixMilli()

	if deps.Rdb != nil {
		start := time.Now()
		if err := deps.Rdb.Ping(ctx).Err(); err == nil {
			ms := time.Since(start).Milliseconds()
			redisPingMs = &ms
			redisStatus = "connected"

			totalReq, _ := deps.Rdb.Get(ctx, middleware.KeyReqTotal).Result()
			totalErr, _ := deps.Rdb.Get(ctx, middleware.KeyReqErrors).Result()
			totalTime, _ := deps.Rdb.Get(ctx, middleware.KeyResTime).Result()
			resCount, _ := deps.Rdb.Get(ctx, middleware.KeyResCount).Result()
			startTimeStr, _ := deps.Rdb.Get(ctx, middleware.KeyStartTime).Result()
			lastReqStr, _ := deps.Rdb.Get(ctx, middleware.KeyLastReq).Result()

			if startTimeStr != "" {
				if t, err := strconv.ParseInt(startTimeStr, 10, 64); err == nil {
					startTimeMs = t
				}
			} else {
				deps.Rdb.Set(ctx, middleware.KeyStartTime, startTimeMs, 0)
			}

			stats.TotalRequests, _ = strconv.Atoi(totalReq)
			stats.FailedCount, _ = strconv.Atoi(totalErr)
			stats.SuccessCount = stats.TotalRequests - stats.FailedCount
			if stats.TotalRequests > 0 {
				stats.SuccessRate = strconv.FormatFloat(float64(stats.SuccessCount)/float64(stats.TotalRequests)*100, 'f', 1, 64)
			}
			timeSum, _ := strconv.ParseFloat(totalTime, 64)
			countSum, _ := strconv.Atoi(resCount)
			if countSum > 0 {
				stats.AvgResponseTime = strconv.FormatFloat(timeSum/float64(countSum), 'f', 2, 64)
			}
			if lastReqStr != "" {
				var lastReq map[string]interface{}
				_ = json.Unmarshal([]byte(lastReqStr), &lastReq)
				stats.LastRequest = lastReq
			}
		} else {
			redisStatus = "error"
		}
	}
	result.Dependencies["redis"] = DepStatus{Status: redisStatus, PingMs: redisPingMs}

	// Hedera operator
	hederaStatus := "not configured"
	if deps.HederaReady != nil && deps.HederaReady() {
		hederaStatus = "configured"
	}
	result.Dependencies["hedera"] = DepStatus{Status: hederaStatus, PingMs: nil}

	// Mirror node reachability
	mirrorStatus := "unreachable"
	var mirrorPing *int64
	if deps.MirrorBaseURL != "" {
		mirrorPing = httpPing(deps.MirrorBaseURL+"/api/v1/network/nodes?limit=1", 3*time.Second)
		if mirrorPing != nil {
			mirrorStatus = "reachable"
		}
	}
	result.Dependencies["mirror"] = DepStatus{Status: mirrorStatus, PingMs: mirrorPing}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	uptimeSec := (time.Now().UnixMilli() - startTimeMs) / 1000
	if uptimeSec < 0 {
		uptimeSec = 0
	}
	result.Runtime = RuntimeInfo{
		UptimeSeconds: uptimeSec,
		Memory:        MemoryInfo{RSS: int(m.Alloc / 1024 / 1024), HeapUsed: int(m.HeapInuse / 1024 / 1024)},
		Platform:      runtime.GOOS + " (" + runtime.GOARCH + ")",
		GoVersion:     runtime.Version(),
	}
	result.Traffic = stats

	// The slot store is the only hard dependency; everything else degrades.
	if storeStatus == "connected" {
		result.Status = "ok"
	} else {
		result.Status = "issue"
	}
	return result
}

func httpPing(url string, timeout time.Duration) *int64 {
	client := &http.Client{Timeout: timeout}
	start := time.Now()
	resp, err := client.Get(url)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()
	ms := time.Since(start).Milliseconds()
	return &ms
}
