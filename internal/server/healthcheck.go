package server

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/denisschmidt/songvault/constants"
	"github.com/gin-gonic/gin"
)

func (h handlers) healthCheck(startedAt time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "Ok", http.StatusOK
		if info, err := os.Stat(h.blobs.Dir()); err != nil || !info.IsDir() {
			status, code = "Upload directory unavailable", http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"started_at":            startedAt.String(),
			"uptime":                time.Now().UTC().Sub(startedAt).String(),
			"status":                status,
			"version":               constants.Version,
			"revision":              constants.Revision,
			"build_time":            constants.BuildTime,
			"compiler":              constants.Compiler,
			"latest_commit_message": constants.LatestCommitMessage,
		})
	}
}

// sysStats reports runtime figures along with the size of the upload directory
func (h handlers) sysStats() gin.HandlerFunc {
	return func(c *gin.Context) {
		memStats := new(runtime.MemStats)
		runtime.ReadMemStats(memStats)

		blobCount, blobBytes := 0, int64(0)
		if entries, err := os.ReadDir(h.blobs.Dir()); err == nil {
			for _, entry := range entries {
				info, err := entry.Info()
				if err != nil || !info.Mode().IsRegular() {
					continue
				}
				blobCount++
				blobBytes += info.Size()
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"time":            time.Now().UnixNano(),
			"go_version":      runtime.Version(),
			"go_os":           runtime.GOOS,
			"go_arch":         runtime.GOARCH,
			"cpu_num":         runtime.NumCPU(),
			"goroutine_num":   runtime.NumGoroutine(),
			"go_max_procs":    runtime.GOMAXPROCS(0),
			"mem_alloc":       memStats.Alloc,
			"mem_total_alloc": memStats.TotalAlloc,
			"mem_sys":         memStats.Sys,
			"blob_count":      blobCount,
			"blob_bytes":      blobBytes,
		})
	}
}
