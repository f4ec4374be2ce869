package janitor

import (
	"log"
	"os"
	"path/filepath"
	"time"
)

// Janitor 负责清理请求期间落盘的临时上传文件。
// Release 是尽力而为的，失败只记录日志，绝不影响主操作的结果。
type Janitor struct {
	tempDir string
}

// New 创建临时文件清理器
func New(tempDir string) *Janitor {
	return &Janitor{tempDir: tempDir}
}

// TempDir 返回临时目录路径
func (j *Janitor) TempDir() string {
	return j.tempDir
}

// Release 删除临时文件
func (j *Janitor) Release(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Failed to remove temp file %s: %v", path, err)
	}
}

// SweepStale 清理超过 maxAge 的残留临时文件，服务启动时调用
func (j *Janitor) SweepStale(maxAge time.Duration) {
	if _, err := os.Stat(j.tempDir); os.IsNotExist(err) {
		return
	}

	entries, err := os.ReadDir(j.tempDir)
	if err != nil {
		log.Printf("Failed to read temp directory: %v", err)
		return
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(j.tempDir, entry.Name())
			if err := os.Remove(path); err != nil {
				log.Printf("Failed to remove old temp file %s: %v", path, err)
			}
		}
	}
}
