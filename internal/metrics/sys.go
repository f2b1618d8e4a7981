package metrics

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/dustin/go-humanize"
)

// SysHealth represents real-time process and storage metrics.
type SysHealth struct {
	Alloc      string
	TotalAlloc string
	Sys        string
	NumGC      uint32
	Goroutines int
	// DiskUsage is the human-readable size of each inspected path.
	DiskUsage map[string]string
}

// GetSysHealth collects real-time health data. Each path may be a file,
// such as the database, or a directory, such as the snapshot export dir.
func GetSysHealth(paths ...string) SysHealth {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	usage := make(map[string]string, len(paths))
	for _, p := range paths {
		usage[p] = humanize.Bytes(uint64(diskSize(p)))
	}

	return SysHealth{
		Alloc:      humanize.Bytes(m.Alloc),
		TotalAlloc: humanize.Bytes(m.TotalAlloc),
		Sys:        humanize.Bytes(m.Sys),
		NumGC:      m.NumGC,
		Goroutines: runtime.NumGoroutine(),
		DiskUsage:  usage,
	}
}

func diskSize(path string) int64 {
	var size int64
	_ = filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	return size
}
