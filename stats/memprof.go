package stats

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/pprof"
	"time"

	"github.com/pkg/errors"

	"github.com/omniscale/osmdocs/log"
)

// MemProfiler writes a heap profile to dir every interval until ctx is
// done. The files are numbered memprof-000.pprof, memprof-001.pprof, ...
func MemProfiler(ctx context.Context, dir string, interval time.Duration) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return errors.Wrapf(err, "creating memprofile dir %s", dir)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for i := 0; ; i++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if err := writeHeapProfile(filepath.Join(dir, fmt.Sprintf("memprof-%03d.pprof", i))); err != nil {
			log.Printf("[warn] %s", err)
		}
	}
}

func writeHeapProfile(fname string) error {
	f, err := os.Create(fname)
	if err != nil {
		return errors.Wrap(err, "writing heap profile")
	}
	if err := pprof.WriteHeapProfile(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "writing heap profile %s", fname)
	}
	return f.Close()
}
