package pipeline

import (
	"bytes"
	"crypto/sha256"
	"io"
	"mlsync/internal/model"
	"os"
	"sync"

	"go.uber.org/zap"
)

// ChecksumFilter suppresses events for files whose content has not
// actually changed since the last event, so mtime-only touches do not
// trigger full sync passes in watch mode.
type ChecksumFilter struct {
	mu    sync.Mutex
	cache map[string][]byte
	log   *zap.Logger
}

func NewChecksumFilter(log *zap.Logger) *ChecksumFilter {
	return &ChecksumFilter{
		cache: make(map[string][]byte),
		log:   log,
	}
}

func (cf *ChecksumFilter) Run(inCh <-chan model.FileEvent) <-chan model.FileEvent {
	outCh := make(chan model.FileEvent, cap(inCh))

	go func() {
		defer close(outCh)

		for event := range inCh {
			if event.Type == model.EventRemove || event.Type == model.EventRename {
				cf.mu.Lock()
				delete(cf.cache, event.Path)
				cf.mu.Unlock()
				outCh <- event
				continue
			}

			sum, err := checksum(event.Path)
			if err != nil {
				cf.log.Debug("checksum failed, skipping",
					zap.String("path", event.Path),
					zap.Error(err))
				continue
			}

			cf.mu.Lock()
			prev, exists := cf.cache[event.Path]
			changed := !exists || !bytes.Equal(prev, sum)
			if changed {
				cf.cache[event.Path] = sum
			}
			cf.mu.Unlock()

			if changed {
				outCh <- event
			} else {
				cf.log.Debug("checksum unchanged, skipping",
					zap.String("path", event.Path))
			}
		}
	}()

	return outCh
}

func checksum(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return nil, err
	}

	return h.Sum(nil), nil
}
