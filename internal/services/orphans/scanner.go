package orphans

import (
	"context"
	"log"
	"time"

	placesrepo "github.com/shareplaces/backend/database/repo/places"
	usersrepo "github.com/shareplaces/backend/database/repo/users"
	"github.com/shareplaces/backend/storage"
	"golang.org/x/sync/errgroup"
)

// Scanner 孤儿 blob 扫描器。
// 写库失败后已上传的图片不再被任何行引用，定期对账存储与数据库并回收。
// 候选键需在连续两轮扫描中都无引用才会删除，避免误删正在进行的上传。
type Scanner struct {
	usersRepo   *usersrepo.Repository
	placesRepo  *placesrepo.Repository
	store       storage.Provider
	interval    time.Duration
	concurrency int

	pending map[string]time.Time
	stopCh  chan struct{}
}

// NewScanner 创建孤儿扫描器，interval <= 0 表示禁用
func NewScanner(usersRepo *usersrepo.Repository, placesRepo *placesrepo.Repository, store storage.Provider, interval time.Duration, concurrency int) *Scanner {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Scanner{
		usersRepo:   usersRepo,
		placesRepo:  placesRepo,
		store:       store,
		interval:    interval,
		concurrency: concurrency,
		pending:     make(map[string]time.Time),
		stopCh:      make(chan struct{}),
	}
}

// Start 启动扫描器
func (s *Scanner) Start() {
	if s.interval <= 0 {
		return
	}

	ticker := time.NewTicker(s.interval)
	go func() {
		for {
			select {
			case <-ticker.C:
				s.scan()
			case <-s.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
	log.Printf("[OrphanScanner] Started with interval %v", s.interval)
}

// Stop 停止扫描器
func (s *Scanner) Stop() {
	close(s.stopCh)
}

// scan 执行一轮对账：列出存储中的键，剔除数据库仍引用的，
// 上轮已挂起且本轮仍无引用的键才真正删除。
func (s *Scanner) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	keys, err := s.store.ListKeys(ctx)
	if err != nil {
		log.Printf("[OrphanScanner] Failed to list storage keys: %v", err)
		return
	}

	referenced, err := s.referencedKeys(ctx)
	if err != nil {
		log.Printf("[OrphanScanner] Failed to list referenced keys: %v", err)
		return
	}

	now := time.Now()
	var doomed []string
	next := make(map[string]time.Time)

	for _, key := range keys {
		if _, ok := referenced[key]; ok {
			continue
		}
		if _, seen := s.pending[key]; seen {
			doomed = append(doomed, key)
			continue
		}
		next[key] = now
	}
	s.pending = next

	if len(doomed) == 0 {
		return
	}

	log.Printf("[OrphanScanner] Deleting %d orphan blobs", len(doomed))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.concurrency)
	for _, key := range doomed {
		key := key
		group.Go(func() error {
			if err := s.store.DeleteWithContext(groupCtx, key); err != nil {
				log.Printf("[OrphanScanner] Failed to delete orphan blob %s: %v", key, err)
			}
			return nil
		})
	}
	_ = group.Wait()
}

func (s *Scanner) referencedKeys(ctx context.Context) (map[string]struct{}, error) {
	userKeys, err := s.usersRepo.ListImageKeys(ctx)
	if err != nil {
		return nil, err
	}
	placeKeys, err := s.placesRepo.ListImageKeys(ctx)
	if err != nil {
		return nil, err
	}

	referenced := make(map[string]struct{}, len(userKeys)+len(placeKeys))
	for _, key := range userKeys {
		referenced[key] = struct{}{}
	}
	for _, key := range placeKeys {
		referenced[key] = struct{}{}
	}
	return referenced, nil
}
