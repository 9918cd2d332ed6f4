package resourceLocate

import (
	"path/filepath"

	"github.com/hashicorp/golang-lru/v2"
	"github.com/t-kuni/resfix/domain/service/projectScan"
)

// cacheSize 索引を保持するプロジェクトルートの数
const cacheSize = 16

// index ベース名から、その名前を持つファイルの走査順の一覧
type index map[string][]string

type ResourceLocateService struct {
	projectScanService *projectScan.ProjectScanService
	cache              *lru.Cache[string, index]
}

func NewResourceLocateService(projectScanService *projectScan.ProjectScanService) *ResourceLocateService {
	// サイズが正なら lru.New はエラーを返さない
	cache, _ := lru.New[string, index](cacheSize)
	return &ResourceLocateService{
		projectScanService: projectScanService,
		cache:              cache,
	}
}

// Find returns every file under rootDir named baseName, in walk order.
// The tree is walked once per root and the result is kept until Reset,
// so every lookup of one run sees the same snapshot regardless of how many names are asked for.
func (s *ResourceLocateService) Find(rootDir string, baseName string) ([]string, error) {
	idx, ok := s.cache.Get(rootDir)
	if !ok {
		var err error
		idx, err = s.buildIndex(rootDir)
		if err != nil {
			return nil, err
		}
		s.cache.Add(rootDir, idx)
	}
	return idx[baseName], nil
}

func (s *ResourceLocateService) buildIndex(rootDir string) (index, error) {
	idx := make(index)
	err := s.projectScanService.Scan(rootDir, func(path string) error {
		base := filepath.Base(path)
		idx[base] = append(idx[base], path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return idx, nil
}

func (s *ResourceLocateService) Reset() {
	s.cache.Purge()
}
