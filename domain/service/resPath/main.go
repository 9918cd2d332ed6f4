package resPath

import (
	"path/filepath"
	"regexp"
	"strings"
)

const Scheme = "res://"

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// ResPathService res:// で始まるエンジン上のパスと実ファイルのパスを相互に変換する
type ResPathService struct {
	rootDir string
}

func NewResPathService(rootDir string) *ResPathService {
	return &ResPathService{
		rootDir: filepath.Clean(rootDir),
	}
}

// Globalize returns the real filesystem path for enginePath.
// ok is false for schemes other than res:// (uid://, user:// ...), which have no location under the root.
func (s *ResPathService) Globalize(enginePath string) (realPath string, ok bool) {
	if strings.HasPrefix(enginePath, Scheme) {
		rel := strings.TrimPrefix(enginePath, Scheme)
		return filepath.Join(s.rootDir, filepath.FromSlash(rel)), true
	}

	if schemePattern.MatchString(enginePath) {
		return "", false
	}

	if filepath.IsAbs(enginePath) {
		return filepath.Clean(enginePath), true
	}

	return filepath.Join(s.rootDir, filepath.FromSlash(enginePath)), true
}

// Localize returns the res:// path for realPath. Paths outside the root are returned unchanged.
func (s *ResPathService) Localize(realPath string) string {
	rel, err := filepath.Rel(s.rootDir, realPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return realPath
	}
	if rel == "." {
		return Scheme
	}
	return Scheme + filepath.ToSlash(rel)
}
