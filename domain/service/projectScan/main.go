package projectScan

import (
	"github.com/denormal/go-gitignore"
	"github.com/t-kuni/resfix/domain/model/failure"
	"github.com/t-kuni/resfix/domain/repository/file"
	"io/fs"
	"os"
	"path/filepath"
)

// StateDir resfix がバックアップを置くディレクトリ。走査対象から常に外す
const StateDir = ".resfix"

const IgnoreFile = ".resfixignore"

type ProjectScanService struct {
	fileRepository file.Repository
}

func NewProjectScanService(fileRepository file.Repository) *ProjectScanService {
	return &ProjectScanService{
		fileRepository: fileRepository,
	}
}

// ScanFunc ファイルの絶対パスを受け取る。エラーを返すと走査を中断する
type ScanFunc func(path string) error

// Scan visits every file under rootDir depth-first, siblings in lexical order.
func (s *ProjectScanService) Scan(rootDir string, scanFunc ScanFunc) error {
	rootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return err
	}

	info, err := os.Stat(rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return &failure.NotFoundError{Path: rootDir}
		}
		return failure.NewIoError("stat", rootDir, err)
	}
	if !info.IsDir() {
		return &failure.NotFoundError{Path: rootDir}
	}

	// Load .resfixignore file
	var ignore gitignore.GitIgnore
	ignorePath := filepath.Join(rootDir, IgnoreFile)
	if s.fileRepository.Exists(ignorePath) {
		ignore, err = gitignore.NewFromFile(ignorePath)
		if err != nil {
			return failure.NewIoError("read", ignorePath, err)
		}
	}

	stateDir := filepath.Join(rootDir, StateDir)

	return filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return failure.NewIoError("walk", path, err)
		}
		if path == rootDir {
			return nil
		}

		if d.IsDir() && path == stateDir {
			return filepath.SkipDir
		}

		if ignore != nil {
			if m := ignore.Absolute(path, d.IsDir()); m != nil && m.Ignore() {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
		}

		if d.IsDir() {
			return nil
		}

		return scanFunc(path)
	})
}
