package projectFindService

import (
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/t-kuni/resfix/domain/model/failure"
	"github.com/t-kuni/resfix/domain/repository/config"
	"github.com/t-kuni/resfix/util/path"
)

// ProjectFile Godotプロジェクトのルートに置かれるファイル
const ProjectFile = "project.godot"

type ProjectFindService struct {
	fileRepository FileRepository
}

type FileRepository interface {
	Getwd() (string, error)
	Exists(path string) bool
}

func NewProjectFindService(fileRepository FileRepository) *ProjectFindService {
	return &ProjectFindService{
		fileRepository: fileRepository,
	}
}

// FindProjectRoot 明示されたディレクトリがあればそれを、無ければカレントディレクトリから親を辿って project.godot のあるディレクトリを返す
func (s *ProjectFindService) FindProjectRoot(explicitRoot string) (string, error) {
	if explicitRoot != "" {
		rootDir, err := filepath.Abs(explicitRoot)
		if err != nil {
			return "", err
		}
		if !s.fileRepository.Exists(rootDir) {
			return "", &failure.NotFoundError{Path: rootDir}
		}
		return path.AfterGetAbsPath(rootDir)
	}

	currentDir, err := s.fileRepository.Getwd()
	if err != nil {
		return "", err
	}

	currentDir, err = path.AfterGetAbsPath(currentDir)
	if err != nil {
		return "", err
	}

	for {
		if s.fileRepository.Exists(filepath.Join(currentDir, ProjectFile)) {
			return currentDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			break
		}
		currentDir = parentDir
	}

	return "", eris.Errorf("%s was not found in the current directory or any parent directory", ProjectFile)
}

func (s *ProjectFindService) GetConfigPath(rootDir string) string {
	return filepath.Join(rootDir, config.FileName)
}
