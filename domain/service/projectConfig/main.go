package projectConfig

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/t-kuni/resfix/domain/model/reference"
	"github.com/t-kuni/resfix/domain/repository/config"
	"github.com/t-kuni/resfix/domain/service/projectFindService"
)

// RootEnv プロジェクトルートを指定する環境変数。.env にも書ける
const RootEnv = "RESFIX_ROOT"

// Project コマンドが対象にするプロジェクトと、そのプロジェクトで使う設定
type Project struct {
	RootDir    string
	ConfigPath string
	Config     *config.Config
	Rules      reference.Rules
}

type FileRepository interface {
	Exists(path string) bool
}

type ProjectConfigService struct {
	projectFindService *projectFindService.ProjectFindService
	configRepository   config.Repository
	fileRepository     FileRepository
}

func NewProjectConfigService(
	projectFindService *projectFindService.ProjectFindService,
	configRepository config.Repository,
	fileRepository FileRepository,
) *ProjectConfigService {
	return &ProjectConfigService{
		projectFindService: projectFindService,
		configRepository:   configRepository,
		fileRepository:     fileRepository,
	}
}

// Load ルートは rootFlag、RESFIX_ROOT、project.godot のあるディレクトリの順で決める
func (s *ProjectConfigService) Load(rootFlag string) (Project, error) {
	explicitRoot := rootFlag
	if explicitRoot == "" {
		explicitRoot = os.Getenv(RootEnv)
	}

	rootDir, err := s.projectFindService.FindProjectRoot(explicitRoot)
	if err != nil {
		return Project{}, eris.Wrap(err, "failed to find project root")
	}

	project := Project{
		RootDir:    rootDir,
		ConfigPath: s.projectFindService.GetConfigPath(rootDir),
		Config:     config.DefaultConfig(),
	}
	if s.fileRepository.Exists(project.ConfigPath) {
		project.Config, err = s.configRepository.Read(project.ConfigPath)
		if err != nil {
			return Project{}, eris.Wrapf(err, "failed to read config file: %s", project.ConfigPath)
		}
	}

	project.Rules, err = NewRules(project.Config.Rules)
	if err != nil {
		return Project{}, eris.Wrapf(err, "invalid rule in %s", project.ConfigPath)
	}

	return project, nil
}

// NewRules 設定のルールを既定のルールより前に並べる。同じ拡張子なら設定のルールが使われる
func NewRules(configRules []config.Rule) (reference.Rules, error) {
	var rules reference.Rules
	for _, r := range configRules {
		rule, err := reference.NewRule(r.Extension, r.Pattern)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return append(rules, reference.DefaultRules()...), nil
}
