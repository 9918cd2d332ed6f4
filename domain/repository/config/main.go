package config

const FileName = "resfix.yml"

const (
	TieBreakFirst = "first"
	TieBreakSkip  = "skip"
)

type Config struct {
	Backup      bool   `yaml:"backup"`
	AtomicWrite bool   `yaml:"atomic-write"`
	TieBreak    string `yaml:"tie-break"`
	Rules       []Rule `yaml:"rules,omitempty"`
}

// Rule 既定のルール表に追加する拡張子とパターン。パターンには (?P<path>...) が必要
type Rule struct {
	Extension string `yaml:"extension"`
	Pattern   string `yaml:"pattern"`
}

func DefaultConfig() *Config {
	return &Config{
		Backup:      false,
		AtomicWrite: true,
		TieBreak:    TieBreakFirst,
	}
}

type Repository interface {
	Read(path string) (*Config, error)
	Write(path string, cfg *Config) error
}
