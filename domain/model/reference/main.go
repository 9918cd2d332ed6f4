package reference

import (
	"path"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// PathGroup 参照パスを取り出すキャプチャグループ名
const PathGroup = "path"

// Rule ファイルの拡張子と、そのフォーマットでリソースパスが埋め込まれる形式の組
type Rule struct {
	Extension string
	Pattern   *regexp.Regexp
}

type Rules []Rule

func DefaultRules() Rules {
	return Rules{
		{Extension: ".tscn", Pattern: regexp.MustCompile(`\bpath="(?P<path>[^"]+)"`)},
		{Extension: ".glb.import", Pattern: regexp.MustCompile(`"save_to_file/path": "(?P<path>[^"]+)"`)},
	}
}

func NewRule(extension string, pattern string) (Rule, error) {
	if extension == "" {
		return Rule{}, eris.New("rule extension must not be empty")
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, eris.Wrapf(err, "invalid pattern for %s", extension)
	}
	if re.SubexpIndex(PathGroup) < 0 {
		return Rule{}, eris.Errorf("pattern for %s has no (?P<%s>...) group", extension, PathGroup)
	}

	return Rule{Extension: extension, Pattern: re}, nil
}

// Lookup returns the first rule whose extension is a suffix of fileName.
func (rs Rules) Lookup(fileName string) (Rule, bool) {
	for _, r := range rs {
		if strings.HasSuffix(fileName, r.Extension) {
			return r, true
		}
	}
	return Rule{}, false
}

// Extract returns the distinct paths captured by the rule, in order of first occurrence.
func (r Rule) Extract(text string) []string {
	idx := r.Pattern.SubexpIndex(PathGroup)
	if idx < 0 {
		return nil
	}

	var paths []string
	seen := make(map[string]struct{})
	for _, m := range r.Pattern.FindAllStringSubmatch(text, -1) {
		p := m[idx]
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		paths = append(paths, p)
	}
	return paths
}

// BaseName 参照パスの最後の要素。res:// 形式もOSのパスも / 区切りとして扱う
func BaseName(resourcePath string) string {
	return path.Base(strings.ReplaceAll(resourcePath, `\`, `/`))
}
