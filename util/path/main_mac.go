//go:build darwin

package path

import "path/filepath"

func AfterGetAbsPath(path string) (string, error) {
	// macの場合、一時ディレクトリなどが /var/folder/... と /private/var/folder/... の２種類のパスで取得できてしまう
	// res:// への変換でルートとの相対パスを取るので /private に統一しておく
	return filepath.EvalSymlinks(path)
}
