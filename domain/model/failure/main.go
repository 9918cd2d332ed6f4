package failure

import (
	"errors"
	"fmt"
)

// NotFoundError 走査対象のディレクトリ（プロジェクトルート）が存在しない
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("directory not found: %s", e.Path)
}

// IoError ファイルの読み書きに失敗した
type IoError struct {
	Op   string
	Path string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// UnresolvedReference 参照先が見つからず修正できなかったリソースパス。致命的なエラーではない
// Candidates が2件以上なら、同名ファイルが複数あり曖昧なため修正しなかったことを表す
type UnresolvedReference struct {
	File       string
	Missing    string
	Candidates []string
}

// Message returns the diagnostic line printed for the reference.
func (u UnresolvedReference) Message() string {
	if len(u.Candidates) > 1 {
		return fmt.Sprintf("Failed to fix a resource path for the scene '%s'. The resource '%s' matched %d files in the project.", u.File, u.Missing, len(u.Candidates))
	}
	return fmt.Sprintf("Failed to fix a resource path for the scene '%s'. The resource '%s' could not be found in the project.", u.File, u.Missing)
}

func NewIoError(op string, path string, err error) error {
	return &IoError{Op: op, Path: path, Err: err}
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsIo(err error) bool {
	var target *IoError
	return errors.As(err, &target)
}
