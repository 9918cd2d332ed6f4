//go:generate mockgen -source=$GOFILE -destination=${GOFILE}_mock.go -package=$GOPACKAGE

package file

type Repository interface {
	Read(path string) ([]byte, error)
	Write(path string, data []byte) error
	// WriteAtomic 一時ファイルに書き込んでからリネームする。途中で失敗しても元のファイルは壊れない
	WriteAtomic(path string, data []byte) error
	Exists(path string) bool
	Getwd() (string, error)
	MkdirAll(path string) error
}
