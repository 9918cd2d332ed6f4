//go:generate mockgen -source=$GOFILE -destination=${GOFILE}_mock.go -package=$GOPACKAGE

package ksuid

// IKsuid 実行ごとのID（バックアップ先ディレクトリ名）を払い出す
type IKsuid interface {
	New() string
}
