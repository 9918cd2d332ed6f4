//go:generate mockgen -source=$GOFILE -destination=${GOFILE}_mock.go -package=$GOPACKAGE

package timer

import "time"

// ITimer バックアップの実行IDと時刻ファイルに使う現在時刻を返す
type ITimer interface {
	Now() time.Time
}
