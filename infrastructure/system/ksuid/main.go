package ksuid

import (
	"github.com/segmentio/ksuid"
	domainKsuid "github.com/t-kuni/resfix/domain/system/ksuid"
	"github.com/t-kuni/resfix/domain/system/timer"
)

type KsuidGenerator struct {
	timer timer.ITimer
}

func NewKsuidGenerator(timer timer.ITimer) domainKsuid.IKsuid {
	return &KsuidGenerator{timer: timer}
}

// New 時刻部分に timer の現在時刻を使うので、バックアップのディレクトリ名が実行順に並ぶ
func (k *KsuidGenerator) New() string {
	id, err := ksuid.NewRandomWithTime(k.timer.Now())
	if err != nil {
		return ksuid.New().String()
	}
	return id.String()
}
