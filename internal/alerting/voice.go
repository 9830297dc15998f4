package alerting

import (
	"context"

	"go.uber.org/zap"
)

// VoiceStub is the demo alert channel: it logs the message instead of
// placing a real call and always reports delivery.
type VoiceStub struct {
	log *zap.Logger
}

func NewVoiceStub(log *zap.Logger) *VoiceStub {
	return &VoiceStub{log: log}
}

func (v *VoiceStub) SendAlert(ctx context.Context, message string) (bool, error) {
	v.log.Info("voice alert placed", zap.String("message", message))
	return true, nil
}
