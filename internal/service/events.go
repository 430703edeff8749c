package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/med_clinic/internal/logging"
	"github.com/Skotchmaster/med_clinic/internal/mykafka"
)

const publishTimeout = 5 * time.Second

// publish is best effort: a broker failure is logged and never fails the caller.
func publish(ctx context.Context, pub mykafka.Publisher, topic, key string, event any) {
	if pub == nil {
		return
	}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := pub.PublishEvent(pubCtx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "key", key, "error", err)
	}
}
