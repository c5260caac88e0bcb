// FILE: internal/service/rehost_consumer.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/repository/unitofwork"
	internalWS "ai-studio-be/internal/websocket"
	"ai-studio-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill/message"
)

const rehostModule = "REHOST"

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// rehostConsumer copies provider-hosted results into our object store.
// Provider URLs expire, so the media row is pointed at the copy once it lands.
type rehostConsumer struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	store      storage.ObjectStore
	httpClient *http.Client
	notifier   Notifier
	logger     logger.ILogger
}

func NewRehostConsumer(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	store storage.ObjectStore,
	notifier Notifier,
	logger logger.ILogger,
) IConsumerService {
	return &rehostConsumer{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		store:      store,
		httpClient: &http.Client{Timeout: 2 * time.Minute},
		notifier:   notifierOrNoop(notifier),
		logger:     logger,
	}
}

func (c *rehostConsumer) Consume(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			c.processMessage(ctx, msg)
		}
	}()

	return nil
}

// processMessage always acks. A failed copy leaves the provider URL in place.
func (c *rehostConsumer) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	var payload MediaGeneratedMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.logger.Error(rehostModule, "Invalid message payload", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}

	url, err := c.rehost(ctx, payload)
	if err != nil {
		c.logger.Warn(rehostModule, "Rehost failed, keeping provider URL", map[string]interface{}{
			"media_id": payload.MediaId.String(),
			"error":    err.Error(),
		})
		return
	}

	uow := c.uowFactory.NewUnitOfWork(ctx)
	if err := uow.MediaRepository().UpdateUrl(ctx, payload.MediaId, url); err != nil {
		c.logger.Error(rehostModule, "Failed to update media URL", map[string]interface{}{
			"media_id": payload.MediaId.String(),
			"error":    err.Error(),
		})
		return
	}

	c.logger.Info(rehostModule, "Media rehosted", map[string]interface{}{
		"media_id": payload.MediaId.String(),
		"url":      url,
	})

	c.notifier.Send(payload.UserId, internalWS.EventMediaReady, map[string]interface{}{
		"media_id": payload.MediaId.String(),
		"url":      url,
	})
}

func (c *rehostConsumer) rehost(ctx context.Context, payload MediaGeneratedMessage) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, payload.ProviderUrl, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return "", fmt.Errorf("download: status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	key := fmt.Sprintf("media/%s/%s%s", payload.UserId, payload.MediaId, extensionFor(payload.ProviderUrl, contentType))

	return c.store.Put(ctx, key, contentType, resp.Body)
}

func extensionFor(url, contentType string) string {
	clean := url
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	if ext := path.Ext(clean); ext != "" && len(ext) <= 5 {
		return strings.ToLower(ext)
	}
	if contentType != "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			return exts[0]
		}
	}
	return ""
}
