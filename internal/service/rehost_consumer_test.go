package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ai-studio-be/internal/entity"
	"ai-studio-be/internal/pkg/logger"
	"ai-studio-be/internal/repository/specification"
	"ai-studio-be/internal/service"
	internalWS "ai-studio-be/internal/websocket"
	"ai-studio-be/pkg/storage"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRehostConsumer_CopiesAndRewritesUrl(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer upstream.Close()

	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "http://localhost:3000/uploads")
	require.NoError(t, err)

	mediaId := uuid.New()
	providerUrl := upstream.URL + "/out/result.png?sig=abc"
	uow := e.factory.NewUnitOfWork(ctx)
	require.NoError(t, uow.MediaRepository().Create(ctx, &entity.Media{
		Id:          mediaId,
		UserId:      "user_1",
		Url:         providerUrl,
		ProviderUrl: providerUrl,
		Source:      "ai-image-generator",
		Model:       "black-forest-labs/flux-schnell",
		Kind:        entity.MediaKindImage,
	}))

	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	consumer := service.NewRehostConsumer(pubsub, "media.generated", e.factory, store, e.pushes, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	payload, err := json.Marshal(service.MediaGeneratedMessage{
		MediaId:     mediaId,
		UserId:      "user_1",
		ProviderUrl: providerUrl,
		Kind:        entity.MediaKindImage,
	})
	require.NoError(t, err)
	require.NoError(t, pubsub.Publish("media.generated", message.NewMessage(watermill.NewUUID(), payload)))

	want := "http://localhost:3000/uploads/media/user_1/" + mediaId.String() + ".png"
	require.Eventually(t, func() bool {
		m, err := e.factory.NewUnitOfWork(ctx).MediaRepository().FindOne(ctx, specification.ByID{ID: mediaId})
		return err == nil && m != nil && m.Url == want
	}, 2*time.Second, 20*time.Millisecond)

	data, err := os.ReadFile(filepath.Join(dir, "media", "user_1", mediaId.String()+".png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.Eventually(t, func() bool {
		return e.pushes.count(internalWS.EventMediaReady) == 1
	}, time.Second, 10*time.Millisecond)
}

func TestRehostConsumer_DownloadFailureKeepsProviderUrl(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	defer upstream.Close()

	store, err := storage.NewLocalStore(t.TempDir(), "http://localhost:3000/uploads")
	require.NoError(t, err)

	mediaId := uuid.New()
	providerUrl := upstream.URL + "/expired.png"
	require.NoError(t, e.factory.NewUnitOfWork(ctx).MediaRepository().Create(ctx, &entity.Media{
		Id: mediaId, UserId: "user_1", Url: providerUrl, ProviderUrl: providerUrl,
		Source: "sdxl", Model: "stability-ai/sdxl", Kind: entity.MediaKindImage,
	}))

	pubsub := gochannel.NewGoChannel(gochannel.Config{BlockPublishUntilSubscriberAck: true}, watermill.NopLogger{})
	defer pubsub.Close()

	consumer := service.NewRehostConsumer(pubsub, "media.generated", e.factory, store, e.pushes, logger.NewNopLogger())
	require.NoError(t, consumer.Consume(ctx))

	payload, _ := json.Marshal(service.MediaGeneratedMessage{MediaId: mediaId, UserId: "user_1", ProviderUrl: providerUrl})
	msg := message.NewMessage(watermill.NewUUID(), payload)
	require.NoError(t, pubsub.Publish("media.generated", msg))

	m, err := e.factory.NewUnitOfWork(ctx).MediaRepository().FindOne(ctx, specification.ByID{ID: mediaId})
	require.NoError(t, err)
	assert.Equal(t, providerUrl, m.Url)
	assert.Zero(t, e.pushes.count(internalWS.EventMediaReady))
}
