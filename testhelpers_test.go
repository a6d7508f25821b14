//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.uber.org/zap"

	"github.com/Kilat-Pet-Delivery/service-subscription/internal/application"
	subEvents "github.com/Kilat-Pet-Delivery/service-subscription/internal/events"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/handler"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/database"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/health"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/platform/kafka"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/repository"
	"github.com/Kilat-Pet-Delivery/service-subscription/internal/server"
)

const subscriptionTopic = "subscription.events"

// testInfra holds shared test infrastructure.
type testInfra struct {
	Client       *mongo.Client
	Collection   *mongo.Collection
	KafkaBrokers []string
	Cleanup      func()
}

// setupMongo starts a MongoDB testcontainer and returns a connected client.
func setupMongo(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err, "failed to start MongoDB container")

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := database.MongoConfig{
		URL:            uri,
		Database:       "webhook_test",
		Collection:     "subscriptions_" + uuid.New().String()[:8],
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    10,
		RetryAttempts:  5,
		RetryInterval:  time.Second,
	}
	client, err := database.Connect(ctx, cfg, zap.NewNop())
	require.NoError(t, err, "MongoDB not ready for connections")

	return &testInfra{
		Client:     client,
		Collection: database.Collection(client, cfg),
		Cleanup: func() {
			_ = client.Disconnect(ctx)
			if err := testcontainers.TerminateContainer(mongoContainer); err != nil {
				t.Logf("failed to terminate MongoDB container: %v", err)
			}
		},
	}
}

// setupKafka starts a Kafka testcontainer and pre-creates the subscription topic.
func setupKafka(t *testing.T, infra *testInfra) {
	t.Helper()
	ctx := context.Background()

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	brokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")
	createTopics(t, brokers, subscriptionTopic)

	infra.KafkaBrokers = brokers
	mongoCleanup := infra.Cleanup
	infra.Cleanup = func() {
		if err := testcontainers.TerminateContainer(kafkaContainer); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		mongoCleanup()
	}
}

// newStack wires the HTTP stack against the real collection. The publisher is
// only attached when Kafka brokers are available.
func newStack(t *testing.T, infra *testInfra) (*gin.Engine, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger, _ := zap.NewDevelopment()

	var publisher application.EventPublisher
	closeFn := func() {}
	if len(infra.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(infra.KafkaBrokers, logger)
		publisher = subEvents.NewSubscriptionEventPublisher(producer, subscriptionTopic, logger)
		closeFn = func() { _ = producer.Close() }
	}

	repo := repository.NewMongoSubscriptionRepository(infra.Collection)
	svc := application.NewSubscriptionService(repo, publisher, logger)
	router := server.NewRouter(server.Options{
		Logger:              logger,
		SubscriptionHandler: handler.NewSubscriptionHandler(svc),
		HealthHandler:       health.NewHandler(database.Healthcheck(infra.Client), "service-subscription"),
		CORSAllowedOrigins:  []string{"*"},
	})
	return router, closeFn
}

// consumeEvents reads n CloudEvents from topic.
func consumeEvents(t *testing.T, brokers []string, topic string, n int, timeout time.Duration) []kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     fmt.Sprintf("test-assert-%s", uuid.New().String()[:8]),
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	var out []kafka.CloudEvent
	for len(out) < n {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for %d events on topic %q, got %d", n, topic, len(out))
			}
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		out = append(out, ce)
	}
	return out
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	require.NoError(t, controllerConn.CreateTopics(topicConfigs...), "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
