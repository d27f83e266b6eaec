package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/scribe-research/backend/internal/queue"
	"github.com/scribe-research/backend/internal/util"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/scribe-research/backend/pkg/ai"
	"github.com/scribe-research/backend/pkg/ai/openai"
	"github.com/scribe-research/backend/pkg/logger"
	"github.com/scribe-research/backend/pkg/logger/console"

	"github.com/jackc/pgx/v5/pgxpool"
)

// maxRetries is how often a failed job is requeued before it lands in
// the DLQ.
const maxRetries = 10

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	var aiClient ai.Client
	if client := openai.NewClient(openai.NewClientParams{
		Model:   util.GetEnv("AI_CHAT_MODEL"),
		BaseURL: util.GetEnv("AI_CHAT_URL"),
		APIKey:  util.GetEnv("AI_CHAT_KEY"),
	}); client != nil {
		aiClient = client
	} else {
		logger.Info("No model backend configured, using heuristic mind maps")
	}

	pgConn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()

	conn := queue.Init()
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.MindMapQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	if err := ch.Qos(1, 0, true); err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := ch.Consume(
		queue.MindMapQueue,
		"mindmap_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.MindMapQueue, "err", err)
	}

	logger.Info("Listening for messages", "queue", queue.MindMapQueue)

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case msg, ok := <-msgs:
				if !ok {
					logger.Info("Message channel closed")
					return
				}

				startTime := time.Now()
				logger.Info("Received message", "queue", queue.MindMapQueue)

				processingErr := queue.ProcessMindMapMessage(ctx, aiClient, pgConn, string(msg.Body))
				if processingErr != nil {
					logger.Error("Error processing message", "queue", queue.MindMapQueue, "err", processingErr)
					handleProcessingError(ch, msg, queue.MindMapQueue)
				} else {
					if err := msg.Ack(false); err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					logger.Info("Message processed successfully", "queue", queue.MindMapQueue)
				}

				if aiClient != nil {
					metrics := aiClient.GetMetrics()
					logger.Info(
						"AI Metrics",
						"input_tokens", metrics.InputTokens,
						"output_tokens", metrics.OutputTokens,
						"total_tokens", metrics.TotalTokens,
						"duration_ms", metrics.DurationMs,
					)
					aiClient.ResetMetrics()
				}

				logger.Info("Processing time", "duration", time.Since(startTime).Round(time.Millisecond).String())
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}

func handleProcessingError(ch *amqp.Channel, msg amqp.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	if retries >= maxRetries {
		dlqName := queueName + "_dlq"
		logger.Info("Sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        msg.Body,
				Headers:     msg.Headers,
			},
		)
		if pubErr != nil {
			logger.Error("Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	retryName := queueName + "_retry"
	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-retries"] = int32(retries + 1)

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if pubErr != nil {
		logger.Error("Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
