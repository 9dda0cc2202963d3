// Command fern runs one invocation of the catalogue transformation
// pipeline: a single transformation step for one record, or the finalize
// phase for a whole execution. The event payload is read from a file or
// stdin and the status-coded result is printed to stdout, so a workflow
// engine can chain invocations.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/Ramsey-B/fern/config"
	"github.com/Ramsey-B/fern/pkg/kafka"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/orchestrator"
	"github.com/Ramsey-B/fern/pkg/redis"
	"github.com/Ramsey-B/fern/pkg/storage"
	"github.com/Ramsey-B/fern/pkg/tracing"
	"github.com/Ramsey-B/fern/pkg/transformers"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	eventPath := flag.String("event", "", "path to the event JSON (default: stdin)")
	flag.Parse()

	if err := run(*eventPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(eventPath string) error {
	_ = godotenv.Load()

	var cfg config.Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return fmt.Errorf("failed to read configuration: %w", err)
	}

	logger, flush, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer flush()

	ctx := context.Background()

	if cfg.TracingEnabled {
		shutdown, err := tracing.Init(ctx, cfg.AppName, tracing.OTLPConfig{
			Endpoint: cfg.OTLPEndpoint,
			Insecure: cfg.OTLPInsecure,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer shutdown(context.Background())
	}

	transformers.Register()

	store, err := newStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	opts := orchestrator.Options{
		RegisterKey: cfg.RegisterKey,
		BatchSize:   cfg.TarballBatchSize,
		LockTTL:     time.Duration(cfg.LockTTLSeconds) * time.Second,
		LockTimeout: time.Duration(cfg.LockWaitSeconds) * time.Second,
	}

	if cfg.RedisEnabled {
		client, err := redis.NewClient(redis.Config{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			return err
		}
		defer client.Close()
		opts.Locker = redis.NewLocker(client, "fern:")
	}

	if cfg.KafkaEnabled {
		producer, err := kafka.NewProducer(kafka.ProducerConfig{
			Brokers:      cfg.KafkaBrokers,
			Topic:        cfg.KafkaTopic,
			BatchTimeout: time.Duration(cfg.KafkaBatchTimeout) * time.Millisecond,
			RequiredAcks: cfg.KafkaRequiredAcks,
			MaxAttempts:  cfg.KafkaMaxAttempts,
			WriteTimeout: 10 * time.Second,
		}, logger)
		if err != nil {
			return err
		}
		defer producer.Close()
		opts.Producer = producer
	}

	orch := orchestrator.New(store, logger, opts)

	payload, err := readEvent(eventPath)
	if err != nil {
		return err
	}

	result, statusCode, err := dispatch(ctx, orch, payload)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	if statusCode != http.StatusOK {
		os.Exit(1)
	}
	return nil
}

// dispatch routes the payload by shape: step events carry a
// transformation_index, finalize events carry a final_step.
func dispatch(ctx context.Context, orch *orchestrator.Orchestrator, payload []byte) (any, int, error) {
	var probe struct {
		TransformationIndex *int `json:"transformation_index"`
		FinalStep           *int `json:"final_step"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, 0, fmt.Errorf("event is not valid JSON: %w", err)
	}

	switch {
	case probe.TransformationIndex != nil:
		var event models.StepEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, 0, fmt.Errorf("invalid step event: %w", err)
		}
		result := orch.RunStep(ctx, event)
		return result, result.StatusCode, nil
	case probe.FinalStep != nil:
		var event models.FinalizeEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, 0, fmt.Errorf("invalid finalize event: %w", err)
		}
		result := orch.Finalize(ctx, event)
		return result, result.StatusCode, nil
	default:
		return nil, 0, fmt.Errorf("event names neither transformation_index nor final_step")
	}
}

func readEvent(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func newStore(ctx context.Context, cfg config.Config, logger ectologger.Logger) (storage.ObjectStore, error) {
	switch cfg.StorageBackend {
	case "filesystem":
		return storage.NewFilesystemStore(cfg.StorageLocalRoot, logger), nil
	case "s3":
		return storage.NewS3Store(ctx, storage.S3Config{
			Region:      cfg.S3Region,
			EndpointURL: cfg.S3EndpointURL,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend '%s'", cfg.StorageBackend)
	}
}

// newLogger sinks structured log messages into zap.
func newLogger(cfg config.Config) (ectologger.Logger, func(), error) {
	var zlog *zap.Logger
	var err error
	if cfg.PrettyLogs {
		zlog, err = zap.NewDevelopment()
	} else {
		zlog, err = zap.NewProduction()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build logger: %w", err)
	}

	logger := ectologger.NewEctoLogger(func(msg ectologger.EctoLogMessage) {
		zlog.Info(cfg.AppName, zap.Any("entry", msg))
	})

	return logger, func() { _ = zlog.Sync() }, nil
}
