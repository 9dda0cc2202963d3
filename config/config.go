package config

type Config struct {
	AppName    string `env:"APP_NAME" env-default:"fern"`
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs bool   `env:"PRETTY_LOGS" env-default:"false"`

	// Storage backend: "s3" or "filesystem"
	StorageBackend string `env:"STORAGE_BACKEND" env-default:"s3"`
	// Root directory for the filesystem backend
	StorageLocalRoot string `env:"STORAGE_LOCAL_ROOT" env-default:"./data"`
	// AWS region for the S3 backend
	S3Region string `env:"S3_REGION" env-default:"eu-west-2"`
	// Custom S3 endpoint (LocalStack / MinIO); empty uses AWS
	S3EndpointURL string `env:"S3_ENDPOINT_URL" env-default:""`

	// Bucket holding inputs, step outputs, registers and tarballs
	Bucket string `env:"BUCKET" env-default:""`
	// Transfer register key override
	RegisterKey string `env:"REGISTER_KEY" env-default:""`
	// Max files per tarball
	TarballBatchSize int `env:"TARBALL_BATCH_SIZE" env-default:"10000"`

	// Kafka Producer
	KafkaEnabled      bool     `env:"KAFKA_ENABLED" env-default:"false"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaTopic        string   `env:"KAFKA_TOPIC" env-default:"catalogue-transfers"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"-1"`
	KafkaMaxAttempts  int      `env:"KAFKA_MAX_ATTEMPTS" env-default:"3"`

	// Redis register lock
	RedisEnabled    bool   `env:"REDIS_ENABLED" env-default:"false"`
	RedisHost       string `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort       int    `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword   string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB         int    `env:"REDIS_DB" env-default:"0"`
	LockTTLSeconds  int    `env:"LOCK_TTL_SECONDS" env-default:"60"`
	LockWaitSeconds int    `env:"LOCK_WAIT_SECONDS" env-default:"30"`

	// Tracing
	TracingEnabled bool   `env:"TRACING_ENABLED" env-default:"false"`
	OTLPEndpoint   string `env:"OTLP_ENDPOINT" env-default:"localhost:4318"`
	OTLPInsecure   bool   `env:"OTLP_INSECURE" env-default:"true"`
}
