package deps

import (
	"context"
	"fmt"
	"streemi/internal/config"
	dl "streemi/internal/core/domain/logging"
	"streemi/internal/core/domain/notification"
	drl "streemi/internal/core/domain/rate_limiter"
	duow "streemi/internal/core/domain/unit_of_work"
	"streemi/internal/core/domain/user"
	uow "streemi/internal/db/unit_of_work"
	dbuser "streemi/internal/db/user"
	csrftoken "streemi/internal/implementations/csrf_token"
	"streemi/internal/implementations/logging"
	"streemi/internal/implementations/metrics"
	"streemi/internal/implementations/notifier"
	passwordhasher "streemi/internal/implementations/password_hasher"
	randomstringgenerator "streemi/internal/implementations/random_string_generator"
	ratelimiter "streemi/internal/implementations/rate_limiter"
	"streemi/internal/implementations/session"
	"streemi/internal/rabbitmq"
	notificationsender "streemi/internal/rabbitmq/publishers/notification_sender"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config *config.Config
	Logger dl.Logger

	DB       *pgxpool.Pool
	Redis    *redis.Client
	Rabbitmq *rabbitmq.Connection

	Now func() time.Time

	UnitOfWork        duow.UnitOfWork
	AccountRepository user.AccountRepository

	RateLimiter drl.RateLimiter
	Metrics     *metrics.Prometheus

	PasswordHasher              user.PasswordHasher
	PasswordResetTokenGenerator user.PasswordResetTokenGenerator
	CsrfTokenManager            *csrftoken.HMAC
	CsrfClientIDGenerator       *session.UUID

	// Notifier is used by the reset flow, DeliveryNotifier by the notifier
	// process to deliver queued messages.
	Notifier         notification.Notifier
	DeliveryNotifier notification.Notifier

	closeFuncs []func()
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initLogger()
	deps.initSentry()
	deps.initPgxPool()
	deps.initRedisClient()
	deps.initRabbitmqConnection()

	deps.Now = func() time.Time { return time.Now().UTC() }

	deps.UnitOfWork = uow.NewPgxUnitOfWork(deps.DB)
	deps.AccountRepository = dbuser.NewPgxRepository(deps.DB)

	deps.RateLimiter = deps.initRateLimiter()
	deps.Metrics = metrics.NewPrometheus()

	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.PasswordResetTokenGenerator = randomstringgenerator.NewGenerator()
	deps.CsrfTokenManager = csrftoken.NewHMAC(deps.Config.Secret, deps.Config.CsrfTokenTTL, deps.Now)
	deps.CsrfClientIDGenerator = session.NewUUID()

	deps.Notifier = deps.initNotifier(deps.Config.Notifier)
	deps.DeliveryNotifier = deps.initNotifier(deps.Config.DeliveryNotifier)

	return deps, deps.close
}

// close runs the registered close funcs concurrently and waits for all of them.
func (deps *Deps) close() {
	var wg sync.WaitGroup
	wg.Add(len(deps.closeFuncs))
	for _, closeFunc := range deps.closeFuncs {
		closeFunc := closeFunc
		go func() {
			closeFunc()
			wg.Done()
		}()
	}

	wg.Wait()
}

func (deps *Deps) onClose(f func()) {
	deps.closeFuncs = append(deps.closeFuncs, f)
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initLogger() {
	logger := logging.NewZapLogger(deps.Config.SentryDsn != nil)
	deps.Logger = logger
	deps.onClose(func() { logger.Sync() })
}

func (deps *Deps) initSentry() {
	if deps.Config.SentryDsn == nil {
		deps.Logger.Info(context.Background(), "Sentry is disabled.")
		return
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              deps.Config.SentryDsn.String(),
		TracesSampleRate: 0.01,
	})
	if err != nil {
		panic(fmt.Sprintf("could not init Sentry: %v\n", err))
	}
	deps.Logger.Info(context.Background(), "Sentry has been successfully initialized.")
	deps.onClose(func() {
		ok := sentry.Flush(5 * time.Second)
		deps.Logger.Info(context.Background(), "Sentry events flushed.", dl.Entry("ok", ok))
	})
}

func (deps *Deps) initPgxPool() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	deps.onClose(func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	})
}

func (deps *Deps) initRedisClient() {
	if deps.Config.RedisURL == "" {
		deps.Logger.Info(context.Background(), "Redis is not configured.")
		return
	}
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	deps.onClose(func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	})
}

func (deps *Deps) initRabbitmqConnection() {
	if deps.Config.RabbitmqURL == "" {
		deps.Logger.Info(context.Background(), "RabbitMQ is not configured.")
		return
	}
	rabbitmqConnection, err := rabbitmq.Dial(deps.Config.RabbitmqURL, deps.Logger)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to RabbitMQ.", dl.Entry("err", err))
		panic("could not connect to RabbitMQ")
	}
	deps.Rabbitmq = rabbitmqConnection
	deps.onClose(func() {
		deps.Logger.Info(context.Background(), "Shutting down RabbitMQ connection.")
		rabbitmqConnection.Close()
		deps.Logger.Info(context.Background(), "RabbitMQ connection shut down.")
	})
}

func (deps *Deps) initRateLimiter() drl.RateLimiter {
	if deps.Redis == nil {
		return ratelimiter.NewMemory(deps.Now)
	}
	return ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)
}

func (deps *Deps) initNotifier(kind string) notification.Notifier {
	switch kind {
	case config.NOTIFIER_SES:
		return notifier.NewSES(
			deps.initAwsConfig(),
			deps.Config.AwsEmailSender,
			map[notification.TemplateID]string{
				notification.PasswordReset: deps.Config.AwsEmailPasswordResetTemplate,
			},
		)
	case config.NOTIFIER_SMTP:
		return notifier.NewSMTP(
			notifier.SMTPConfig{
				Host:     deps.Config.SmtpHost,
				Port:     deps.Config.SmtpPort,
				Username: deps.Config.SmtpUsername,
				Password: deps.Config.SmtpPassword,
				From:     deps.Config.SmtpFrom,
				SSL:      deps.Config.SmtpSSL,
				Timeout:  deps.Config.SmtpTimeout,
			},
			notifier.NewRenderer(),
		)
	case config.NOTIFIER_RESEND:
		return notifier.NewResend(deps.Config.ResendApiKey, deps.Config.ResendFrom, notifier.NewRenderer())
	case config.NOTIFIER_AMQP:
		return deps.initRabbitmqNotifier()
	default:
		panic(fmt.Sprintf("unknown notifier %q", kind))
	}
}

func (deps *Deps) initAwsConfig() aws.Config {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	return cfg
}

func (deps *Deps) initRabbitmqNotifier() notification.Notifier {
	rabbitmqChannel, err := deps.Rabbitmq.Channel()
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ channel.", dl.Entry("err", err))
		panic(err)
	}

	queue, err := rabbitmqChannel.DeclareQueue(deps.Config.RabbitmqNotificationQueue)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not create RabbitMQ queue.", dl.Entry("err", err))
		panic(err)
	}

	deps.onClose(func() {
		deps.Logger.Info(context.Background(), "Shutting down notification publisher.")
		rabbitmqChannel.Close()
		deps.Logger.Info(context.Background(), "Notification publisher shut down.")
	})
	return notificationsender.NewRabbitMQ(deps.Logger, rabbitmqChannel, "", queue, deps.Now)
}
