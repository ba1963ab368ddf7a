package main

import (
	"context"
	"net/url"
	"strings"
	"time"

	paymentV1 "github.com/antinvestor/apis/go/payment/v1"
	"github.com/antinvestor/mpesa-api/config"
	"github.com/antinvestor/mpesa-api/service/business"
	"github.com/antinvestor/mpesa-api/service/coreapi"
	"github.com/antinvestor/mpesa-api/service/events"
	"github.com/antinvestor/mpesa-api/service/handlers"
	"github.com/antinvestor/mpesa-api/service/models"
	"github.com/antinvestor/mpesa-api/service/repository"
	"github.com/antinvestor/mpesa-api/service/router"
	"github.com/antinvestor/mpesa-api/service/validation"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/retry"
	"github.com/nats-io/nats.go"
	"github.com/pitabwire/frame"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
)

const natsConnectAttempts = 5

func main() {
	serviceName := "service_mpesa_api"
	ctx := context.Background()

	mpesaConfig, err := frame.ConfigFromEnv[config.MpesaConfig]()
	if err != nil {
		logrus.WithError(err).Fatal("could not load config")
	}

	ctx, service := frame.NewServiceWithContext(ctx, serviceName, frame.WithConfig(&mpesaConfig))
	defer service.Stop(ctx)

	logger := service.Log(ctx).WithField("type", "main")
	logger.Info("starting service...")

	service.Init(ctx, frame.WithDatastore())

	if mpesaConfig.DoDatabaseMigrate() {
		err = service.MigrateDatastore(ctx, mpesaConfig.GetDatabaseMigrationPath(), &models.Confirmation{})
		if err != nil {
			logger.WithError(err).Fatal("could not migrate successfully")
		}
		return
	}

	db := service.DB(ctx, false)
	if db == nil {
		logger.Fatal("database connection is nil - check DATABASE_URL and database availability")
		return
	}
	if err = db.AutoMigrate(&models.Confirmation{}); err != nil {
		logger.WithError(err).Fatal("failed to auto-migrate database tables")
		return
	}

	transport := coreapi.New(
		time.Duration(mpesaConfig.HTTPTimeoutSeconds)*time.Second,
		coreapi.WithAccessToken(mpesaConfig.AccessToken),
	)
	validator := validation.New()

	c2bBusiness, err := business.NewC2BBusiness(transport, validator)
	if err != nil {
		logger.WithError(err).Fatal("could not setup c2b business")
	}

	confirmationRepo := repository.NewConfirmationRepository(service)

	var paymentClient paymentV1.PaymentServiceClient
	if mpesaConfig.PaymentServiceURI != "" {
		clientConn, dialErr := grpc.NewClient(
			mpesaConfig.PaymentServiceURI,
			grpc.WithTransportCredentials(insecure.NewCredentials()),
			grpc.WithUnaryInterceptor(retry.UnaryClientInterceptor(
				retry.WithMax(3),
				retry.WithBackoff(retry.BackoffExponential(100*time.Millisecond)),
				retry.WithCodes(codes.Unavailable, codes.ResourceExhausted),
			)),
		)
		if dialErr != nil {
			logger.WithError(dialErr).Error("failed to connect to payment service")
		} else {
			defer clientConn.Close()
			paymentClient = paymentV1.NewPaymentServiceClient(clientConn)
			logger.WithField("endpoint", mpesaConfig.PaymentServiceURI).Info("payment service client ready")
		}
	} else {
		logger.Warn("PAYMENT_SERVICE_URI not set, payments will not be reported")
	}

	server := &handlers.C2BServer{
		Service:         service,
		Business:        c2bBusiness,
		Validator:       validator,
		Repository:      confirmationRepo,
		ConfirmationURL: mpesaConfig.ConfirmationURL,
	}

	confirmEvent := &events.C2BConfirm{
		Service:         service,
		Business:        c2bBusiness,
		Validator:       validator,
		Repository:      confirmationRepo,
		PaymentClient:   paymentClient,
		ConfirmationURL: mpesaConfig.ConfirmationURL,
		Currency:        mpesaConfig.Currency,
		ConfirmedTopic:  mpesaConfig.ConfirmedTopic,
	}

	serviceOptions := []frame.Option{
		frame.WithHTTPHandler(router.NewRouter(server)),
		frame.WithRegisterEvents(confirmEvent),
	}

	if mpesaConfig.ConfirmedTopic != "" {
		publishURL := publisherURL(ctx, service, mpesaConfig.NATS_URL, mpesaConfig.ConfirmedTopic)
		logger.WithField("topic", mpesaConfig.ConfirmedTopic).WithField("url", publishURL).Info("registering outcome publisher")
		serviceOptions = append(serviceOptions, frame.WithRegisterPublisher(mpesaConfig.ConfirmedTopic, publishURL))
	}

	service.Init(ctx, serviceOptions...)

	logger.WithField("confirmation_url", mpesaConfig.ConfirmationURL).Info("mpesa api service started on port 8080")
	if runErr := service.Run(ctx, ":8080"); runErr != nil {
		logger.WithError(runErr).Fatal("failed to run mpesa api service")
	}
}

// publisherURL returns a NATS url carrying the topic subject, or an in-memory url when NATS is unreachable.
func publisherURL(ctx context.Context, service *frame.Service, natsURL, topic string) string {
	logger := service.Log(ctx).WithField("natsURL", natsURL)

	if strings.HasPrefix(natsURL, "mem://") {
		return "mem://" + topic
	}
	if !strings.HasPrefix(natsURL, "nats://") {
		logger.Warn("NATS_URL missing 'nats://' prefix; assuming host:port format")
		natsURL = "nats://" + natsURL
	}

	for attempt := 1; attempt <= natsConnectAttempts; attempt++ {
		nc, err := nats.Connect(natsURL, nats.Timeout(2*time.Second))
		if err != nil {
			logger.WithError(err).WithField("attempt", attempt).Warn("failed to connect to NATS, retrying after delay")
			time.Sleep(2 * time.Second)
			continue
		}
		nc.Close()

		parsed, err := url.Parse(natsURL)
		if err != nil {
			logger.WithError(err).Warn("invalid NATS_URL, falling back to memory pubsub")
			return "mem://" + topic
		}
		query := parsed.Query()
		query.Set("subject", topic)
		parsed.RawQuery = query.Encode()
		return parsed.String()
	}

	logger.WithField("retries", natsConnectAttempts).Warn("NATS unreachable, falling back to memory pubsub")
	return "mem://" + topic
}
