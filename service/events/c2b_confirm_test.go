package events

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	paymentV1 "github.com/antinvestor/apis/go/payment/v1"
	"github.com/antinvestor/mpesa-api/service/business"
	"github.com/antinvestor/mpesa-api/service/coreapi"
	"github.com/antinvestor/mpesa-api/service/models"
	"github.com/antinvestor/mpesa-api/service/repository"
	"github.com/antinvestor/mpesa-api/service/validation"
	"github.com/pitabwire/frame"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc"
)

const confirmURL = "https://example.com/confirm"

func validPayload() *models.ConfirmationPayload {
	return &models.ConfirmationPayload{
		"RequestType":       "Pay",
		"TransactionType":   "Pay Bill",
		"TransID":           "T1",
		"TransTime":         "20230101120000",
		"TransAmount":       "100.00",
		"BusinessShortCode": "600000",
		"BillRefNumber":     "INV001",
		"InvoiceNumber":     "",
		"OrgAccountBalance": "500.00",
		"ThirdPartyTransID": "",
		"MSISDN":            "254700000000",
		"FirstName":         "Jane",
		"MiddleName":        "",
		"LastName":          "Doe",
	}
}

func newEvent(t *testing.T, transport coreapi.Transport, repo repository.ConfirmationRepository, paymentCli paymentV1.PaymentServiceClient) (context.Context, *C2BConfirm) {
	t.Helper()

	ctx, service := frame.NewService("mpesa_api_test")
	t.Cleanup(func() { service.Stop(ctx) })

	validator := validation.New()
	cb, err := business.NewC2BBusiness(transport, validator)
	require.NoError(t, err)

	return ctx, &C2BConfirm{
		Service:         service,
		Business:        cb,
		Validator:       validator,
		Repository:      repo,
		PaymentClient:   paymentCli,
		ConfirmationURL: confirmURL,
		Currency:        "KES",
	}
}

func TestC2BConfirmValidate(t *testing.T) {
	ctrl := gomock.NewController(t)
	_, event := newEvent(t, new(coreapi.MockTransport), repository.NewMockConfirmationRepository(ctrl), nil)

	assert.Equal(t, C2BConfirmEventName, event.Name())
	assert.IsType(t, &models.ConfirmationPayload{}, event.PayloadType())

	assert.NoError(t, event.Validate(context.Background(), validPayload()))

	invalid := validPayload()
	(*invalid)["TransAmount"] = "abc"
	assert.Error(t, event.Validate(context.Background(), invalid))

	assert.Error(t, event.Validate(context.Background(), map[string]any{}))
}

func TestC2BConfirmExecute(t *testing.T) {
	tests := []struct {
		name           string
		transportResp  map[string]any
		transportErr   error
		downstreamErr  bool
		expectedStatus string
		expectReceive  bool
	}{
		{
			name:           "Happy path - confirmation forwarded and reported",
			transportResp:  map[string]any{"status": "ok"},
			expectedStatus: models.ConfirmationStatusForwarded,
			expectReceive:  true,
		},
		{
			name:           "Error - downstream rejects the confirmation",
			transportErr:   &coreapi.TransportError{Method: http.MethodPost, URL: confirmURL, StatusCode: 500, Status: "500 Internal Server Error"},
			downstreamErr:  true,
			expectedStatus: models.ConfirmationStatusFailed,
		},
		{
			name:           "Error - downstream unreachable",
			transportErr:   &coreapi.TransportError{Method: http.MethodPost, URL: confirmURL, Err: assert.AnError},
			downstreamErr:  true,
			expectedStatus: models.ConfirmationStatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			transport := new(coreapi.MockTransport)
			transport.On("Request", mock.Anything, http.MethodPost, confirmURL, mock.Anything).
				Return(tt.transportResp, tt.transportErr).Once()

			repo := repository.NewMockConfirmationRepository(ctrl)
			var saved *models.Confirmation
			repo.EXPECT().Save(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, c *models.Confirmation) error {
					saved = c
					return nil
				}).Times(1)

			paymentCli := paymentV1.NewMockPaymentServiceClient(ctrl)
			if tt.expectReceive {
				paymentCli.EXPECT().Receive(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, req *paymentV1.ReceiveRequest, _ ...grpc.CallOption) (*paymentV1.ReceiveResponse, error) {
						assert.Equal(t, "T1", req.GetData().GetTransactionId())
						assert.Equal(t, "INV001", req.GetData().GetReferenceId())
						assert.Equal(t, int64(100), req.GetData().GetAmount().GetUnits())
						assert.Equal(t, "KES", req.GetData().GetAmount().GetCurrencyCode())
						assert.Equal(t, "Jane Doe", req.GetData().GetSource().GetProfileName())
						return &paymentV1.ReceiveResponse{}, nil
					}).Times(1)
			}

			ctx, event := newEvent(t, transport, repo, paymentCli)

			// Failures are recorded, not returned, so the queue does not redeliver.
			require.NoError(t, event.Execute(ctx, validPayload()))

			require.NotNil(t, saved)
			assert.Equal(t, tt.expectedStatus, saved.Status)
			assert.Equal(t, "T1", saved.TransID)
			assert.Equal(t, confirmURL, saved.DestinationURL)
			if tt.downstreamErr {
				assert.NotEmpty(t, saved.Error)
			} else {
				assert.Equal(t, "ok", saved.Response["status"])
			}
			transport.AssertNumberOfCalls(t, "Request", 1)
		})
	}
}

func TestC2BConfirmExecuteWithoutPaymentClient(t *testing.T) {
	ctrl := gomock.NewController(t)

	transport := new(coreapi.MockTransport)
	transport.On("Request", mock.Anything, http.MethodPost, confirmURL, mock.Anything).
		Return(map[string]any{}, nil).Once()

	repo := repository.NewMockConfirmationRepository(ctrl)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(assert.AnError).Times(1)

	ctx, event := newEvent(t, transport, repo, nil)

	assert.NoError(t, event.Execute(ctx, validPayload()))
	transport.AssertExpectations(t)
}

func TestC2BConfirmForwardsQueuedPayloadUnchanged(t *testing.T) {
	received := validPayload()
	(*received)["TransAmount"] = json.Number("12345678901234567.89")
	(*received)["OrgAccountBalance"] = "500.00"

	// frame serializes emitted payloads and decodes them into PayloadType on the queue side.
	raw, err := json.Marshal(received)
	require.NoError(t, err)

	ctrl := gomock.NewController(t)

	var forwarded map[string]any
	transport := new(coreapi.MockTransport)
	transport.On("Request", mock.Anything, http.MethodPost, confirmURL, mock.Anything).
		Run(func(args mock.Arguments) {
			forwarded = args.Get(3).(map[string]any)
		}).
		Return(map[string]any{}, nil).Once()

	repo := repository.NewMockConfirmationRepository(ctrl)
	var saved *models.Confirmation
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, c *models.Confirmation) error {
			saved = c
			return nil
		}).Times(1)

	ctx, event := newEvent(t, transport, repo, nil)

	queued := event.PayloadType()
	require.NoError(t, json.Unmarshal(raw, queued))
	require.NoError(t, event.Validate(ctx, queued))
	require.NoError(t, event.Execute(ctx, queued))

	assert.Equal(t, map[string]any(*received), forwarded)
	assert.Equal(t, json.Number("12345678901234567.89"), forwarded["TransAmount"])
	require.NotNil(t, saved)
	assert.True(t, saved.Amount.Decimal.Equal(decimal.RequireFromString("12345678901234567.89")))
}
