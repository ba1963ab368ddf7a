package events

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	commonv1 "github.com/antinvestor/apis/go/common/v1"
	paymentV1 "github.com/antinvestor/apis/go/payment/v1"
	"github.com/antinvestor/mpesa-api/service/business"
	"github.com/antinvestor/mpesa-api/service/models"
	"github.com/antinvestor/mpesa-api/service/repository"
	"github.com/antinvestor/mpesa-api/service/utility"
	"github.com/antinvestor/mpesa-api/service/validation"
	"github.com/pitabwire/frame"
)

const C2BConfirmEventName = "mpesa.c2b.confirm"

// C2BConfirm forwards a received C2B confirmation and records the outcome.
type C2BConfirm struct {
	Service    *frame.Service
	Business   business.C2BBusiness
	Validator  validation.Validator
	Repository repository.ConfirmationRepository

	// Optional, nil skips reporting the payment to the payment service.
	PaymentClient paymentV1.PaymentServiceClient

	ConfirmationURL string
	Currency        string
	// Optional, empty skips publishing the outcome.
	ConfirmedTopic string
}

func (event *C2BConfirm) Name() string {
	return C2BConfirmEventName
}

func (event *C2BConfirm) PayloadType() any {
	return &models.ConfirmationPayload{}
}

func (event *C2BConfirm) Validate(_ context.Context, payload any) error {
	confirmation, ok := payload.(*models.ConfirmationPayload)
	if !ok {
		return errors.New("invalid payload type, expected *models.ConfirmationPayload")
	}
	return event.Validator.Validate(*confirmation, models.ConfirmationSchema)
}

func (event *C2BConfirm) Execute(ctx context.Context, payload any) error {
	confirmation, ok := payload.(*models.ConfirmationPayload)
	if !ok {
		return errors.New("invalid payload type, expected *models.ConfirmationPayload")
	}

	logger := event.Service.Log(ctx).
		WithField("type", event.Name()).
		WithField("trans_id", confirmation.String("TransID"))
	logger.Debug("handling event")

	record := models.NewConfirmation(*confirmation, event.ConfirmationURL, event.Currency)

	response, err := event.Business.Confirm(ctx, *confirmation, event.ConfirmationURL)
	if err != nil {
		logger.WithError(err).Warn("could not forward confirmation")
		record.MarkFailed(err)
	} else {
		record.MarkForwarded(response)
	}

	if saveErr := event.Repository.Save(ctx, record); saveErr != nil {
		logger.WithError(saveErr).Warn("could not save confirmation record")
	}

	if event.ConfirmedTopic != "" {
		if pubErr := event.Service.Publish(ctx, event.ConfirmedTopic, outcome(record)); pubErr != nil {
			logger.WithError(pubErr).Warn("could not publish confirmation outcome")
		}
	}

	// A returned error makes frame redeliver the message, so failures stop at the audit record.
	if err != nil {
		logger.WithError(err).Error("confirmation forwarding failed")
		return nil
	}

	if notifyErr := event.notifyPaymentService(ctx, record); notifyErr != nil {
		logger.WithError(notifyErr).Error("failed to report payment to payment service")
	}

	logger.WithField("status", record.Status).Info("confirmation forwarded")
	return nil
}

func outcome(record *models.Confirmation) map[string]string {
	return map[string]string{
		"id":              record.GetID(),
		"trans_id":        record.TransID,
		"status":          record.Status,
		"destination_url": record.DestinationURL,
		"error":           record.Error,
	}
}

func (event *C2BConfirm) notifyPaymentService(ctx context.Context, record *models.Confirmation) error {
	if event.PaymentClient == nil || !record.Amount.Valid {
		return nil
	}

	payload := models.ConfirmationPayload(record.Payload)
	customerName := strings.Join(strings.Fields(strings.Join([]string{
		payload.String("FirstName"),
		payload.String("MiddleName"),
		payload.String("LastName"),
	}, " ")), " ")

	extra := map[string]string{
		"trans_time":          record.TransTime,
		"transaction_type":    record.TransactionType,
		"business_short_code": record.BusinessShortCode,
		"confirmation_id":     record.GetID(),
	}
	if raw, err := json.Marshal(record.Payload); err == nil {
		extra["raw_confirmation"] = string(raw)
	}

	payment := &paymentV1.Payment{
		TransactionId: record.TransID,
		ReferenceId:   record.BillRefNumber,
		Amount:        utility.ToMoney(record.Currency, record.Amount.Decimal),
		Source: &commonv1.ContactLink{
			ContactId:   record.MSISDN,
			Detail:      record.MSISDN,
			ProfileName: customerName,
		},
		Recipient: &commonv1.ContactLink{
			ContactId: record.BusinessShortCode,
			Detail:    record.BusinessShortCode,
		},
		Extra: extra,
	}

	_, err := event.PaymentClient.Receive(ctx, &paymentV1.ReceiveRequest{Data: payment})
	return err
}
