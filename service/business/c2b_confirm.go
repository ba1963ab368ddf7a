package business

import (
	"context"
	"net/http"

	"github.com/antinvestor/mpesa-api/service/coreapi"
	"github.com/antinvestor/mpesa-api/service/models"
	"github.com/antinvestor/mpesa-api/service/validation"
)

// C2BBusiness forwards validated C2B confirmations to a callback url.
type C2BBusiness interface {
	Confirm(ctx context.Context, payload models.ConfirmationPayload, destinationURL string) (map[string]any, error)
}

type c2bBusiness struct {
	transport coreapi.Transport
	validator validation.Validator
}

func NewC2BBusiness(transport coreapi.Transport, validator validation.Validator) (C2BBusiness, error) {
	if transport == nil || validator == nil {
		return nil, ErrorInitializationFail
	}
	return &c2bBusiness{
		transport: transport,
		validator: validator,
	}, nil
}

// Confirm validates the payload and posts it to destinationURL.
// The transport's response and error are returned as they are.
func (cb *c2bBusiness) Confirm(ctx context.Context, payload models.ConfirmationPayload, destinationURL string) (map[string]any, error) {
	if err := cb.validator.Validate(payload, models.ConfirmationSchema); err != nil {
		return nil, err
	}
	if destinationURL == "" {
		return nil, ErrorMissingDestination
	}

	return cb.transport.Request(ctx, http.MethodPost, destinationURL, payload)
}
