package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/antinvestor/mpesa-api/service/validation"
	"github.com/pitabwire/frame"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	ConfirmationStatusForwarded = "forwarded"
	ConfirmationStatusFailed    = "failed"
)

// ConfirmationPayload is the C2B confirmation body Safaricom posts once a customer pays.
type ConfirmationPayload map[string]any

// ConfirmationSchema lists every field a confirmation must carry.
//
// LastName is required like the rest of the fields.
var ConfirmationSchema = validation.Schema{
	{Name: "RequestType", Rules: []validation.Rule{validation.Required, validation.StringType}},
	{Name: "TransactionType", Rules: []validation.Rule{validation.Required, validation.StringType}},
	{Name: "TransID", Rules: []validation.Rule{validation.Required, validation.StringType}},
	{Name: "TransTime", Rules: []validation.Rule{validation.Required, validation.StringType}},
	{Name: "TransAmount", Rules: []validation.Rule{validation.Required, validation.NumericType}},
	{Name: "BusinessShortCode", Rules: []validation.Rule{validation.Required, validation.StringType}},
	{Name: "BillRefNumber", Rules: []validation.Rule{validation.Required, validation.StringType}},
	{Name: "InvoiceNumber", Rules: []validation.Rule{validation.Required, validation.StringType}},
	{Name: "OrgAccountBalance", Rules: []validation.Rule{validation.Required, validation.StringType}},
	{Name: "ThirdPartyTransID", Rules: []validation.Rule{validation.Required, validation.StringType}},
	{Name: "MSISDN", Rules: []validation.Rule{validation.Required, validation.StringType}},
	{Name: "FirstName", Rules: []validation.Rule{validation.Required, validation.StringType}},
	{Name: "MiddleName", Rules: []validation.Rule{validation.Required, validation.StringType}},
	{Name: "LastName", Rules: []validation.Rule{validation.Required, validation.StringType}},
}

// String returns the field as a string, empty when absent or not a string.
func (p ConfirmationPayload) String(key string) string {
	val, _ := p[key].(string)
	return val
}

// UnmarshalJSON keeps numbers as json.Number so a payload survives queue round trips unchanged.
func (p *ConfirmationPayload) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	*p = raw
	return nil
}

// Amount parses TransAmount, returning an invalid NullDecimal when it cannot be read.
func (p ConfirmationPayload) Amount() decimal.NullDecimal {
	value := p["TransAmount"]
	if !validation.IsNumeric(value) {
		return decimal.NullDecimal{}
	}

	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	case json.Number:
		raw = v.String()
	case float64:
		return decimal.NullDecimal{Valid: true, Decimal: decimal.NewFromFloat(v)}
	case float32:
		return decimal.NullDecimal{Valid: true, Decimal: decimal.NewFromFloat32(v)}
	default:
		raw = fmt.Sprint(v)
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Valid: true, Decimal: amount}
}

// Confirmation Table records every confirmation the service tried to forward.
type Confirmation struct {
	frame.BaseModel

	TransID           string              `gorm:"type:varchar(50);index"`
	TransTime         string              `gorm:"type:varchar(20)"`
	TransactionType   string              `gorm:"type:varchar(50)"`
	BusinessShortCode string              `gorm:"type:varchar(20)"`
	BillRefNumber     string              `gorm:"type:varchar(100)"`
	MSISDN            string              `gorm:"type:varchar(20)"`
	Amount            decimal.NullDecimal `gorm:"type:numeric" json:"amount"`
	Currency          string              `gorm:"type:varchar(10)"`
	DestinationURL    string              `gorm:"type:varchar(255)"`
	Status            string              `gorm:"type:varchar(20)"`
	Error             string              `gorm:"type:text"`
	Payload           datatypes.JSONMap   `json:"payload"`
	Response          datatypes.JSONMap   `json:"response"`
}

// NewConfirmation builds an audit record for a payload sent to destinationURL.
func NewConfirmation(payload ConfirmationPayload, destinationURL, currency string) *Confirmation {
	return &Confirmation{
		TransID:           payload.String("TransID"),
		TransTime:         payload.String("TransTime"),
		TransactionType:   payload.String("TransactionType"),
		BusinessShortCode: payload.String("BusinessShortCode"),
		BillRefNumber:     payload.String("BillRefNumber"),
		MSISDN:            payload.String("MSISDN"),
		Amount:            payload.Amount(),
		Currency:          currency,
		DestinationURL:    destinationURL,
		Payload:           datatypes.JSONMap(payload),
	}
}

// MarkForwarded records the downstream response.
func (model *Confirmation) MarkForwarded(response map[string]any) {
	model.Status = ConfirmationStatusForwarded
	model.Response = datatypes.JSONMap(response)
	model.Error = ""
}

// MarkFailed records why forwarding did not succeed.
func (model *Confirmation) MarkFailed(err error) {
	model.Status = ConfirmationStatusFailed
	if err != nil {
		model.Error = err.Error()
	}
}

func (model *Confirmation) IsForwarded() bool {
	return model.Status == ConfirmationStatusForwarded
}
