package internal

import (
	"context"
	"errors"
	"fmt"
	"math"
	"redsys-orders/entity"
	"redsys-orders/services"
	"strings"

	"gitee.com/golang-module/dongle"
)

const (
	moduleTag = "catgento_redsys"

	authInfoGuest    = "01"
	authInfoCustomer = "02"
)

// Payments builds Redsys payment requests for storefront orders.
// It reads the order once per request and performs no network I/O.
type Payments struct {
	orders     services.OrderStore
	config     services.ConfigResolver
	urls       services.URLBuilder
	signer     services.Signer
	logger     services.LogHandler
	requestUrl string
}

func NewPayments(orders services.OrderStore, config services.ConfigResolver, urls services.URLBuilder, signer services.Signer) *Payments {
	return &Payments{
		orders: orders,
		config: config,
		urls:   urls,
		signer: signer,
		logger: nopLogger{},
	}
}

func (p *Payments) SetLogger(logger services.LogHandler) {
	p.logger = logger
}

// SetRequestUrl sets the gateway form action returned with signed requests.
func (p *Payments) SetRequestUrl(requestUrl string) {
	p.requestUrl = requestUrl
}

// SignedRequest builds the parameters for an order and signs them with the scope's merchant secret.
func (p *Payments) SignedRequest(ctx context.Context, orderId, scope string, loggedIn bool) (*entity.PaymentRequest, error) {
	settings, err := ResolveSettings(ctx, p.config, scope)
	if err != nil {
		observeRequest(scope, "config_missing")
		return nil, err
	}
	parameters, err := p.build(ctx, orderId, settings, loggedIn)
	if err != nil {
		return nil, err
	}
	request, err := p.signer.Sign(parameters, settings.Secret)
	if err != nil {
		observeRequest(scope, "sign_failed")
		return nil, err
	}
	request.Url = p.requestUrl
	observeRequest(scope, "ok")
	p.logger.Info(fmt.Sprintf("order %s: payment request signed; amount %d; currency %s", parameters.Order, parameters.Amount, parameters.Currency))
	return request, nil
}

// BuildRequest returns the merchant parameters for an order without signing them.
func (p *Payments) BuildRequest(ctx context.Context, orderId, scope string, loggedIn bool) (*entity.MerchantRequest, error) {
	settings, err := ResolveSettings(ctx, p.config, scope)
	if err != nil {
		observeRequest(scope, "config_missing")
		return nil, err
	}
	return p.build(ctx, orderId, settings, loggedIn)
}

func (p *Payments) build(ctx context.Context, orderId string, settings *entity.MerchantSettings, loggedIn bool) (*entity.MerchantRequest, error) {
	order, err := p.orders.GetOrder(ctx, orderId)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			observeRequest(settings.Scope, "not_found")
		}
		return nil, fmt.Errorf("get order %s: %w", orderId, err)
	}

	parameters, err := p.newMerchantRequest(order, settings, loggedIn)
	if err != nil {
		observeRequest(settings.Scope, "incomplete")
		p.logger.Warn(fmt.Sprintf("order %s: %v", orderId, err))
		return nil, err
	}
	return parameters, nil
}

func (p *Payments) newMerchantRequest(order *entity.Order, settings *entity.MerchantSettings, loggedIn bool) (*entity.MerchantRequest, error) {
	if total := order.GrandTotal; total == nil || math.IsNaN(*total) || math.IsInf(*total, 0) || *total < 0 {
		return nil, incomplete("grand total")
	}
	if order.Currency == "" {
		return nil, incomplete("currency")
	}
	currency, ok := currencyNumericCode(order.Currency)
	if !ok {
		return nil, incomplete("unsupported currency %s", order.Currency)
	}
	emv3ds, err := p.emv3dsData(order, loggedIn)
	if err != nil {
		return nil, err
	}

	params := map[string]string{"order_id": order.IncrementId}
	merchantUrl := p.urls.GetUrl(routeResult, params)

	return &entity.MerchantRequest{
		Amount:             AmountInCents(*order.GrandTotal),
		Order:              order.IncrementId,
		MerchantCode:       settings.CommerceNum,
		Currency:           currency,
		TransactionType:    settings.TransactionType,
		Terminal:           settings.Terminal,
		MerchantUrl:        merchantUrl,
		UrlOk:              p.urls.GetUrl(routeOkResult, params),
		UrlKo:              p.urls.GetUrl(routeKoResult, params),
		ConsumerLanguage:   consumerLanguage(settings.Locale),
		ProductDescription: productDescription(order),
		Titular:            fmt.Sprintf("%s %s/ Email: %s", order.CustomerFirstname, order.CustomerLastname, order.CustomerEmail),
		MerchantData:       merchantData(merchantUrl),
		MerchantName:       settings.CommerceName,
		PayMethods:         settings.PayMethods,
		Module:             moduleTag,
		EMV3DS:             *emv3ds,
	}, nil
}

// emv3dsData fills the 3DS address block. Both country fields come from the billing address.
func (p *Payments) emv3dsData(order *entity.Order, loggedIn bool) (*entity.EMV3DSData, error) {
	billing := order.BillingAddress
	shipping := order.ShippingAddress
	if billing.StreetLine(0) == "" {
		return nil, incomplete("billing street")
	}
	if shipping.StreetLine(0) == "" {
		return nil, incomplete("shipping street")
	}

	data := &entity.EMV3DSData{
		CardholderName:     order.CustomerFirstname + " " + order.CustomerLastname,
		Email:              order.CustomerEmail,
		ShipAddrLine1:      shipping.StreetLine(0),
		ShipAddrLine2:      shipping.StreetLine(1),
		ShipAddrCity:       shipping.City,
		ShipAddrPostCode:   shipping.Postcode,
		BillAddrLine1:      billing.StreetLine(0),
		BillAddrLine2:      billing.StreetLine(1),
		BillAddrCity:       billing.City,
		BillAddrPostCode:   billing.Postcode,
		AuthenticationInfo: authInfoGuest,
	}
	if loggedIn {
		data.AuthenticationInfo = authInfoCustomer
	}

	country, err := CountryNumericCode(billing.CountryId)
	if err != nil {
		observeUnknownCountry(billing.CountryId)
		p.logger.Warn(fmt.Sprintf("order %s: country fields omitted: %v", order.IncrementId, err))
	} else {
		data.ShipAddrCountry = country
		data.BillAddrCountry = country
	}
	return data, nil
}

// productDescription lists visible items as "<name>X<qty>/".
func productDescription(order *entity.Order) string {
	var sb strings.Builder
	for _, item := range order.VisibleItems() {
		sb.WriteString(item.Name)
		sb.WriteString("X")
		sb.WriteString(formatQty(item.QtyToInvoice()))
		sb.WriteString("/")
	}
	return sb.String()
}

// merchantData is the SHA-1 hex digest of the notification URL; the gateway echoes it back unchanged.
func merchantData(merchantUrl string) string {
	return dongle.Encrypt.FromString(merchantUrl).BySha1().ToHexString()
}

type nopLogger struct{}

func (nopLogger) Debug(string)        {}
func (nopLogger) Info(string)         {}
func (nopLogger) Warn(string)         {}
func (nopLogger) Error(string, error) {}
