package entity

// MerchantRequest represents Redsys redirect-payment parameters describing one checkout attempt.
// JSON names are the gateway wire names; the struct is Base64-encoded and signed before submission.
type MerchantRequest struct {
	// Amount in cents (e.g., "1050" = 10.50 EUR), sent as a JSON string
	Amount int64 `json:"DS_MERCHANT_AMOUNT,string"`
	// Order increment id as shown to the customer
	Order string `json:"DS_MERCHANT_ORDER"`
	// Merchant code assigned by Redsys
	MerchantCode string `json:"DS_MERCHANT_MERCHANTCODE"`
	// ISO 4217 numeric currency code (978 = EUR)
	Currency string `json:"DS_MERCHANT_CURRENCY"`
	// Transaction type: "0" = Authorization, "1" = Pre-authorization
	TransactionType string `json:"DS_MERCHANT_TRANSACTIONTYPE"`
	// Terminal number assigned by Redsys
	Terminal string `json:"DS_MERCHANT_TERMINAL"`
	// Notification endpoint called by Redsys server-to-server
	MerchantUrl string `json:"DS_MERCHANT_MERCHANTURL"`
	// Customer redirect after a successful payment
	UrlOk string `json:"DS_MERCHANT_URLOK"`
	// Customer redirect after a failed payment
	UrlKo              string `json:"DS_MERCHANT_URLKO"`
	ConsumerLanguage   string `json:"Ds_Merchant_ConsumerLanguage"`
	ProductDescription string `json:"Ds_Merchant_ProductDescription"`
	Titular            string `json:"Ds_Merchant_Titular"`
	// SHA-1 of MerchantUrl, echoed back by Redsys in notifications
	MerchantData string `json:"Ds_Merchant_MerchantData"`
	MerchantName string `json:"Ds_Merchant_MerchantName"`
	PayMethods   string `json:"Ds_Merchant_PayMethods"`
	Module       string `json:"Ds_Merchant_Module"`
	// EMV3DS holds cardholder and address data for 3-D Secure 2 (PSD2 SCA)
	EMV3DS EMV3DSData `json:"DS_MERCHANT_EMV3DS"`
}

// EMV3DSData is the DS_MERCHANT_EMV3DS object. Optional keys are omitted when empty.
type EMV3DSData struct {
	CardholderName   string `json:"cardholderName"`
	Email            string `json:"Email"`
	ShipAddrLine1    string `json:"shipAddrLine1"`
	ShipAddrLine2    string `json:"shipAddrLine2,omitempty"`
	ShipAddrCity     string `json:"shipAddrCity"`
	ShipAddrPostCode string `json:"shipAddrPostCode"`
	ShipAddrCountry  string `json:"shipAddrCountry,omitempty"`
	BillAddrLine1    string `json:"billAddrLine1"`
	BillAddrLine2    string `json:"billAddrLine2,omitempty"`
	BillAddrCity     string `json:"billAddrCity"`
	BillAddrPostCode string `json:"billAddrPostCode"`
	BillAddrCountry  string `json:"billAddrCountry,omitempty"`
	// "01" = guest checkout, "02" = customer authenticated with the merchant
	AuthenticationInfo string `json:"threeDSRequestorAuthenticationInfo"`
}
