package entity

// PaymentRequest is the signed form posted by the customer's browser to the gateway.
type PaymentRequest struct {
	Url              string `json:"url,omitempty"`
	Parameters       string `json:"Ds_MerchantParameters"`
	Signature        string `json:"Ds_Signature"`
	SignatureVersion string `json:"Ds_SignatureVersion"`
}
