package internal

import "strings"

// ISO 4217 numeric codes accepted by Redsys terminals.
var currencyCodes = map[string]string{
	"EUR": "978",
	"USD": "840",
	"GBP": "826",
	"JPY": "392",
	"CHF": "756",
	"CAD": "124",
	"AUD": "036",
	"SEK": "752",
	"DKK": "208",
	"NOK": "578",
	"PLN": "985",
	"CZK": "203",
	"HUF": "348",
	"RON": "946",
	"BGN": "975",
	"MXN": "484",
	"ARS": "032",
	"BRL": "986",
	"CLP": "152",
	"COP": "170",
	"PEN": "604",
	"MAD": "504",
	"CNY": "156",
	"RUB": "643",
	"TRY": "949",
}

func currencyNumericCode(code string) (string, bool) {
	numeric, ok := currencyCodes[strings.ToUpper(strings.TrimSpace(code))]
	return numeric, ok
}
