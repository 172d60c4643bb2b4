package internal

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// CountryNumericCode maps an ISO 3166-1 alpha-2 code to its three-digit numeric code ("ES" -> "724").
func CountryNumericCode(alpha2 string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(alpha2))
	if len(code) != 2 {
		return "", fmt.Errorf("%w: %q", ErrUnknownCountry, alpha2)
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() || region.M49() == 0 {
		return "", fmt.Errorf("%w: %q", ErrUnknownCountry, alpha2)
	}
	return fmt.Sprintf("%03d", region.M49()), nil
}
