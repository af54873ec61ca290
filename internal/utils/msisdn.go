package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/zeduno/paygate/internal/pkg/models"
)

// DefaultCountryCode replaces a leading trunk zero
const DefaultCountryCode = "254"

// Region is a supported mobile money numbering plan
type Region struct {
	Country  string
	Code     string
	Currency string
	pattern  *regexp.Regexp
}

// Regions lists the East African numbering plans mobile money can be pushed to
var Regions = []Region{
	{Country: "Kenya", Code: "254", Currency: "KES", pattern: regexp.MustCompile(`^254[17]\d{8}$`)},
	{Country: "Uganda", Code: "256", Currency: "UGX", pattern: regexp.MustCompile(`^256[37]\d{8}$`)},
	{Country: "Tanzania", Code: "255", Currency: "TZS", pattern: regexp.MustCompile(`^255[67]\d{8}$`)},
	{Country: "Rwanda", Code: "250", Currency: "RWF", pattern: regexp.MustCompile(`^250[78]\d{8}$`)},
	{Country: "Burundi", Code: "257", Currency: "BIF", pattern: regexp.MustCompile(`^257[68]\d{7}$`)},
	{Country: "DR Congo", Code: "243", Currency: "CDF", pattern: regexp.MustCompile(`^243[89]\d{8}$`)},
	{Country: "South Sudan", Code: "211", Currency: "SSP", pattern: regexp.MustCompile(`^211[19]\d{8}$`)},
}

var msisdnNoise = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// NormalizeMSISDN returns the number in international form without a plus sign,
// e.g. "0712 345-678" becomes "254712345678"
func NormalizeMSISDN(msisdn string) (string, *Region, error) {
	stripped := msisdnNoise.Replace(strings.TrimSpace(msisdn))
	stripped = strings.TrimPrefix(stripped, "+")

	if strings.HasPrefix(stripped, "0") {
		stripped = DefaultCountryCode + stripped[1:]
	}

	for i := range Regions {
		if Regions[i].pattern.MatchString(stripped) {
			return stripped, &Regions[i], nil
		}
	}

	return "", nil, fmt.Errorf("%w: %q does not match a supported numbering plan", models.ErrInvalidPhoneNumber, msisdn)
}
