package provider

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	httppkg "github.com/zeduno/paygate/internal/pkg/http"
	"github.com/zeduno/paygate/internal/pkg/models"
)

// flexString decodes a JSON string or number into a string
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string {
	return string(f)
}

func marshalFields(fields map[string]interface{}) []byte {
	data, err := json.Marshal(fields)
	if err != nil {
		return nil
	}
	return data
}

// wholeUnits rounds an amount up to the smallest whole currency unit mobile money accepts
func wholeUnits(amount decimal.Decimal) (int64, error) {
	if !amount.IsPositive() {
		return 0, models.ErrInvalidAmount
	}
	return amount.Ceil().IntPart(), nil
}

// upstreamMessage pulls a human readable message out of a provider error body
func upstreamMessage(err error) string {
	var httpErr *httppkg.HTTPError
	if !errors.As(err, &httpErr) {
		return err.Error()
	}
	var body struct {
		ErrorMessage string `json:"errorMessage"`
		Message      string `json:"message"`
		Error        string `json:"error"`
	}
	if json.Unmarshal(httpErr.Body, &body) == nil {
		for _, m := range []string{body.ErrorMessage, body.Message, body.Error} {
			if m != "" {
				return m
			}
		}
	}
	return fmt.Sprintf("status %d", httpErr.StatusCode)
}
