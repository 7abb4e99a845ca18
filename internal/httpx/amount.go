package httpx

import (
	"bytes"
	"encoding/json"
	"errors"
)

var errAmountType = errors.New("amount must be a string or a number")

// Amount is a monetary request field. Clients may send it as a JSON string
// ("50.25") or a JSON number (50.25); both keep their literal text so the
// decimal parser sees exactly what was sent. null decodes to "".
type Amount string

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*a = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errAmountType
	}
	*a = Amount(n.String())
	return nil
}

func (a Amount) String() string { return string(a) }
