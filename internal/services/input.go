package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NullableInt records whether a field was present in the request and, if
// so, whether it was null. Ids arrive either as JSON numbers or as
// numeric strings from form-backed clients; an empty string is null.
type NullableInt struct {
	Set   bool
	Value *int
}

func (n *NullableInt) UnmarshalJSON(data []byte) error {
	n.Set = true
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}

	var value int
	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			n.Value = nil
			return nil
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid id %q", raw)
		}
		value = parsed
	} else if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = &value
	return nil
}

// Some returns a NullableInt holding value.
func Some(value int) NullableInt {
	return NullableInt{Set: true, Value: &value}
}

// checkDecimal enforces a NUMERIC(digits, places) column shape.
func checkDecimal(errs fieldErrors, field string, value decimal.Decimal, digits, places int32) {
	if !value.Equal(value.Round(places)) {
		errs.add(field, "Ensure that there are no more than "+strconv.Itoa(int(places))+" decimal places.")
		return
	}
	if value.Abs().GreaterThanOrEqual(decimal.New(1, digits-places)) {
		errs.add(field, "Ensure that there are no more than "+strconv.Itoa(int(digits))+" digits in total.")
	}
}
