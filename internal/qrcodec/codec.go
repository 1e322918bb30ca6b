// Package qrcodec decodes the key/value text encoding carried by warehouse
// QR codes. A payload is a sequence of fields separated by '|', each field
// a key=value pair split on the first '=' (values may contain '='), e.g.
//
//	name=Widget|category=Tools|quantity=5
package qrcodec

import (
	"strconv"
	"strings"

	"stock-ingest/internal/model"
)

// Recognized payload keys. Anything else is ignored.
const (
	keyName     = "name"
	keyCategory = "category"
	keyQuantity = "quantity"
)

// Decode parses a raw QR payload into a ScanEvent. It is a pure function:
// decoding the same input twice yields identical results, which is what
// makes stored payloads safe to replay.
func Decode(raw string) (*model.ScanEvent, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, model.ErrEmptyPayload
	}

	var name, category, quantity string
	var quantitySeen bool

	for _, field := range strings.Split(trimmed, "|") {
		key, value, ok := strings.Cut(field, "=")
		if !ok {
			// Fields without '=' carry no data.
			continue
		}

		switch strings.TrimSpace(key) {
		case keyName:
			name = strings.TrimSpace(value)
		case keyCategory:
			category = strings.TrimSpace(value)
		case keyQuantity:
			quantity = strings.TrimSpace(value)
			quantitySeen = true
		}
	}

	if name == "" {
		return nil, model.NewMissingFieldError(keyName)
	}
	if category == "" {
		return nil, model.NewMissingFieldError(keyCategory)
	}
	if !quantitySeen || quantity == "" {
		return nil, model.NewMissingFieldError(keyQuantity)
	}

	qty, err := parseQuantity(quantity)
	if err != nil {
		return nil, err
	}

	return &model.ScanEvent{
		Name:     name,
		Category: category,
		Quantity: qty,
	}, nil
}

// parseQuantity accepts digits-only literals strictly greater than zero.
// Signs, decimals and exponents are rejected, so "-1" is an invalid
// quantity rather than a negative one.
func parseQuantity(token string) (int64, error) {
	for _, r := range token {
		if r < '0' || r > '9' {
			return 0, model.ErrInvalidQuantity
		}
	}

	qty, err := strconv.ParseInt(token, 10, 64)
	if err != nil || qty <= 0 {
		return 0, model.ErrInvalidQuantity
	}

	return qty, nil
}
