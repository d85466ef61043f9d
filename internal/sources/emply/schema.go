package emply

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// listingSchema is the top-level contract of the postings endpoint. Record
// shapes are checked one by one while mapping.
const listingSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Emply postings listing",
  "type": "array",
  "items": {}
}`

var listingSchemaLoader = gojsonschema.NewStringLoader(listingSchema)

// validateListing checks that body is a JSON array.
func validateListing(body []byte) error {
	result, err := gojsonschema.Validate(listingSchemaLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("response is not valid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return fmt.Errorf("unexpected response shape: %s", strings.Join(msgs, "; "))
}
