package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrMalformedPayload is returned by Decode when the datagram bytes are not
// a JSON object of string-to-string pairs.
var ErrMalformedPayload = errors.New("malformed payload")

// Submission is the parsed form data from one HTTP POST: a flat mapping from
// field name to field value. Duplicate field names resolve last-write-wins.
type Submission map[string]string

// Encode serializes a submission to canonical JSON bytes for transport.
// It never fails for in-memory string maps.
func Encode(s Submission) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode submission: %w", err)
	}
	return data, nil
}

// Decode parses JSON datagram bytes into a submission. Anything that is not
// a JSON object mapping strings to strings is rejected as malformed.
func Decode(data []byte) (Submission, error) {
	var s Submission
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: JSON null is not an object", ErrMalformedPayload)
	}
	return s, nil
}

// ParseForm parses an application/x-www-form-urlencoded request body into a
// submission. Pairs are separated by '&', keys from values by the first '=',
// and both sides are URL-decoded ('+' decodes to space). The last value for
// a repeated key wins. A token with a bad percent escape is kept undecoded
// rather than failing the submission.
func ParseForm(body []byte) Submission {
	s := make(Submission)

	for _, pair := range strings.Split(string(body), "&") {
		if pair == "" {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")

		// Last value for a repeated key wins.
		s[unescape(key)] = unescape(value)
	}

	return s
}

// unescape URL-decodes one form token, falling back to the raw token when
// it does not decode.
func unescape(token string) string {
	decoded, err := url.QueryUnescape(token)
	if err != nil {
		return token
	}
	return decoded
}
