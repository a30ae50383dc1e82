package protocol

import (
	"errors"
	"reflect"
	"testing"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		submission Submission
	}{
		{
			name:       "simple message",
			submission: Submission{"username": "krabaton", "message": "First message"},
		},
		{
			name:       "empty submission",
			submission: Submission{},
		},
		{
			name:       "single field",
			submission: Submission{"name": "Ann"},
		},
		{
			name:       "values with spaces and symbols",
			submission: Submission{"message": "Hi there & welcome!", "tag": "a=b"},
		},
		{
			name:       "unicode values",
			submission: Submission{"name": "Зиновій", "message": "Привіт"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Encode(tt.submission)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			decoded, err := Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if !reflect.DeepEqual(decoded, tt.submission) {
				t.Errorf("Round trip mismatch: sent %v, got %v", tt.submission, decoded)
			}
		})
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "not JSON", data: []byte("not json at all")},
		{name: "empty input", data: []byte{}},
		{name: "JSON array", data: []byte(`["a", "b"]`)},
		{name: "JSON string", data: []byte(`"hello"`)},
		{name: "JSON null", data: []byte(`null`)},
		{name: "non-string value", data: []byte(`{"count": 3}`)},
		{name: "nested object", data: []byte(`{"outer": {"inner": "x"}}`)},
		{name: "truncated object", data: []byte(`{"name": "An`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if err == nil {
				t.Fatal("Expected error but got none")
			}
			if !errors.Is(err, ErrMalformedPayload) {
				t.Errorf("Expected ErrMalformedPayload, got %v", err)
			}
		})
	}
}

func TestParseForm(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected Submission
	}{
		{
			name:     "two fields",
			body:     "name=Ann&message=Hi+there",
			expected: Submission{"name": "Ann", "message": "Hi there"},
		},
		{
			name:     "percent escapes",
			body:     "message=a%26b%3Dc",
			expected: Submission{"message": "a&b=c"},
		},
		{
			name:     "last duplicate key wins",
			body:     "name=first&name=second",
			expected: Submission{"name": "second"},
		},
		{
			name:     "empty value",
			body:     "name=",
			expected: Submission{"name": ""},
		},
		{
			name:     "key without equals",
			body:     "flag",
			expected: Submission{"flag": ""},
		},
		{
			name:     "empty body",
			body:     "",
			expected: Submission{},
		},
		{
			name:     "invalid percent escape in value kept undecoded",
			body:     "name=%zz",
			expected: Submission{"name": "%zz"},
		},
		{
			name:     "invalid percent escape in key kept undecoded",
			body:     "%zz=value",
			expected: Submission{"%zz": "value"},
		},
		{
			name:     "bad escape in one token does not affect the rest",
			body:     "name=%zz&message=Hi+there",
			expected: Submission{"name": "%zz", "message": "Hi there"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseForm([]byte(tt.body))

			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestParseFormThenEncodeFits(t *testing.T) {
	// A typical form body stays well under the datagram size bound.
	s := ParseForm([]byte("username=krabaton&message=First+message"))

	data, err := Encode(s)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if len(data) > 1024 {
		t.Errorf("Encoded payload unexpectedly large: %d bytes", len(data))
	}
}
