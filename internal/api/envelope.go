package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// CodeOK is the envelope code that marks success.
const CodeOK = 200

// envelope is the uniform response wrapper used by the platform API.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// decodeBody normalizes a 2xx response body into result. Any object
// carrying a code field is an envelope: code 200 is unwrapped and every
// other value, including non-numeric ones, becomes a BusinessError.
// Anything else is decoded as-is.
func decodeBody(body []byte, result any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}

	env, ok := parseEnvelope(trimmed)
	if !ok {
		return decodeRaw(trimmed, result)
	}
	if env.Code != CodeOK {
		msg := env.Message
		if msg == "" {
			msg = "request failed"
		}
		return &BusinessError{Code: env.Code, Message: msg}
	}
	return decodeRaw(env.Data, result)
}

// parseEnvelope reports whether body is an object with a code key. A code
// that is not an integer is reported as 0.
func parseEnvelope(body []byte) (envelope, bool) {
	var fields map[string]json.RawMessage
	if body[0] != '{' || json.Unmarshal(body, &fields) != nil {
		return envelope{}, false
	}
	rawCode, ok := fields["code"]
	if !ok {
		return envelope{}, false
	}

	env := envelope{Code: envelopeCode(rawCode), Data: fields["data"]}
	if raw, ok := fields["message"]; ok {
		if json.Unmarshal(raw, &env.Message) != nil {
			env.Message = ""
		}
	}
	return env, true
}

func envelopeCode(raw json.RawMessage) int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == 'n' || raw[0] == '"' {
		return 0
	}
	var f float64
	if json.Unmarshal(raw, &f) != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0
	}
	return int(f)
}

// decodeRaw stores data into result. *[]byte receives the bytes untouched
// and *string receives a JSON string's value or, failing that, the raw
// text. Other targets are JSON-decoded.
func decodeRaw(data []byte, result any) error {
	if result == nil {
		return nil
	}

	switch dst := result.(type) {
	case *[]byte:
		*dst = append((*dst)[:0], data...)
		return nil
	case *string:
		if json.Unmarshal(data, dst) != nil {
			*dst = string(data)
		}
		return nil
	}

	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("decoding response payload: %w", err)
	}
	return nil
}

// serverMessage extracts the message field of an error body, if any.
func serverMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	return env.Message
}
