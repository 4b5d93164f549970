// Package dataurl converts between raw image bytes and base64 data URLs, the
// interchange format used by the generation API and the platform clients.
package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const defaultMIME = "image/png"

// Encode builds a data URL from raw bytes and a MIME type.
func Encode(data []byte, mimeType string) string {
	if strings.TrimSpace(mimeType) == "" {
		mimeType = defaultMIME
	}
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// Decode parses a data URL back into raw bytes and its MIME type.
func Decode(dataURL string) ([]byte, string, error) {
	dataURL = strings.TrimSpace(dataURL)
	if !strings.HasPrefix(dataURL, "data:") {
		return nil, "", errors.New("dataurl: missing data: prefix")
	}
	comma := strings.IndexByte(dataURL, ',')
	if comma < 0 {
		return nil, "", errors.New("dataurl: missing payload separator")
	}
	meta := dataURL[len("data:"):comma]
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", errors.New("dataurl: only base64 payloads are supported")
	}
	mimeType := strings.TrimSuffix(meta, ";base64")
	if mimeType == "" {
		mimeType = defaultMIME
	}
	data, err := base64.StdEncoding.DecodeString(dataURL[comma+1:])
	if err != nil {
		return nil, "", fmt.Errorf("dataurl: decode payload: %w", err)
	}
	return data, mimeType, nil
}

// MIMEType extracts the MIME type of a data URL, or the PNG default when the
// value is not a recognizable data URL.
func MIMEType(dataURL string) string {
	if _, mime, err := Decode(dataURL); err == nil {
		return mime
	}
	return defaultMIME
}

// StripPrefix returns the bare base64 payload of a data URL. Values without a
// data: prefix are assumed to already be bare base64 and returned unchanged.
func StripPrefix(value string) string {
	if idx := strings.IndexByte(value, ','); idx >= 0 && strings.HasPrefix(value, "data:") {
		return value[idx+1:]
	}
	return value
}

// DecodeLoose accepts either a full data URL or a bare base64 string and
// returns the raw bytes. The platform upload steps take both shapes.
func DecodeLoose(value string) ([]byte, error) {
	if strings.HasPrefix(strings.TrimSpace(value), "data:") {
		data, _, err := Decode(value)
		return data, err
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return nil, fmt.Errorf("dataurl: decode base64: %w", err)
	}
	return data, nil
}
