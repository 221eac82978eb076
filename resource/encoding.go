package resource

import (
	"encoding/base64"
	"fmt"
	"hash/crc32"
	"strings"

	"github.com/portalkit/portalkit/faults"
)

// EncodeValue converts a local value to its wire form. Text is base64
// encoded; binary values are base64 already and pass through.
func EncodeValue(kind Kind, value string) string {
	if kind == KindBinary {
		return value
	}
	return base64.StdEncoding.EncodeToString([]byte(value))
}

// DecodeValue converts a wire value back to its local form.
func DecodeValue(kind Kind, wire string) (string, error) {
	if kind == KindBinary {
		return wire, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(wire)
	if err != nil {
		return "", faults.NewValidationError("invalid base64 resource data", err)
	}
	return string(decoded), nil
}

// ValueFromBytes turns file content into a resource value.
func ValueFromBytes(kind Kind, data []byte) string {
	if kind == KindBinary {
		return base64.StdEncoding.EncodeToString(data)
	}
	return string(data)
}

// ValueBytes turns a resource value into file content.
func ValueBytes(kind Kind, value string) ([]byte, error) {
	if kind == KindBinary {
		decoded, err := base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, faults.NewValidationError("invalid base64 binary resource", err)
		}
		return decoded, nil
	}
	return []byte(value), nil
}

// Checksum is the CRC32 (IEEE) of data in lowercase hex, the checksum the
// backend compares for optimistic concurrency.
func Checksum(data []byte) string {
	return fmt.Sprintf("%08x", crc32.ChecksumIEEE(data))
}

var mediaTypeExtensions = []struct {
	mediaType  string
	extensions []string
}{
	{mediaType: "image/png", extensions: []string{".png"}},
	{mediaType: "image/jpeg", extensions: []string{".jpeg", ".jpg", ".jpe"}},
	{mediaType: "image/gif", extensions: []string{".gif"}},
}

// MediaTypeToExtension maps an image media type to the extension used in
// resource paths.
func MediaTypeToExtension(mediaType string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(mediaType))
	if idx := strings.Index(normalized, ";"); idx >= 0 {
		normalized = strings.TrimSpace(normalized[:idx])
	}
	for _, entry := range mediaTypeExtensions {
		if entry.mediaType == normalized {
			return entry.extensions[0], nil
		}
	}
	return "", faults.NewTypedError(faults.UnsupportedFormatError, fmt.Sprintf("unsupported media type %q", mediaType), nil)
}

// ExtensionToMediaType is the inverse of MediaTypeToExtension and also knows
// the alternative JPEG extensions.
func ExtensionToMediaType(extension string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(extension))
	if normalized != "" && !strings.HasPrefix(normalized, ".") {
		normalized = "." + normalized
	}
	for _, entry := range mediaTypeExtensions {
		for _, candidate := range entry.extensions {
			if candidate == normalized {
				return entry.mediaType, nil
			}
		}
	}
	return "", faults.NewTypedError(faults.UnsupportedFormatError, fmt.Sprintf("unsupported file extension %q", extension), nil)
}
