package helpers

import (
	"encoding/base64"
	"errors"
	"net/url"
	"strings"
)

var ErrNotDataURL = errors.New("not a data URL")

type DataURL struct {
	MimeType string
	Data     string
	IsBase64 bool
}

// ParseDataURL splits "data:<mime>[;params][;base64],<data>". Parameters
// such as "charset=utf-8" stay part of the MIME type.
func ParseDataURL(text string) (DataURL, bool) {
	if !strings.HasPrefix(text, "data:") {
		return DataURL{}, false
	}
	comma := strings.IndexByte(text, ',')
	if comma == -1 {
		return DataURL{}, false
	}

	parsed := DataURL{
		MimeType: text[len("data:"):comma],
		Data:     text[comma+1:],
	}
	if strings.HasSuffix(parsed.MimeType, ";base64") {
		parsed.MimeType = parsed.MimeType[:len(parsed.MimeType)-len(";base64")]
		parsed.IsBase64 = true
	}
	return parsed, true
}

func (parsed DataURL) DecodeData() (string, error) {
	if parsed.IsBase64 {
		// Some tools emit base64 without the trailing padding
		data := strings.TrimSpace(parsed.Data)
		decoded, err := base64.StdEncoding.DecodeString(data)
		if err != nil {
			decoded, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "="))
			if err != nil {
				return "", err
			}
		}
		return string(decoded), nil
	}
	return url.PathUnescape(parsed.Data)
}

func DecodeDataURL(text string) (string, error) {
	parsed, ok := ParseDataURL(text)
	if !ok {
		return "", ErrNotDataURL
	}
	return parsed.DecodeData()
}

func EncodeBase64DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
