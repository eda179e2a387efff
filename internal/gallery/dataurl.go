package gallery

import (
	"encoding/base64"
	"errors"
	"strings"
)

// The data-URL label is fixed to JPEG regardless of the actual image format,
// matching the wire format clients already rely on.
const dataURLPrefix = "data:image/jpeg;base64,"

// EncodeDataURL 将图片字节编码为 data-URL
func EncodeDataURL(data []byte) string {
	return dataURLPrefix + base64.StdEncoding.EncodeToString(data)
}

// DecodeDataURL decodes the base64 payload after the first comma of a
// data-URL-style string.
func DecodeDataURL(s string) ([]byte, error) {
	_, payload, found := strings.Cut(s, ",")
	if !found {
		return nil, errors.New("invalid image data: missing base64 payload")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// SplitTags 将逗号分隔的标签串拆分为列表，空串返回空列表
func SplitTags(tags string) []string {
	if tags == "" {
		return []string{}
	}
	return strings.Split(tags, ",")
}
