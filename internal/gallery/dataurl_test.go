package gallery

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDataURL(t *testing.T) {
	data := []byte{0x89, 0x50, 0x4e, 0x47}
	url := EncodeDataURL(data)

	assert.Equal(t, "data:image/jpeg;base64,"+base64.StdEncoding.EncodeToString(data), url)
}

func TestDecodeDataURL(t *testing.T) {
	payload := []byte("hello image bytes")
	encoded := "data:image/png;base64," + base64.StdEncoding.EncodeToString(payload)

	decoded, err := DecodeDataURL(encoded)
	require.NoError(t, err)
	assert.Equal(t, payload, decoded)
}

func TestDecodeDataURLOnlyFirstCommaSplits(t *testing.T) {
	// payload that itself decodes fine after the first comma
	payload := base64.StdEncoding.EncodeToString([]byte("x"))
	decoded, err := DecodeDataURL("data:image/jpeg;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, []byte("x"), decoded)
}

func TestDecodeDataURLErrors(t *testing.T) {
	_, err := DecodeDataURL("no comma here")
	assert.Error(t, err)

	_, err = DecodeDataURL("data:image/jpeg;base64,!!!not-base64!!!")
	assert.Error(t, err)
}

func TestSplitTags(t *testing.T) {
	assert.Equal(t, []string{}, SplitTags(""))
	assert.Equal(t, []string{"cat"}, SplitTags("cat"))
	assert.Equal(t, []string{"cat", "dog", "bird"}, SplitTags("cat,dog,bird"))
}
