package datauri

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	b, err := Parse("data:image/png;base64,AAA=")
	require.NoError(t, err)
	assert.Equal(t, "image/png", b.MIMEType)
	assert.Equal(t, []byte{0, 0}, b.Data)
	assert.True(t, b.IsImage())

	b, err = Parse("data:image/png;base64,AAA")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0}, b.Data)

	b, err = Parse("data:,hello%20world")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", b.MIMEType)
	assert.Equal(t, "hello world", string(b.Data))
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("not-a-data-uri")
	assert.True(t, errors.Is(err, ErrNotDataURI))

	_, err = Parse("data:image/png;base64")
	assert.True(t, errors.Is(err, ErrMalformed))

	_, err = Parse("data:image/png;base64,@@@")
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestEncodeRoundTrip(t *testing.T) {
	uri := Encode("application/pdf", []byte("%PDF-1.7"))
	assert.Equal(t, "data:application/pdf;base64,JVBERi0xLjc=", uri)

	b, err := Parse(uri)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(b.Data))
	assert.False(t, b.IsImage())
}
