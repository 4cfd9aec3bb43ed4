package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	"github.com/ruivfernandes/tally/internal/encoding"
)

func TestUTF8Reader_UTF8Passthrough(t *testing.T) {
	// Valid UTF-8 with accented characters should pass through unchanged.
	input := `{"expenses":[{"title":"Café da Manhã","amount":12.5}]}`
	r, err := encoding.UTF8Reader(bytes.NewReader([]byte(input)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, string(got))
}

func TestUTF8Reader_UTF8BOM(t *testing.T) {
	// UTF-8 BOM (0xEF 0xBB 0xBF) should be stripped.
	bom := []byte{0xEF, 0xBB, 0xBF}
	content := []byte(`{"expenses":[]}`)

	r, err := encoding.UTF8Reader(bytes.NewReader(append(bom, content...)))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, string(content), string(got))
}

func TestUTF8Reader_UTF16LEBOM(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	input, err := enc.Bytes([]byte(`{"expenses":[{"title":"Café"}]}`))
	require.NoError(t, err)

	r, err := encoding.UTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, `{"expenses":[{"title":"Café"}]}`, string(got))
}

func TestUTF8Reader_UTF16BEBOM(t *testing.T) {
	enc := unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewEncoder()
	input, err := enc.Bytes([]byte(`{"expenses":[]}`))
	require.NoError(t, err)

	r, err := encoding.UTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, `{"expenses":[]}`, string(got))
}

func TestUTF8Reader_Windows1252Fallback(t *testing.T) {
	// Windows-1252 encoded `{"title":"Café"}`: é = 0xE9, no BOM, not
	// valid UTF-8.
	input := []byte{
		'{', '"', 't', 'i', 't', 'l', 'e', '"', ':',
		'"', 'C', 'a', 'f', 0xE9, '"', '}',
	}

	r, err := encoding.UTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, `{"title":"Café"}`, string(got))
}

func TestUTF8Reader_EmptyInput(t *testing.T) {
	r, err := encoding.UTF8Reader(bytes.NewReader(nil))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Empty(t, got)
}
