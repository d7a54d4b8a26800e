package relay_test

import (
	"testing"

	"github.com/bananamirror/relay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBase64_RoundTrip(t *testing.T) {
	allBytes := make([]byte, 256)
	for i := range allBytes {
		allBytes[i] = byte(i)
	}

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "empty", input: []byte{}},
		{name: "single zero byte", input: []byte{0}},
		{name: "ascii", input: []byte("hello world")},
		{name: "every byte value", input: allBytes},
		{name: "high bytes", input: []byte{0xff, 0xfe, 0x80, 0x7f}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := relay.DecodeBase64(relay.EncodeBase64(tt.input))
			require.NoError(t, err)
			assert.Equal(t, len(tt.input), len(decoded))
			if len(tt.input) > 0 {
				assert.Equal(t, tt.input, decoded)
			}
		})
	}
}

func TestDecodeBase64_Invalid(t *testing.T) {
	for _, in := range []string{"not base64!", "abc", "===="} {
		_, err := relay.DecodeBase64(in)
		assert.Error(t, err, in)
	}
}

func TestBodyFromString(t *testing.T) {
	assert.Equal(t, []byte("abc"), relay.BodyFromString("abc"))
	assert.Equal(t, []byte{0x00, 0xe9, 0xff}, relay.BodyFromString("\x00éÿ"))
	assert.Empty(t, relay.BodyFromString(""))
}
