package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type job struct {
	Name    string `msgpack:"name"`
	Retries int    `msgpack:"retries"`
}

func TestMsgpackCodec_RoundTrip(t *testing.T) {
	c := NewMsgpackCodec()

	p, err := c.Marshal(job{Name: "resize", Retries: 3})
	require.NoError(t, err)
	require.NotEmpty(t, p)

	var got job
	require.NoError(t, c.Unmarshal(p, &got))
	assert.Equal(t, "resize", got.Name)
	assert.Equal(t, 3, got.Retries)
}

func TestPayload_Decode(t *testing.T) {
	c := NewMsgpackCodec()

	p, err := c.Marshal("hello")
	require.NoError(t, err)

	var s string
	require.NoError(t, p.Decode(&s))
	assert.Equal(t, "hello", s)
}

func TestPayload_DecodeMismatch(t *testing.T) {
	c := NewMsgpackCodec()

	p, err := c.Marshal([]int{1, 2, 3})
	require.NoError(t, err)

	var s string
	assert.Error(t, p.Decode(&s))
}
