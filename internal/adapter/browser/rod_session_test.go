package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ysmood/gson"
)

type fakeProperties map[string]any

func (f fakeProperties) Property(name string) (gson.JSON, error) {
	v, ok := f[name]
	if !ok {
		return gson.JSON{}, errors.New("no such property")
	}
	return gson.New(v), nil
}

func TestTextContent_ReadsRawProperty(t *testing.T) {
	el := fakeProperties{
		"textContent": "  Hidden\n  and shown ",
		"innerText":   "and shown",
	}

	got, err := textContent(el)
	require.NoError(t, err)
	assert.Equal(t, "  Hidden\n  and shown ", got)
}

func TestTextContent_NullAndError(t *testing.T) {
	got, err := textContent(fakeProperties{"textContent": nil})
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = textContent(fakeProperties{})
	assert.Error(t, err)
}
