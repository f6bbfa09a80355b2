package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanOCRText(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{"plain", "  Age: 42\nSmoker: yes  ", "Age: 42\nSmoker: yes"},
		{"fenced", "```\nAge: 42\n```", "Age: 42"},
		{"fenced with language", "```text\nAge: 42\nDiet: poor\n```", "Age: 42\nDiet: poor"},
		{"single line fence", "```Age: 42```", "Age: 42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanOCRText(tt.in))
		})
	}
}

func TestNewOCRClient(t *testing.T) {
	c, err := NewOCRClient("OpenAI", "key", "")
	require.NoError(t, err)
	oc, ok := c.(*OpenAIOCRClient)
	require.True(t, ok)
	assert.NotEmpty(t, oc.model)
	assert.NoError(t, c.Close())

	_, err = NewOCRClient("tesseract", "key", "")
	assert.ErrorContains(t, err, "unsupported ocr provider")
}
