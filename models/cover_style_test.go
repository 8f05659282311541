package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParseCoverStyle(t *testing.T) {
	t.Run("gradient", func(t *testing.T) {
		s := ParseCoverStyle(strPtr(`{"type":"gradient","color1":"#000","color2":"#fff","showTitle":false}`))
		require.NotNil(t, s)
		assert.Equal(t, CoverTypeGradient, s.Type)
		assert.Equal(t, "#fff", s.Color2)
		assert.False(t, s.TitleVisible())
	})

	t.Run("image with filters", func(t *testing.T) {
		s := ParseCoverStyle(strPtr(`{"type":"image","imageUrl":"data:image/png;base64,AA==","blur":4,"brightness":120}`))
		require.NotNil(t, s)
		assert.Equal(t, 4.0, s.Value(s.Blur, 0))
		assert.Equal(t, 0.0, s.Value(s.Grain, 0))
		assert.True(t, s.TitleVisible())
	})

	for name, raw := range map[string]*string{
		"nil":             nil,
		"empty":           strPtr(""),
		"garbage":         strPtr("{not json"),
		"unknown type":    strPtr(`{"type":"video"}`),
		"blur range":      strPtr(`{"type":"image","imageUrl":"x","blur":300}`),
		"image no url":    strPtr(`{"type":"image"}`),
		"json but string": strPtr(`"gradient"`),
	} {
		t.Run("degrades/"+name, func(t *testing.T) {
			assert.Nil(t, ParseCoverStyle(raw))
		})
	}
}

func TestDefaultCoverStyleIsValid(t *testing.T) {
	assert.NoError(t, DefaultCoverStyle().Validate())
}
