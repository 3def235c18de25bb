package ux

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainStyles_RenderUnchanged(t *testing.T) {
	s := PlainStyles()
	for name, render := range map[string]func(...string) string{
		"banner":    s.Banner.Render,
		"user":      s.User.Render,
		"assistant": s.Assistant.Render,
		"system":    s.System.Render,
		"error":     s.Error.Render,
	} {
		assert.Equal(t, "x", render("x"), "style %s", name)
	}
}

func TestDefaultStyles_RenderDoesNotPanic(t *testing.T) {
	s := DefaultStyles()
	assert.NotEmpty(t, s.Error.Render("Error: boom"))
	assert.NotEmpty(t, s.Banner.Render("banner"))
}
