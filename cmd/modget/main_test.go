package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTarget(t *testing.T) {
	assert.Equal(t, "/time", target("time"))
	assert.Equal(t, "/time", target("/time"))
	assert.Equal(t, "/a/b", target("a/b"))
}
