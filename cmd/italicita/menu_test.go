package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMenuCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"menu", "--category", "massas"})

	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.Contains(t, text, "Spaghetti Clássico")
	assert.Contains(t, text, "R$ 25.90")
	assert.Contains(t, text, "molho Molho Bolonhesa")
	assert.NotContains(t, text, "Tiramisu")
}

func TestMenuCmd_UnknownCategory(t *testing.T) {
	cmd := rootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"menu", "--category", "pizzas"})

	assert.ErrorContains(t, cmd.Execute(), "unknown category")
}
