package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserError(t *testing.T) {
	var err error = UserError("you must wait before you create another table")
	assert.Equal(t, "you must wait before you create another table", err.Error())
}
