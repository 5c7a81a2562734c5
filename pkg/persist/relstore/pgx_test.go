package relstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNullableString_EmptyBecomesNil(t *testing.T) {
	assert.Nil(t, nullableString(""))
}

func TestNullableString_NonEmptyIsPointer(t *testing.T) {
	ptr := nullableString("Order")
	if assert.NotNil(t, ptr) {
		assert.Equal(t, "Order", *ptr)
	}
}
