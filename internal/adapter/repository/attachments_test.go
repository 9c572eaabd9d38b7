package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAttachmentsArrayShape(t *testing.T) {
	raw := []interface{}{"https://a", "https://b"}
	assert.Equal(t, []string{"https://a", "https://b"}, NormalizeAttachments(raw))
}

func TestNormalizeAttachmentsObjectShapeMatchesArray(t *testing.T) {
	// Historical rows keyed by position must decode to the same list as the
	// native array shape.
	array := []interface{}{"https://a", "https://b", "https://c"}
	object := map[string]interface{}{
		"2": "https://c",
		"0": "https://a",
		"1": "https://b",
	}
	assert.Equal(t, NormalizeAttachments(array), NormalizeAttachments(object))
}

func TestNormalizeAttachmentsNumericKeyOrder(t *testing.T) {
	// "10" sorts after "2" numerically, not lexicographically.
	object := map[string]interface{}{
		"10": "https://k",
		"2":  "https://c",
		"0":  "https://a",
	}
	assert.Equal(t, []string{"https://a", "https://c", "https://k"}, NormalizeAttachments(object))
}

func TestNormalizeAttachmentsDropsNonStrings(t *testing.T) {
	raw := []interface{}{"https://a", 42, nil, "https://b"}
	assert.Equal(t, []string{"https://a", "https://b"}, NormalizeAttachments(raw))
}

func TestNormalizeAttachmentsUnknownShapes(t *testing.T) {
	assert.Nil(t, NormalizeAttachments(nil))
	assert.Nil(t, NormalizeAttachments("https://a"))
	assert.Nil(t, NormalizeAttachments(42))
	assert.Nil(t, NormalizeAttachments([]interface{}{}))
	assert.Nil(t, NormalizeAttachments([]string{}))
}
