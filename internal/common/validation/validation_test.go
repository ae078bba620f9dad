package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateMessage(t *testing.T) {
	assert.Error(t, ValidateMessage(""))
	assert.Error(t, ValidateMessage(" \n\t"))
	assert.NoError(t, ValidateMessage("<b>hola</b>"))
	assert.NoError(t, ValidateMessage(strings.Repeat("ñ", MaxMessageLength)))
	assert.Error(t, ValidateMessage(strings.Repeat("a", MaxMessageLength+1)))
}

func TestExtractDriveID(t *testing.T) {
	tests := map[string]string{
		"1AbC_d-9":                                                     "1AbC_d-9",
		"  1AbC_d-9  ":                                                 "1AbC_d-9",
		"https://drive.google.com/file/d/1AbC_d-9/view?usp=sharing":    "1AbC_d-9",
		"https://drive.google.com/open?id=1AbC_d-9&authuser=0":         "1AbC_d-9",
		"https://drive.google.com/uc?export=download&id=1AbC_d-9#frag": "1AbC_d-9",
	}
	for in, want := range tests {
		assert.Equal(t, want, ExtractDriveID(in), in)
	}
}

func TestValidateRequired(t *testing.T) {
	assert.NoError(t, ValidateRequired("1AbC_d-9", "drive file id"))
	assert.EqualError(t, ValidateRequired("  ", "drive file id"), "drive file id is required")
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, StatusActive, StatusClass("active"))
	assert.Equal(t, StatusExpired, StatusClass("expired"))
	assert.Equal(t, StatusInactive, StatusClass(""))
	assert.Equal(t, StatusInactive, StatusClass("trial"))
}

func TestValidateSegment(t *testing.T) {
	for _, s := range []string{SegmentAll, SegmentPremium, SegmentFree} {
		assert.NoError(t, ValidateSegment(s))
	}
	assert.Error(t, ValidateSegment(""))
	assert.Error(t, ValidateSegment("vip"))
}

func TestValidateSubscriptionFilter(t *testing.T) {
	for _, f := range []string{"", "all", "active", "pending", "inactive", "expired"} {
		assert.NoError(t, ValidateSubscriptionFilter(f), f)
	}
	assert.Error(t, ValidateSubscriptionFilter("premium"))
}

func TestValidateChatRef(t *testing.T) {
	for _, ok := range []string{"123", "-100123456", "@kaliroot"} {
		assert.NoError(t, ValidateChatRef(ok), ok)
	}
	for _, bad := range []string{"", "@", "12a", "kaliroot"} {
		assert.Error(t, ValidateChatRef(bad), bad)
	}
}

func TestValidatePhone(t *testing.T) {
	assert.NoError(t, ValidatePhone("+34 600 000 000"))
	assert.Error(t, ValidatePhone(""))
	assert.Error(t, ValidatePhone("call me"))
}

