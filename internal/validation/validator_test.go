package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidatePositiveNumber(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"9.00", true},
		{"10.32", true},
		{"1", true},
		{"0", false},
		{"0.00", false},
		{"-1", false},
		{"-10.32", false},
		{"abc", false},
		{"", false},
		{"NaN", false},
		{"Inf", false},
		{"+Inf", false},
		{"-Inf", false},
		{"1e400", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			msg := ValidatePositiveNumber(tt.value)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.Equal(t, `Expected cell to be a positive number but received "`+tt.value+`".`, msg)
			}
		})
	}
}

func TestValidatePositiveInteger(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"1", true},
		{"10", true},
		{"0", false},
		{"-2", false},
		{"2.5", false},
		{"two", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidatePositiveInteger(tt.value) == "")
		})
	}
}

func TestValidateNonEmptyString(t *testing.T) {
	assert.Empty(t, ValidateNonEmptyString("Mollis consequat"))
	assert.Equal(t, `Expected cell to be a nonempty string but received "".`, ValidateNonEmptyString(""))
}

func TestParseDataType(t *testing.T) {
	tests := []struct {
		in   string
		want DataType
	}{
		{"string", TypeString},
		{" Text ", TypeString},
		{"Decimal", TypeDecimal},
		{"number", TypeDecimal},
		{"INTEGER", TypeInteger},
		{"numeric", TypeDecimal},
	}
	for _, tt := range tests {
		got, err := ParseDataType(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, name := range []string{"date", "price", "quantity"} {
		_, err := ParseDataType(name)
		assert.Error(t, err, name)
	}
}

func TestDefaultCartSchema(t *testing.T) {
	s := DefaultCartSchema()

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []string{"name", "price", "quantity"}, s.Header())
	assert.Equal(t, 1, s.Index(ColumnPrice))
	assert.Equal(t, -1, s.Index("sku"))
}

func TestNewSchema(t *testing.T) {
	s, err := NewSchema([]string{"sku", " name "}, []DataType{TypeString, TypeString})
	require.NoError(t, err)
	assert.Equal(t, []string{"sku", "name"}, s.Header())

	_, err = NewSchema([]string{"sku"}, nil)
	assert.Error(t, err)
}

func TestColumnValidate_FallsBackToDataType(t *testing.T) {
	c := Column{Name: "price", DataType: TypeDecimal}
	assert.Empty(t, c.Validate("1.5"))
	assert.NotEmpty(t, c.Validate("-1.5"))
}

func TestFormatErrors(t *testing.T) {
	assert.Equal(t, "No validation errors.", FormatErrors([]error{}))

	out := FormatErrors([]error{errors.New("first"), errors.New("second")})
	assert.Contains(t, out, "2 error(s)")
	assert.Contains(t, out, "1. first\n")
	assert.Contains(t, out, "2. second\n")
}
