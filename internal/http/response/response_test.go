package response

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOKWithData(t *testing.T) {
	resp := OKWithData(map[string]any{"id": 7})

	assert.Equal(t, StatusOK, resp.Status)
	assert.Empty(t, resp.Error)
	assert.Equal(t, map[string]any{"id": 7}, resp.Data)
}

func TestError(t *testing.T) {
	resp := Error("something broke")

	assert.Equal(t, StatusError, resp.Status)
	assert.Equal(t, "something broke", resp.Error)
}

func TestValidationError(t *testing.T) {
	type payload struct {
		ServiceName string `validate:"required"`
		Price       int    `validate:"required,gt=0"`
		RenewalDate string `validate:"required,datetime=02-01-2006"`
		Email       string `validate:"omitempty,email"`
	}

	tests := []struct {
		name    string
		in      payload
		wantMsg string
	}{
		{
			name:    "missing required field",
			in:      payload{Price: 100, RenewalDate: "01-02-2026"},
			wantMsg: "field ServiceName is a required field",
		},
		{
			name:    "price not greater than zero",
			in:      payload{ServiceName: "Netflix", Price: -5, RenewalDate: "01-02-2026"},
			wantMsg: "field Price must be greater than 0",
		},
		{
			name:    "bad date format",
			in:      payload{ServiceName: "Netflix", Price: 100, RenewalDate: "2026-02-01"},
			wantMsg: "field RenewalDate can contain only date in format 02-01-2006",
		},
		{
			name:    "bad email",
			in:      payload{ServiceName: "Netflix", Price: 100, RenewalDate: "01-02-2026", Email: "not-an-email"},
			wantMsg: "field Email must be a valid email address",
		},
	}

	v := validator.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.in)
			require.Error(t, err)

			resp := ValidationError(err.(validator.ValidationErrors))
			assert.Equal(t, StatusError, resp.Status)
			assert.Contains(t, resp.Error, tt.wantMsg)
		})
	}
}
