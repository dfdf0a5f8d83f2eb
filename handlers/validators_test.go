package handlers

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRulesReportsFailure(t *testing.T) {
	v := validator.New()
	always := func(string) bool { return true }

	require.NoError(t, registerRules(v, map[string]func(string) bool{"pizza_size": always}))
	err := registerRules(v, map[string]func(string) bool{"omitempty": always})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"omitempty"`)
}

func TestRegisterValidatorsEnumRules(t *testing.T) {
	RegisterValidators()

	type payload struct {
		Status   string `json:"status" binding:"order_status"`
		Category string `json:"category" binding:"menu_category"`
		State    string `json:"state" binding:"restaurant_status"`
		Method   string `json:"method" binding:"payment_method"`
		Payment  string `json:"payment" binding:"payment_status"`
		Vehicle  string `json:"vehicle" binding:"vehicle_type"`
	}
	good := payload{"assigned", "dessert", "busy", "card", "refunded", "scooter"}
	require.NoError(t, binding.Validator.ValidateStruct(&good))

	bad := payload{"lost", "soup", "gone", "barter", "maybe", "hovercraft"}
	err := binding.Validator.ValidateStruct(&bad)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Len(t, verrs, 6)
	assert.Equal(t, "status", verrs[0].Field())
}
