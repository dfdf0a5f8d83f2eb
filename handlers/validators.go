package handlers

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"food-delivery-admin-api/models"
	"food-delivery-admin-api/services"
	"food-delivery-admin-api/statemachine"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the enum rules used in binding tags to gin's validator.
// Safe to call more than once. Panics if a rule cannot be registered.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		// report json names in validation messages
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		rules := map[string]func(string) bool{
			"order_status":      func(s string) bool { return statemachine.IsKnown(models.OrderStatus(s)) },
			"menu_category":     func(s string) bool { return models.MenuCategory(s).Valid() },
			"restaurant_status": func(s string) bool { return models.RestaurantStatus(s).Valid() },
			"payment_method":    func(s string) bool { return models.PaymentMethod(s).Valid() },
			"payment_status":    func(s string) bool { return models.PaymentStatus(s).Valid() },
			"vehicle_type":      services.ValidVehicleType,
		}
		if err := registerRules(v, rules); err != nil {
			panic(err)
		}
	})
}

func registerRules(v *validator.Validate, rules map[string]func(string) bool) error {
	for tag, valid := range rules {
		valid := valid
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return valid(fl.Field().String())
		})
		if err != nil {
			return fmt.Errorf("register %q validator: %w", tag, err)
		}
	}
	return nil
}
