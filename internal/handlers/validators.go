package handlers

import (
	"fmt"
	"sync"

	"github.com/SscSPs/hesabdari_ledger/internal/dto"
	"github.com/SscSPs/hesabdari_ledger/internal/utils/money"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	registerValidatorsOnce sync.Once
	registerValidatorsErr  error
)

// registerValidators adds the custom binding tags to gin's validator engine.
func registerValidators() error {
	registerValidatorsOnce.Do(func() {
		engine := binding.Validator.Engine()
		v, ok := engine.(*validator.Validate)
		if !ok {
			registerValidatorsErr = fmt.Errorf("unexpected binding validator engine %T", engine)
			return
		}
		registerValidatorsErr = registerAmountValidation(v)
	})
	return registerValidatorsErr
}

// registerAmountValidation registers the "amount" tag. Sign and line rules are
// enforced by the journal validator, the tag only checks syntax.
func registerAmountValidation(v *validator.Validate) error {
	err := v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
		raw, ok := fl.Field().Interface().(dto.Amount)
		if !ok {
			return false
		}
		_, err := money.ParseAmount(string(raw))
		return err == nil
	})
	if err != nil {
		return fmt.Errorf("failed to register amount validation: %w", err)
	}
	return nil
}
