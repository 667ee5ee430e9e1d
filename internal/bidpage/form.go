package bidpage

import (
	"errors"
	"fmt"
	"pilot-bidding-api/internal/common"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// BidForm holds what the pilot typed. Validate mirrors the server's bounds
// so obvious mistakes are caught before a round trip; the server decides.
type BidForm struct {
	PriceAmount decimal.Decimal `json:"price_amount"`
	Currency    string          `json:"currency" validate:"required,len=3"`
	EtaDays     int             `json:"eta_days" validate:"min=1,max=365"`
	Notes       *string         `json:"notes" validate:"omitempty,max=2000"`
}

type FormError struct {
	Field string
	Msg   string
}

func (e *FormError) Error() string { return e.Field + " " + e.Msg }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	})
	return v
}

func (f BidForm) Validate() error {
	if exp := f.PriceAmount.Exponent(); !common.PriceExponentInRange(exp) {
		if exp > 0 {
			return &FormError{Field: "price_amount", Msg: "is too large"}
		}
		return &FormError{Field: "price_amount", Msg: "has too many decimal places"}
	}
	if !f.PriceAmount.IsPositive() {
		return &FormError{Field: "price_amount", Msg: "must be greater than 0"}
	}

	err := validate.Struct(f)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return &FormError{Field: fe.Field(), Msg: "is required"}
	case "len":
		return &FormError{Field: fe.Field(), Msg: fmt.Sprintf("must be %s characters", fe.Param())}
	case "min":
		return &FormError{Field: fe.Field(), Msg: "must be at least " + fe.Param()}
	case "max":
		return &FormError{Field: fe.Field(), Msg: "must be at most " + fe.Param()}
	}
	return &FormError{Field: fe.Field(), Msg: "is invalid"}
}
