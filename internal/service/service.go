package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andresuchdata/konveksi/backend-go/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ChangeNotifier is told after a mutation has been committed
type ChangeNotifier interface {
	StateChanged(ctx context.Context)
}

type noopNotifier struct{}

func (noopNotifier) StateChanged(context.Context) {}

// validateCommand runs struct-tag validation and folds failures into ErrInvalidInput
func validateCommand(cmd any) error {
	err := validate.Struct(cmd)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
		}
		return domain.InvalidInputf("%s", strings.Join(parts, "; "))
	}
	return domain.InvalidInputf("%v", err)
}
