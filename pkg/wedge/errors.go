package wedge

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

var (
	// ErrInvalidGeometryInput помечает клин с недопустимыми радиусами.
	// Такой клин отбрасывается целиком, значения никогда не подгоняются.
	ErrInvalidGeometryInput = errors.New("invalid geometry input")

	// ErrBackendFailure — бэкенд не смог выполнить операцию. Без повторов.
	ErrBackendFailure = errors.New("geometry backend failure")

	// ErrBackendDown — бэкенд неработоспособен, батч прерывается.
	ErrBackendDown = errors.New("geometry backend unusable")
)

// SpecFailure связывает отказ с идентификатором клина.
type SpecFailure struct {
	ID  string
	Err error
}

func (f SpecFailure) Error() string {
	return fmt.Sprintf("wedge %q: %v", f.ID, f.Err)
}

func (f SpecFailure) Unwrap() error {
	return f.Err
}

// BatchError накапливает отказы отдельных клиньев за один прогон.
// Один плохой клин не останавливает остальные, отчет — в конце.
type BatchError struct {
	Failures []SpecFailure
}

func (e *BatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d wedge(s) failed:", len(e.Failures))
	for _, f := range e.Failures {
		sb.WriteString("\n\t")
		sb.WriteString(f.Error())
	}
	return sb.String()
}

// Unwrap отдает комбинированную ошибку, чтобы работали errors.Is/As.
func (e *BatchError) Unwrap() error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return multierr.Combine(errs...)
}

func (e *BatchError) orNil() error {
	if len(e.Failures) == 0 {
		return nil
	}
	return e
}
