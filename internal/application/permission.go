package application

import (
	"fmt"

	"github.com/ifat-github/casting-agency/internal/domain"
)

// CheckPermission reports whether verified claims grant the required
// permission. Tokens without a permissions claim grant nothing.
func CheckPermission(claims *domain.Claims, required domain.Permission) error {
	if claims.HasPermission(required) {
		return nil
	}
	return domain.NewAuthError(domain.AuthErrMissingPermission,
		fmt.Errorf("permission %q not granted", required))
}
