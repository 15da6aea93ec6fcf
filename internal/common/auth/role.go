package auth

import (
	"fmt"
	"sort"

	"careerguide-workers/internal/common/errors"
	"careerguide-workers/internal/models"
)

// rolePrecedence orders realm roles when a token carries several.
var rolePrecedence = []models.Role{
	models.RoleAdmin,
	models.RoleInstitution,
	models.RoleCompany,
	models.RoleStudent,
}

// ResolveRole reads the account role from explicit claims only. The named
// claim wins when present; otherwise the realm roles are scanned and
// non-platform roles such as offline_access are ignored. A token without a
// platform role is rejected.
func ResolveRole(info *TokenInfo, claim string) (models.Role, error) {
	if claim != "" {
		if raw, ok := info.Claims[claim]; ok {
			s, isString := raw.(string)
			if !isString {
				return "", errors.New(errors.ErrCodeRoleUnresolved, "Role claim is not a string",
					fmt.Sprintf("claim %q has type %T", claim, raw))
			}
			role, err := models.ParseRole(s)
			if err != nil {
				return "", errors.Wrap(errors.ErrCodeRoleUnresolved, "Role claim is not a platform role", err)
			}
			return role, nil
		}
	}

	found := make(map[models.Role]bool)
	for _, r := range info.RealmAccess.Roles {
		if role, err := models.ParseRole(r); err == nil {
			found[role] = true
		}
	}
	for _, role := range rolePrecedence {
		if found[role] {
			return role, nil
		}
	}

	roles := append([]string(nil), info.RealmAccess.Roles...)
	sort.Strings(roles)
	return "", errors.New(errors.ErrCodeRoleUnresolved, "Token carries no platform role",
		fmt.Sprintf("subject %s, realm roles %v", info.Sub, roles))
}
