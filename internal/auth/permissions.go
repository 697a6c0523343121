package auth

import (
	"fmt"

	"github.com/AmineshOptisoft/next-crm-sub003/internal/common"
	"github.com/AmineshOptisoft/next-crm-sub003/internal/models"
)

// Permission module names. Statically enumerated; modules are not created
// or destroyed at runtime.
const (
	ModuleContacts      = "contacts"
	ModuleDeals         = "deals"
	ModuleTasks         = "tasks"
	ModuleActivities    = "activities"
	ModuleMeetings      = "meetings"
	ModuleProducts      = "products"
	ModuleInvoices      = "invoices"
	ModuleEmployees     = "employees"
	ModuleCampaigns     = "campaigns"
	ModuleBookings      = "bookings"
	ModulePromocodes    = "promocodes"
	ModuleZipCodes      = "zipcodes"
	ModuleServiceAreas  = "service_areas"
	ModuleNotifications = "notifications"
	ModuleCompanies     = "companies"
)

var knownModules = []string{
	ModuleContacts, ModuleDeals, ModuleTasks, ModuleActivities,
	ModuleMeetings, ModuleProducts, ModuleInvoices, ModuleEmployees,
	ModuleCampaigns, ModuleBookings, ModulePromocodes, ModuleZipCodes,
	ModuleServiceAreas, ModuleNotifications, ModuleCompanies,
}

var allActions = []models.Action{
	models.ActionView, models.ActionCreate, models.ActionEdit,
	models.ActionDelete, models.ActionExport,
}

// systemModules are excluded from company_admin's all-actions default.
var systemModules = map[string][]models.Action{
	ModuleCompanies: {models.ActionView, models.ActionEdit},
}

// adminOnlyForUsers lists modules where company_user falls back to
// view-only instead of the view/create/edit default.
var adminOnlyForUsers = map[string]bool{
	ModuleEmployees: true,
	ModuleCompanies: true,
}

// KnownModules returns the closed set of permission modules.
func KnownModules() []string {
	out := make([]string, len(knownModules))
	copy(out, knownModules)
	return out
}

// IsKnownModule reports whether the module name is part of the closed set.
// Unknown names are not an error anywhere in the engine; they simply never
// match an override and resolve through role defaults.
func IsKnownModule(module string) bool {
	for _, m := range knownModules {
		if m == module {
			return true
		}
	}
	return false
}

// ValidateModules checks the static tables against the closed module set.
// Called once at startup.
func ValidateModules() error {
	for m := range systemModules {
		if !IsKnownModule(m) {
			return fmt.Errorf("system module %q is not a known module", m)
		}
	}
	for m := range adminOnlyForUsers {
		if !IsKnownModule(m) {
			return fmt.Errorf("restricted module %q is not a known module", m)
		}
	}
	return nil
}

// defaultActions returns the role-default action set for a module. This is
// only consulted when no explicit override exists for the module.
func defaultActions(role models.Role, module string) []models.Action {
	switch role {
	case models.RoleSuperAdmin:
		return allActions
	case models.RoleCompanyAdmin:
		if restricted, ok := systemModules[module]; ok {
			return restricted
		}
		return allActions
	case models.RoleCompanyUser:
		if adminOnlyForUsers[module] {
			return []models.Action{models.ActionView}
		}
		return []models.Action{models.ActionView, models.ActionCreate, models.ActionEdit}
	case models.RoleEmployee:
		if adminOnlyForUsers[module] {
			return nil
		}
		return []models.Action{models.ActionView}
	default:
		return nil
	}
}

func actionInSet(action models.Action, set []models.Action) bool {
	for _, a := range set {
		if a == action {
			return true
		}
	}
	return false
}

// CheckPermission decides whether the principal may perform action on
// module. Resolution order: super_admin always passes; an explicit
// override for the module decides alone when present; otherwise the role
// default decides. A nil principal means the request never authenticated.
func CheckPermission(p *models.Principal, module string, action models.Action) error {
	if p == nil {
		return common.NewAuthenticationError("Authentication required")
	}
	if p.IsSuperAdmin() {
		return nil
	}

	for _, override := range p.Permissions {
		if override.Module != module {
			continue
		}
		if actionInSet(action, override.Actions) {
			return nil
		}
		return deny(module, action)
	}

	if actionInSet(action, defaultActions(p.Role, module)) {
		return nil
	}
	return deny(module, action)
}

func deny(module string, action models.Action) error {
	return common.NewAuthorizationError(
		fmt.Sprintf("Insufficient permission for %s on %s", action, module))
}
