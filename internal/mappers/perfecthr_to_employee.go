package mappers

import (
	"encoding/json"

	"hr-sync/internal/domain"
	"hr-sync/internal/providers/perfecthr"
)

// PerfectHRToEmployee maps a raw Perfect HR record to the canonical
// employee. It never fails: missing or wrongly typed fields become nil.
func PerfectHRToEmployee(r perfecthr.Employee) domain.Employee {
	return domain.Employee{
		ExternalID:        r["id"],
		Email:             pickTruthy(r["work_email"], r["personal_email"]),
		FirstName:         r["first_name"],
		LastName:          r["last_name"],
		Department:        nested(r, "org", "department", "name"),
		Title:             nested(r, "job", "title"),
		ManagerExternalID: nested(r, "manager", "id"),
		EmploymentStatus:  r["status"],
		StartDate:         r["start_date"],
	}
}

// PerfectHRToEmployees maps every record, keeping order.
func PerfectHRToEmployees(rs []perfecthr.Employee) []domain.Employee {
	out := make([]domain.Employee, 0, len(rs))
	for _, r := range rs {
		out = append(out, PerfectHRToEmployee(r))
	}
	return out
}

// nested walks path through nested objects. It returns nil as soon as a
// step is not an object or the key is absent.
func nested(v any, path ...string) any {
	if len(path) == 0 {
		return v
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	return nested(m[path[0]], path[1:]...)
}

// pickTruthy returns a if it is truthy, b otherwise.
func pickTruthy(a, b any) any {
	if truthy(a) {
		return a
	}
	return b
}

// truthy treats nil, false, zero, "" and empty collections as false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return t != ""
		}
		return f != 0
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case []any:
		return len(t) > 0
	case map[string]any:
		return len(t) > 0
	default:
		return true
	}
}
