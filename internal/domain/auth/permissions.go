package auth

import "context"

const (
	PermSalaryCalculate = "salary.calculate"
	PermPayrollRead     = "payroll.read"
	PermPayrollRun      = "payroll.run"
	PermPayrollPay      = "payroll.pay"
)

var DefaultPermissions = []string{
	PermSalaryCalculate,
	PermPayrollRead,
	PermPayrollRun,
	PermPayrollPay,
}

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermSalaryCalculate,
		PermPayrollRead,
	},
	RoleManager: {
		PermSalaryCalculate,
		PermPayrollRead,
	},
	RoleHR: {
		PermSalaryCalculate,
		PermPayrollRead,
		PermPayrollRun,
		PermPayrollPay,
	},
}

// RoleTable answers permission checks from RolePermissions.
type RoleTable struct{}

func (RoleTable) HasPermission(_ context.Context, role, permission string) (bool, error) {
	for _, candidate := range RolePermissions[role] {
		if candidate == permission {
			return true, nil
		}
	}
	return false, nil
}
