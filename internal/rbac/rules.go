package rbac

const (
	PermScoreRead      = "score:read"
	PermScoreCalculate = "score:calculate"
)

// RolePermissions is the default policy.
var RolePermissions = map[string][]string{
	"clinician": {
		PermScoreRead,
		PermScoreCalculate,
	},
	"auditor": {
		PermScoreRead,
	},
	"admin": {
		"*",
	},
}
