package rbac

// Simple default policy. Expand as needed.
var RolePermissions = map[string][]string{
	"teacher": {
		"grade:run",
		"ocr:extract",
		"rubric:create",
		"rubric:view-own",
		"rubric:delete-own",
		"session:view-own",
		"session:delete-own",
		"user:change_password",
	},
	"admin": {
		"*", // everything
	},
}
