package domain

// Nombres de las colecciones del almacén local embebido.
// Deben coincidir con las tablas creadas en el esquema de localdb.
const (
	ColCompanies      = "companies"
	ColProjects       = "projects"
	ColTasks          = "tasks"
	ColAccessoryTasks = "accessory_tasks"
	ColResources      = "resources"
	ColUsers          = "users"
	ColLogs           = "logs"
	ColRoles          = "roles"
	ColInvitations    = "invitations"
)

// Collections lista todas las colecciones en orden estable (export/import).
var Collections = []string{
	ColCompanies,
	ColProjects,
	ColTasks,
	ColAccessoryTasks,
	ColResources,
	ColUsers,
	ColLogs,
	ColRoles,
	ColInvitations,
}
