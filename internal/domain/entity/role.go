package entity

// Roles emitidos por el proveedor de identidad en el claim "role".
const (
	RoleAdmin   = "admin"   // puede eliminar registros
	RoleManager = "manager" // aprueba y cambia estados
	RoleStaff   = "staff"   // captura formularios
)
