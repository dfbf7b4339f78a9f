package context

// Context constants for context.Context

//goland:noinspection GoUnusedConst
const (
	Database        = "db"
	Clickhouse      = "clickhouse"
	Store           = "store"
	CourseStructure = "courseStructure"
	Environment     = "environment"
	Token           = "token"
)
