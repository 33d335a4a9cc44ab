package config

const (
	// DefaultPort is the default port of the application server
	DefaultPort = 5000

	DefaultUploadDir = "uploads"

	CatalogMongo  = "mongo"
	CatalogSqlite = "sqlite"

	DefaultCatalog         = CatalogMongo
	DefaultMongoDB         = "songvault"
	DefaultMongoCollection = "songs"
	DefaultDBPath          = "data/catalog.db"

	// DefaultMaxUploadMemory is how much of a multipart body is kept in memory
	// before spilling to temporary files
	DefaultMaxUploadMemory = 32 << 20

	// DefaultEnvFile is read when no config file is given and it exists
	DefaultEnvFile = ".env"
)
