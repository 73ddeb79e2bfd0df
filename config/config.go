package config

import (
	"os"
)

type Config struct {
	MongoURI         string
	MongoDB          string
	Port             string
	MasterAdminEmail string
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func LoadConfig() Config {
	return Config{
		MongoURI:         getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:          getEnv("MONGO_DB", "sekolah"),
		Port:             getEnv("PORT", "8000"),
		MasterAdminEmail: getEnv("MASTER_ADMIN_EMAIL", "caproktaroy03@gmail.com"),
	}
}
