package main

import (
	"flag"
	"log"

	"internlab/config"
	"internlab/database"
	"internlab/logger"
)

func main() {
	path := flag.String("file", "", "seed YAML file (default: admin account only)")
	flag.Parse()

	config.LoadConfig()
	if err := logger.Init(config.AppConfig.AppEnv); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Log.Sync()

	if err := database.ConnectDb(); err != nil {
		logger.Log.Fatal("database connection failed", "error", err)
	}

	file := DefaultSeed()
	if *path != "" {
		var err error
		if file, err = LoadSeedFile(*path); err != nil {
			logger.Log.Fatal("seed file rejected", "file", *path, "error", err)
		}
	}

	result, err := Apply(database.Database.Db, file)
	if err != nil {
		logger.Log.Fatal("seeding failed", "error", err)
	}
	logger.Log.Info("seed complete",
		"admin", file.Admin.Email,
		"usersCreated", result.UsersCreated,
		"usersUpgraded", result.UsersUpgraded,
		"programsCreated", result.ProgramsCreated,
		"tasksCreated", result.TasksCreated,
		"resourcesCreated", result.ResourcesCreated,
	)
}
