package main

import (
	"log"

	"planetpath/config"
	"planetpath/database"
	"planetpath/routers"
	"planetpath/utils"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	if _, err := utils.InitializeProgressScheduler(database.Database.Db, config.AppConfig.ProgressCron); err != nil {
		log.Fatalf("Failed to start progress scheduler: %v", err)
	}

	app := routers.NewApp(config.AppConfig.UploadDir, true)

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}
