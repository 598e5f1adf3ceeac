// file: main.go
package main

import (
	"NovaCTF/config"
	"NovaCTF/database"
	"NovaCTF/routes"
	"NovaCTF/services"
	"fmt"
	"log"
)

func main() {
	config.Load()

	database.Connect()
	database.MigrateTables()
	database.InitRedis()

	// Nil when no classifier endpoint is configured; the abuse monitor then
	// judges rule triggers directly.
	if classifier := services.NewLLMClassifierFromConfig(); classifier != nil {
		services.ActiveClassifier = classifier
	}

	r := routes.SetupRouter()

	addr := fmt.Sprintf(":%d", config.C.Port)
	log.Println("Starting server on", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
