// Command api runs the JobTrust HTTP server and the background rescore sweep.
package main

import (
	"log"

	"jobtrust-backend/internal/database"
	"jobtrust-backend/internal/scheduler"
	"jobtrust-backend/internal/server"
)

func main() {
	srv := server.NewServer()

	db, err := database.GetMainDB()
	if err != nil {
		log.Fatalf("Database failed to initialized: %s", err)
	}

	sched := scheduler.NewFromEnv(db)
	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start rescore scheduler: %s", err)
	}
	defer sched.Stop()

	log.Printf("Listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("Server error: %s", err)
	}
}
