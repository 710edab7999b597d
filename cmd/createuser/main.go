package main

import (
	"errors"
	"flag"
	"log"

	"gorm.io/gorm"

	"shopapi/internal/config"
	"shopapi/internal/hash"
	"shopapi/internal/models"
)

// Users have no registration endpoint; this is the out-of-band way in.
func main() {
	username := flag.String("username", "", "username of the new user")
	password := flag.String("password", "", "password of the new user")
	flag.Parse()

	if *username == "" {
		log.Fatal("missing required flag -username")
	}

	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var existing models.User
	err = db.Where("username = ?", *username).First(&existing).Error
	if err == nil {
		log.Fatalf("user %q already exists", *username)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("db error: %v", err)
	}

	stored := ""
	if *password != "" {
		stored, err = hash.HashPassword(*password)
		if err != nil {
			log.Fatalf("hash error: %v", err)
		}
	}

	user := models.User{Username: *username, Password: stored}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("create user: %v", err)
	}

	log.Printf("created user %q (id=%d)", user.Username, user.ID)
}
