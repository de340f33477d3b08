package main

import (
	"fmt"
	"log"

	"github.com/lakeview/cottage-admin-console/internal/utils"
)

func main() {
	fmt.Println("===========================================")
	fmt.Println("Session Secret Generator for the Admin Console")
	fmt.Println("===========================================")
	fmt.Println()

	secret, err := utils.GenerateSessionSecret()
	if err != nil {
		log.Fatalf("Failed to generate secret: %v", err)
	}

	fmt.Println("Add this to your .env file:")
	fmt.Println()
	fmt.Printf("CONSOLE_SESSION_SECRET=%s\n", secret)
	fmt.Println()
	fmt.Println("Rotating the secret signs every staff member out.")
	fmt.Println("===========================================")
}
