package main

import (
	"log"

	"ticket-sales/cmd"

	_ "ticket-sales/migrations"
)

func main() {
	if err := cmd.Start(); err != nil {
		log.Fatal(err)
	}
}
