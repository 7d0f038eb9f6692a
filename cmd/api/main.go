package main

import (
	"log"
	"os"
	"strconv"

	"trendrotate/cmd"
)

func main() {
	apiHandler, err := cmd.InitializeDependencies()
	if err != nil {
		log.Fatal(err)
	}
	defer cmd.CloseDependencies(apiHandler)

	port := 3009
	if p := os.Getenv("PORT"); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil {
			log.Fatalf("invalid PORT %q: %v", p, err)
		}
	}

	err = apiHandler.StartApi(port)
	if err != nil {
		log.Fatal(err)
	}
}
