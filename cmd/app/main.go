package main

import (
	"laundry/cmd"

	"github.com/labstack/gommon/log"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
