package main

import (
	"log"

	"inkpot/app/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatal(err)
	}
}
