package main

import "github.com/georgemunganga/townkart-backend/internal/cli"

func main() {
	cli.Execute()
}
