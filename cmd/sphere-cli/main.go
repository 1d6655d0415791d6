package main

import "github.com/sphere-wallet/sphere-gateway/internal/cli"

func main() {
	cli.Execute()
}
