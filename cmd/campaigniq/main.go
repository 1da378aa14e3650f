package main

import "github.com/brightline-labs/campaigniq/internal/adapters/driving/cli"

func main() {
	cli.Execute()
}
