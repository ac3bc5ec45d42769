package main

import "github.com/jmehdipour/eventhub-gateway/cmd"

func main() {
	cmd.Execute()
}
