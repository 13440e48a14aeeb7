package main

import "graphql-user-service/cmd/api/cli"

func main() {
	cli.Execute()
}
