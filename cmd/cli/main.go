package main

import "github.com/Naicocircus/blog-tech/cmd/cli/command"

func main() {
	command.Execute()
}
