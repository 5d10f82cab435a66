package main

import "github.com/apelahishokr/tracker/cmd"

func main() {
	cmd.Execute()
}
